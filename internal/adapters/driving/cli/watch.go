package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Rename PDFs as they arrive in a directory",
	Long: `Watch a directory and rename new PDF files after their titles.
Files are collected until the directory has been quiet for a moment and
then renamed as one batch. Press Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addRunFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errors.New("watch service not configured")
	}
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := checkReportPath(cmd); err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])

	onReport := func(report *domain.RunReport) {
		printOutcomes(cmd, report)
		printStats(cmd, report.Stats())
		if err := finishRun(cmd, report); err != nil {
			cmd.PrintErrf("Warning: %v\n", err)
		}
	}

	if err := watchService.Watch(cmd.Context(), args[0], settings, onReport); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Println("Stopped.")
	return nil
}
