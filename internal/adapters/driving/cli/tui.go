package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [paths...]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for pdfren.

Paths given on the command line are planned straight away; otherwise
enter them in the Rename PDFs view. Every batch is previewed before
anything is renamed.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Preview / Select
  r        - Rename the previewed batch
  x        - Cancel a running batch
  u        - Undo a run (History)
  Esc      - Back
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in TUI: %v", r)
		}
	}()

	ports := tui.NewPorts(renameService, historyService, settingsService)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context()).WithPaths(args)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
