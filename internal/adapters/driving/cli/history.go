package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

const historyTimeLayout = "2006-01-02 15:04:05"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and undo previous runs",
	Long: `Every preview and rename run is recorded. Use the subcommands to list
runs, show the outcome of each document, export a report, or undo a
rename run.`,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the outcomes of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyUndoCmd = &cobra.Command{
	Use:   "undo <run-id>",
	Short: "Rename the files of a run back to their original names",
	Long: `Move every file renamed by a rename run back to its original path.
Files whose original path is occupied, or that were moved since, are left
alone and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryUndo,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of runs to list, 0 for all")
	historyListCmd.Flags().IntP("limit", "n", 20, "number of runs to list, 0 for all")
	historyShowCmd.Flags().String("report", "", "export the run report (.json, .yaml, .csv, .xlsx)")
	historyUndoCmd.Flags().BoolP("yes", "y", false, "undo without asking for confirmation")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyUndoCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := historyService.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	cmd.Printf("%-36s  %-7s  %-19s  %5s  %5s  %5s  %5s\n",
		"ID", "MODE", "STARTED", "TOTAL", "OK", "SKIP", "FAIL")
	for _, r := range runs {
		cmd.Printf("%-36s  %-7s  %-19s  %5d  %5d  %5d  %5d\n",
			r.ID, r.Mode, r.StartedAt.Local().Format(historyTimeLayout),
			r.Stats.Total, r.Stats.Succeeded, r.Stats.Skipped, r.Stats.Failed)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if err := checkReportPath(cmd); err != nil {
		return err
	}

	report, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	cmd.Printf("Run %s (%s)\n", report.ID, report.Mode)
	cmd.Printf("Started: %s\n", report.StartedAt.Local().Format(historyTimeLayout))
	cmd.Println()
	printOutcomes(cmd, report)
	printStats(cmd, report.Stats())

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := reportExporter.Export(report, path); err != nil {
			return fmt.Errorf("exporting report: %w", err)
		}
		cmd.Printf("Report written to %s\n", path)
	}
	return nil
}

func runHistoryUndo(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !stdinIsTerminal() {
			return errors.New("refusing to undo without confirmation, pass --yes")
		}
		if !confirm(cmd, fmt.Sprintf("Undo run %s?", args[0])) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	report, err := historyService.Undo(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("undo failed: %w", err)
	}

	cmd.Println("Reverted:")
	printOutcomes(cmd, report)
	stats := report.Stats()
	printStats(cmd, stats)
	cmd.Printf("Run ID: %s\n", report.ID)
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d documents could not be reverted", stats.Failed, stats.Total)
	}
	return nil
}
