package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

var previewCmd = &cobra.Command{
	Use:   "preview <path>...",
	Short: "Show the planned names without renaming",
	Long: `Extract a title from every PDF and show the name each file would get.
Nothing on disk is changed. Directories are expanded to the PDFs they
contain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreview,
}

var renameCmd = &cobra.Command{
	Use:   "rename <path>...",
	Short: "Rename PDF files after their titles",
	Long: `Plan every rename, show the plan, and apply it after confirmation.
The names applied are exactly the names shown.

Examples:
  # Rename everything under ~/Downloads, backing up originals
  pdfren rename --backup ~/Downloads

  # Non-interactive, with a JSON report
  pdfren rename --yes --report run.json scans/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRename,
}

func init() {
	addRunFlags(previewCmd)
	addRunFlags(renameCmd)
	renameCmd.Flags().BoolP("yes", "y", false, "rename without asking for confirmation")
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(renameCmd)
}

// addRunFlags registers the per-invocation setting overrides.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("max-length", 0, "maximum title length in characters (10-255)")
	f.Bool("timestamp", false, "append _YYYYMMDD_HHMMSS to every name")
	f.Bool("backup", false, "copy each original before renaming")
	f.String("backup-dir", "", "backup directory (default <dir>/backup)")
	f.String("output-dir", "", "move renamed files into this directory")
	f.Int("workers", 0, "number of parallel workers (1-16)")
	f.Bool("no-parallel", false, "process one document at a time")
	f.Bool("no-recursive", false, "do not descend into subdirectories")
	f.String("backend", "", "PDF reader backend (ledongthuc, pdfcpu)")
	f.Duration("timeout", 0, "per-document extraction timeout, 0 for none")
	f.String("report", "", "export the run report (.json, .yaml, .csv, .xlsx)")
	f.String("metrics-file", "", "write run metrics in Prometheus textfile format")
}

// resolveSettings layers changed flags over the stored settings.
// Nothing is persisted.
func resolveSettings(cmd *cobra.Command) (domain.RenameSettings, error) {
	if settingsService == nil {
		return domain.RenameSettings{}, errors.New("settings service not configured")
	}
	stored, err := settingsService.Get()
	if err != nil {
		return domain.RenameSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	s := *stored
	f := cmd.Flags()

	if f.Changed("max-length") {
		s.MaxFilenameLength, _ = f.GetInt("max-length")
	}
	if f.Changed("timestamp") {
		s.AddTimestamp, _ = f.GetBool("timestamp")
	}
	if f.Changed("backup") {
		s.AutoBackup, _ = f.GetBool("backup")
	}
	if f.Changed("backup-dir") {
		s.BackupDirectory, _ = f.GetString("backup-dir")
	}
	if f.Changed("output-dir") {
		s.OutputDirectory, _ = f.GetString("output-dir")
	}
	if f.Changed("workers") {
		s.MaxWorkers, _ = f.GetInt("workers")
	}
	if f.Changed("no-parallel") {
		v, _ := f.GetBool("no-parallel")
		s.ParallelProcessing = !v
	}
	if f.Changed("no-recursive") {
		v, _ := f.GetBool("no-recursive")
		s.Recursive = !v
	}
	if f.Changed("backend") {
		v, _ := f.GetString("backend")
		backend := domain.PDFBackend(strings.ToLower(strings.TrimSpace(v)))
		if !backend.IsValid() {
			return domain.RenameSettings{}, fmt.Errorf("%w: backend %q", domain.ErrUnsupportedType, v)
		}
		s.PDFBackend = backend
	}
	if f.Changed("timeout") {
		s.ExtractTimeout, _ = f.GetDuration("timeout")
	}

	if err := settingsService.Validate(s); err != nil {
		return domain.RenameSettings{}, err
	}
	return s, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	if renameService == nil {
		return errors.New("rename service not configured")
	}
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := checkReportPath(cmd); err != nil {
		return err
	}

	report, err := renameService.Run(cmd.Context(), args, settings, domain.ModePreview, newProgress(cmd))
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	cmd.Println("Planned renames:")
	printOutcomes(cmd, report)
	printStats(cmd, report.Stats())
	return finishRun(cmd, report)
}

func runRename(cmd *cobra.Command, args []string) error {
	if renameService == nil {
		return errors.New("rename service not configured")
	}
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if err := checkReportPath(cmd); err != nil {
		return err
	}

	ctx := cmd.Context()
	batch, err := renameService.Plan(ctx, args, settings, newProgress(cmd))
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	changes := 0
	for _, plan := range batch.Plans() {
		if !plan.Unchanged() {
			changes++
		}
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && changes > 0 {
		if !stdinIsTerminal() {
			return errors.New("refusing to rename without confirmation, pass --yes")
		}
		cmd.Println("Planned renames:")
		printOutcomes(cmd, batch.Report())
		if !confirm(cmd, fmt.Sprintf("\nRename %d file(s)?", changes)) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	report, err := renameService.Execute(ctx, batch, newProgress(cmd))
	if err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	cmd.Println("Results:")
	printOutcomes(cmd, report)
	stats := report.Stats()
	printStats(cmd, stats)
	cmd.Printf("Run ID: %s\n", report.ID)

	if err := finishRun(cmd, report); err != nil {
		return err
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed", stats.Failed, stats.Total)
	}
	return nil
}
