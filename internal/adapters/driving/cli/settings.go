package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage rename settings",
	Long: `View and configure the settings every run starts from.

Flags passed to 'preview' and 'rename' override these for one run only.
Environment variables PDFREN_<KEY> (e.g. PDFREN_MAX_WORKERS) override
stored values.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set and persist a single setting.

Keys:
  max_filename_length  maximum title length (10-255)
  add_timestamp        append _YYYYMMDD_HHMMSS (true/false)
  auto_backup          back up originals before renaming (true/false)
  parallel_processing  use the worker pool (true/false)
  max_workers          worker pool size (1-16)
  backup_directory     backup directory, empty for <dir>/backup
  output_directory     target directory, empty to rename in place
  recursive            descend into subdirectories (true/false)
  pdf_backend          ledongthuc or pdfcpu
  extract_timeout      per-document timeout, e.g. 30s (0 disables)`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Naming]")
	cmd.Printf("  Max filename length: %d\n", settings.MaxFilenameLength)
	cmd.Printf("  Add timestamp: %s\n", yesNo(settings.AddTimestamp))
	cmd.Println()

	cmd.Println("[Files]")
	cmd.Printf("  Auto backup: %s\n", yesNo(settings.AutoBackup))
	cmd.Printf("  Backup directory: %s\n", orDefault(settings.BackupDirectory, "<dir>/backup"))
	cmd.Printf("  Output directory: %s\n", orDefault(settings.OutputDirectory, "(rename in place)"))
	cmd.Printf("  Recursive: %s\n", yesNo(settings.Recursive))
	cmd.Println()

	cmd.Println("[Processing]")
	cmd.Printf("  Parallel processing: %s\n", yesNo(settings.ParallelProcessing))
	cmd.Printf("  Max workers: %d\n", settings.MaxWorkers)
	cmd.Printf("  PDF backend: %s\n", settings.PDFBackend.Description())
	if settings.ExtractTimeout > 0 {
		cmd.Printf("  Extract timeout: %s\n", settings.ExtractTimeout)
	} else {
		cmd.Printf("  Extract timeout: (none)\n")
	}
	cmd.Println()

	if err := settingsService.Validate(*settings); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pdfren settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s to %s\n", args[0], args[1])
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings := *current

	cmd.Println("pdfren Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Select PDF Backend")
	cmd.Println("--------------------------")
	backends := domain.AllPDFBackends()
	defaultIdx := 1
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
		if b == settings.PDFBackend {
			defaultIdx = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
	settings.PDFBackend = backends[parseChoice(readLine(reader), len(backends), defaultIdx)-1]
	cmd.Println()

	cmd.Println("Step 2: Naming")
	cmd.Println("--------------")
	cmd.Printf("Max filename length (%d-%d) [%d]: ",
		domain.MinFilenameLength, domain.MaxFilenameLength, settings.MaxFilenameLength)
	settings.MaxFilenameLength = parseNumber(readLine(reader),
		domain.MinFilenameLength, domain.MaxFilenameLength, settings.MaxFilenameLength)
	cmd.Printf("Append timestamp? (y/n) [%s]: ", yn(settings.AddTimestamp))
	settings.AddTimestamp = parseYesNo(readLine(reader), settings.AddTimestamp)
	cmd.Println()

	cmd.Println("Step 3: Files")
	cmd.Println("-------------")
	cmd.Printf("Back up originals? (y/n) [%s]: ", yn(settings.AutoBackup))
	settings.AutoBackup = parseYesNo(readLine(reader), settings.AutoBackup)
	if settings.AutoBackup {
		cmd.Printf("Backup directory [%s]: ", orDefault(settings.BackupDirectory, "<dir>/backup"))
		if dir := readLine(reader); dir != "" {
			settings.BackupDirectory = dir
		}
	}
	cmd.Println()

	cmd.Println("Step 4: Processing")
	cmd.Println("------------------")
	cmd.Printf("Process in parallel? (y/n) [%s]: ", yn(settings.ParallelProcessing))
	settings.ParallelProcessing = parseYesNo(readLine(reader), settings.ParallelProcessing)
	if settings.ParallelProcessing {
		cmd.Printf("Max workers (%d-%d) [%d]: ", domain.MinWorkers, domain.MaxWorkers, settings.MaxWorkers)
		settings.MaxWorkers = parseNumber(readLine(reader), domain.MinWorkers, domain.MaxWorkers, settings.MaxWorkers)
	}
	cmd.Println()

	if err := settingsService.Save(&settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings saved.")
	return nil
}

// parseChoice parses a 1-based menu choice, returning defaultVal for
// empty or out-of-range input.
func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// parseNumber parses an integer within [minVal, maxVal], returning
// defaultVal otherwise.
func parseNumber(input string, minVal, maxVal, defaultVal int) int {
	val, err := strconv.Atoi(input)
	if err != nil || val < minVal || val > maxVal {
		return defaultVal
	}
	return val
}

func parseYesNo(input string, defaultVal bool) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultVal
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func yn(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
