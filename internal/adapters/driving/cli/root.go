// Package cli provides the cobra command tree for pdfren.
// It is a driving adapter: every command talks to the core through the
// driving ports injected with SetServices.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// ReportExporter writes a run report to a file chosen by extension.
type ReportExporter interface {
	Formats() []string
	Export(report *domain.RunReport, path string) error
}

// MetricsWriter dumps collected run metrics in the node-exporter
// textfile format.
type MetricsWriter interface {
	WriteTextfile(path string) error
}

// Services holds the core services the commands use.
type Services struct {
	Rename   driving.RenameService
	History  driving.HistoryService
	Settings driving.SettingsService
	Watch    driving.WatchService
	Exporter ReportExporter
	Metrics  MetricsWriter
}

var (
	version = "dev"
	verbose bool

	renameService   driving.RenameService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	watchService    driving.WatchService
	reportExporter  ReportExporter
	metricsWriter   MetricsWriter
)

var rootCmd = &cobra.Command{
	Use:   "pdfren",
	Short: "Rename PDF files after their titles",
	Long: `pdfren renames PDF files after the title found inside them.

The title is taken from the document metadata when present, otherwise
from the most prominent heading on the first page, otherwise from the
original filename. Names are sanitised for every major filesystem and
collisions are resolved with (1), (2), ... suffixes.

Run 'pdfren preview' first to see what would happen.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline debug output")
}

// SetServices injects the core services.
func SetServices(s Services) {
	renameService = s.Rename
	historyService = s.History
	settingsService = s.Settings
	watchService = s.Watch
	reportExporter = s.Exporter
	metricsWriter = s.Metrics
}

// SetVersion sets the version printed by 'pdfren version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Cancelling ctx stops a running batch.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
