package driven

import "github.com/custodia-labs/pdfren/internal/core/domain"

// ReportExporter writes a run report to a file.
type ReportExporter interface {
	// Formats returns the file extensions the exporter supports, e.g. ".json".
	Formats() []string

	// Export writes report to path. The format is chosen from the extension.
	// Returns domain.ErrUnsupportedType for unknown extensions.
	Export(report *domain.RunReport, path string) error
}
