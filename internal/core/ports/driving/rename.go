package driving

import (
	"context"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// ProgressFunc receives progress notifications during a run.
// It is called from worker goroutines and must be safe for concurrent use.
type ProgressFunc func(domain.Progress)

// Batch is a planned run: every document has a RenamePlan and the
// claimed-name set that produced them is retained so a preview can be
// executed verbatim.
type Batch interface {
	// ID returns the run ID the batch will be reported under.
	ID() string

	// Settings returns the settings the batch was planned with.
	Settings() domain.RenameSettings

	// Report returns the preview report of the batch.
	Report() *domain.RunReport

	// Plans returns the resolved plans in input order. Documents that
	// failed or were skipped during planning have no plan.
	Plans() []domain.RenamePlan
}

// RenameService is the batch rename engine.
type RenameService interface {
	// Run plans every path and, in execute mode, backs up and renames.
	// Only invalid settings abort the run; per-document failures are
	// recorded in the report.
	Run(ctx context.Context, paths []string, settings domain.RenameSettings,
		mode domain.RunMode, progress ProgressFunc) (*domain.RunReport, error)

	// Plan resolves final names for every path without touching disk.
	Plan(ctx context.Context, paths []string, settings domain.RenameSettings,
		progress ProgressFunc) (Batch, error)

	// Execute applies a previously planned batch.
	Execute(ctx context.Context, batch Batch, progress ProgressFunc) (*domain.RunReport, error)
}
