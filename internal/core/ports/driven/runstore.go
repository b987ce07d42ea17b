package driven

import (
	"context"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// RunStore persists run reports as the run log.
type RunStore interface {
	// SaveRun stores a completed run report.
	SaveRun(ctx context.Context, report *domain.RunReport) error

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, id string) (*domain.RunReport, error)

	// ListRuns returns summaries of the most recent runs, newest first.
	// A limit of 0 or less returns every run.
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}
