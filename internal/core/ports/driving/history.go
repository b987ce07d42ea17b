package driving

import (
	"context"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// HistoryService exposes the persisted run log.
type HistoryService interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RunSummary, error)

	// Get returns the full report of a run.
	Get(ctx context.Context, id string) (*domain.RunReport, error)

	// Undo renames every successful outcome of an execute run back to its
	// original path and returns the report of the undo run.
	Undo(ctx context.Context, id string) (*domain.RunReport, error)
}
