package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService reads the run log and reverts execute runs.
type HistoryService struct {
	runs    driven.RunStore
	fs      driven.FileSystem
	metrics driven.MetricsRecorder

	now   func() time.Time
	newID func() string
}

// NewHistoryService creates a history service. metrics may be nil.
func NewHistoryService(runs driven.RunStore, fs driven.FileSystem, metrics driven.MetricsRecorder) *HistoryService {
	return &HistoryService{
		runs:    runs,
		fs:      fs,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// List returns the most recent runs, newest first.
func (h *HistoryService) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	runs, err := h.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns the full report of a run.
func (h *HistoryService) Get(ctx context.Context, id string) (*domain.RunReport, error) {
	report, err := h.runs.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return report, nil
}

// Undo moves every renamed file of an execute run back to its original
// path. Documents are reverted in reverse input order so that chains of
// renames unwind cleanly. A file is left alone when its original path is
// occupied or it is no longer at its renamed path.
func (h *HistoryService) Undo(ctx context.Context, id string) (*domain.RunReport, error) {
	run, err := h.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Mode != domain.ModeExecute {
		return nil, fmt.Errorf("%w: run %s is a %s run, only execute runs can be undone",
			domain.ErrInvalidInput, id, run.Mode)
	}

	logger.Section("Undo")
	report := &domain.RunReport{
		ID:        h.newID(),
		Mode:      domain.ModeUndo,
		Settings:  run.Settings,
		StartedAt: h.now(),
		Outcomes:  make([]domain.Outcome, len(run.Outcomes)),
	}

	for i := len(run.Outcomes) - 1; i >= 0; i-- {
		report.Outcomes[i] = h.revert(ctx, i, run.Outcomes[i])
	}

	report.FinishedAt = h.now()
	stats := report.Stats()
	logger.Info("Undo of %s: %d reverted, %d skipped, %d failed", id, stats.Succeeded, stats.Skipped, stats.Failed)

	if h.metrics != nil {
		for i := range report.Outcomes {
			h.metrics.ObserveDocument(domain.ModeUndo, report.Outcomes[i])
		}
		h.metrics.ObserveRun(domain.ModeUndo, stats, report.FinishedAt.Sub(report.StartedAt))
	}
	if err := h.runs.SaveRun(ctx, report); err != nil {
		return report, fmt.Errorf("save undo run: %w", err)
	}
	return report, nil
}

func (h *HistoryService) revert(ctx context.Context, index int, orig domain.Outcome) domain.Outcome {
	start := time.Now()
	out := domain.Outcome{
		Index:        index,
		OriginalPath: orig.FinalPath,
		FinalPath:    orig.OriginalPath,
		Source:       orig.Source,
		Title:        orig.Title,
	}
	finish := func(status domain.OutcomeStatus, reason string) domain.Outcome {
		out.Status = status
		out.Reason = reason
		out.Duration = time.Since(start)
		if status != domain.StatusSuccess {
			out.FinalPath = ""
		}
		return out
	}

	switch {
	case orig.Status != domain.StatusSuccess:
		out.OriginalPath = orig.OriginalPath
		return finish(domain.StatusSkipped, "not renamed in original run")
	case orig.FinalPath == "" || orig.FinalPath == orig.OriginalPath:
		out.OriginalPath = orig.OriginalPath
		return finish(domain.StatusSkipped, reasonUnchanged)
	case ctx.Err() != nil:
		return finish(domain.StatusSkipped, reasonCancelled)
	case !h.fs.Exists(orig.FinalPath):
		return finish(domain.StatusFailed, fmt.Sprintf("renamed file missing: %s", orig.FinalPath))
	case h.fs.Exists(orig.OriginalPath):
		return finish(domain.StatusFailed, fmt.Errorf("%w: %s", domain.ErrTargetExists, orig.OriginalPath).Error())
	}

	if err := h.fs.Move(ctx, orig.FinalPath, orig.OriginalPath); err != nil {
		logger.Error("undo %s: %v", orig.FinalPath, err)
		return finish(domain.StatusFailed, fmt.Errorf("%w: %w", domain.ErrRename, err).Error())
	}
	logger.Info("reverted %s -> %s", orig.FinalPath, orig.OriginalPath)
	return finish(domain.StatusSuccess, "")
}
