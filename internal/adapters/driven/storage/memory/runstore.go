package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory driven.RunStore used when the run database
// cannot be opened, and in tests.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]storedRun
	seq  int
}

type storedRun struct {
	report domain.RunReport
	seq    int
}

// NewRunStore creates an empty in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]storedRun)}
}

// SaveRun stores a copy of report. Saving an existing ID replaces it.
func (s *RunStore) SaveRun(_ context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("saving run: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.runs[report.ID] = storedRun{report: copyReport(report), seq: s.seq}
	return nil
}

// GetRun returns a copy of the stored run.
func (s *RunStore) GetRun(_ context.Context, id string) (*domain.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r := copyReport(&run.report)
	return &r, nil
}

// ListRuns returns summaries newest first. Runs with equal start times are
// ordered by save order.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	s.mu.RLock()
	runs := make([]storedRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	s.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool {
		a, b := runs[i].report.StartedAt, runs[j].report.StartedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return runs[i].seq > runs[j].seq
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	summaries := make([]domain.RunSummary, len(runs))
	for i := range runs {
		r := &runs[i].report
		summaries[i] = domain.RunSummary{
			ID:         r.ID,
			Mode:       r.Mode,
			StartedAt:  r.StartedAt,
			FinishedAt: r.FinishedAt,
			Stats:      r.Stats(),
		}
	}
	return summaries, nil
}

func copyReport(r *domain.RunReport) domain.RunReport {
	c := *r
	c.Outcomes = append([]domain.Outcome(nil), r.Outcomes...)
	return c
}
