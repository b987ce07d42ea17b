package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores a run report and its outcomes in one transaction.
// Saving an existing ID replaces the previous report.
func (s *runStore) SaveRun(ctx context.Context, report *domain.RunReport) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("saving run: %w", domain.ErrInvalidInput)
	}

	settingsJSON, err := json.Marshal(report.Settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}
	stats := report.Stats()

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", report.ID); err != nil {
		return fmt.Errorf("replacing run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, mode, settings, started_at, finished_at, total, succeeded, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, string(report.Mode), string(settingsJSON),
		report.StartedAt.UTC(), nullTime(report.FinishedAt),
		stats.Total, stats.Succeeded, stats.Skipped, stats.Failed)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes (run_id, idx, original_path, final_path, status, reason,
			source, title, conflict_suffix, backup_path, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		if _, err := stmt.ExecContext(ctx, report.ID, o.Index, o.OriginalPath, o.FinalPath,
			string(o.Status), o.Reason, string(o.Source), o.Title, o.ConflictSuffix,
			o.BackupPath, int64(o.Duration)); err != nil {
			return fmt.Errorf("saving outcome %d: %w", o.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// GetRun retrieves a run with its outcomes in input order.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.RunReport, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, mode, settings, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)

	var report domain.RunReport
	var mode, settingsJSON string
	var startedAt, finishedAt sql.NullTime
	if err := row.Scan(&report.ID, &mode, &settingsJSON, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	report.Mode = domain.RunMode(mode)
	if err := json.Unmarshal([]byte(settingsJSON), &report.Settings); err != nil {
		return nil, fmt.Errorf("unmarshalling settings: %w", err)
	}
	if startedAt.Valid {
		report.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		report.FinishedAt = finishedAt.Time
	}

	outcomes, err := s.outcomes(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Outcomes = outcomes

	return &report, nil
}

func (s *runStore) outcomes(ctx context.Context, runID string) ([]domain.Outcome, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT idx, original_path, final_path, status, reason, source, title,
			conflict_suffix, backup_path, duration_ns
		FROM outcomes WHERE run_id = ?
		ORDER BY idx
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []domain.Outcome{}
	for rows.Next() {
		var o domain.Outcome
		var status, source string
		var durationNs int64
		if err := rows.Scan(&o.Index, &o.OriginalPath, &o.FinalPath, &status, &o.Reason,
			&source, &o.Title, &o.ConflictSuffix, &o.BackupPath, &durationNs); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Status = domain.OutcomeStatus(status)
		o.Source = domain.CandidateSource(source)
		o.Duration = time.Duration(durationNs)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcomes: %w", err)
	}
	return outcomes, nil
}

// ListRuns returns run summaries, newest first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, mode, started_at, finished_at, total, succeeded, skipped, failed
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []domain.RunSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sum domain.RunSummary
		var mode string
		var startedAt, finishedAt sql.NullTime
		if err := rows.Scan(&sum.ID, &mode, &startedAt, &finishedAt,
			&sum.Stats.Total, &sum.Stats.Succeeded, &sum.Stats.Skipped, &sum.Stats.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		sum.Mode = domain.RunMode(mode)
		if startedAt.Valid {
			sum.StartedAt = startedAt.Time
		}
		if finishedAt.Valid {
			sum.FinishedAt = finishedAt.Time
			if sum.FinishedAt.After(sum.StartedAt) {
				sum.Stats.Duration = sum.FinishedAt.Sub(sum.StartedAt)
			}
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return summaries, nil
}

// nullTime maps the zero time to NULL.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
