package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// Ensure RenameService implements the interface.
var _ driving.RenameService = (*RenameService)(nil)

// Progress phases.
const (
	PhasePlan    = "plan"
	PhaseExecute = "execute"
)

// Outcome reasons that are not errors.
const (
	reasonCancelled = "cancelled"
	reasonNotPDF    = "not a PDF file"
	reasonDirectory = "is a directory"
	reasonUnchanged = "already named"
)

// RenameService is the batch rename engine.
//
// A run has three phases. Extraction runs on a bounded worker pool.
// Names are then sanitised and claimed in input order, so suffixes do
// not depend on completion order. In execute mode backups and renames
// run on the pool again.
type RenameService struct {
	fs      driven.FileSystem
	readers map[domain.PDFBackend]driven.PDFReader
	runs    driven.RunStore
	metrics driven.MetricsRecorder

	now   func() time.Time
	newID func() string
}

// NewRenameService creates a rename engine.
// runs and metrics are optional; when nil, runs are not persisted and
// no metrics are recorded.
func NewRenameService(
	fs driven.FileSystem,
	readers map[domain.PDFBackend]driven.PDFReader,
	runs driven.RunStore,
	metrics driven.MetricsRecorder,
) *RenameService {
	return &RenameService{
		fs:      fs,
		readers: readers,
		runs:    runs,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run plans every path and, in execute mode, applies the plans.
func (s *RenameService) Run(
	ctx context.Context,
	paths []string,
	settings domain.RenameSettings,
	mode domain.RunMode,
	progress driving.ProgressFunc,
) (*domain.RunReport, error) {
	switch mode {
	case domain.ModePreview:
		b, err := s.plan(ctx, paths, settings, progress)
		if err != nil {
			return nil, err
		}
		report := b.Report()
		s.record(report)
		return report, nil
	case domain.ModeExecute:
		b, err := s.plan(ctx, paths, settings, progress)
		if err != nil {
			return nil, err
		}
		return s.Execute(ctx, b, progress)
	default:
		return nil, fmt.Errorf("%w: unsupported run mode %q", domain.ErrInvalidInput, mode)
	}
}

// Plan resolves final names for every path without touching disk.
func (s *RenameService) Plan(
	ctx context.Context,
	paths []string,
	settings domain.RenameSettings,
	progress driving.ProgressFunc,
) (driving.Batch, error) {
	b, err := s.plan(ctx, paths, settings, progress)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// pending is the worker-local result of extracting one document.
type pending struct {
	doc        domain.Document
	candidates []domain.Candidate
	extractErr error
	outcome    *domain.Outcome
	elapsed    time.Duration
}

func (s *RenameService) plan(
	ctx context.Context,
	paths []string,
	settings domain.RenameSettings,
	progress driving.ProgressFunc,
) (*batch, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	reader, ok := s.readers[settings.PDFBackend]
	if !ok || reader == nil {
		return nil, fmt.Errorf("%w: pdf backend %s not available", domain.ErrInvalidConfig, settings.PDFBackend)
	}

	files := Discover(paths, settings)
	b := &batch{
		id:        s.newID(),
		settings:  settings,
		startedAt: s.now(),
		entries:   make([]entry, len(files)),
	}

	logger.Section("Plan")
	logger.Info("Planning %d documents with %d workers (run %s)", len(files), settings.Workers(), b.id)

	extractor := NewTitleExtractor(reader)
	results := make([]pending, len(files))
	notify := newNotifier(progress, PhasePlan, len(files))

	var g errgroup.Group
	g.SetLimit(settings.Workers())
	for i, path := range files {
		g.Go(func() error {
			results[i] = s.extract(ctx, extractor, path, settings)
			notify(pendingOutcome(i, &results[i]))
			return nil
		})
	}
	_ = g.Wait()

	// Claims are made sequentially in input order.
	sanitizer := NewSanitizer()
	ledger := newClaimLedger(s.fs)
	stamp := ""
	if settings.AddTimestamp {
		stamp = "_" + b.startedAt.Format(domain.TimestampLayout)
	}

	for i := range results {
		p := &results[i]
		if p.outcome != nil {
			out := *p.outcome
			out.Index = i
			b.entries[i] = entry{outcome: out}
			continue
		}

		chosen := p.candidates[0]
		stem := sanitizer.Sanitize(chosen.Text, settings.MaxFilenameLength) + stamp
		outDir := settings.OutputDirFor(p.doc.Dir())
		name, suffix := ledger.For(outDir).Resolve(stem, p.doc.Ext(), p.doc.Path)

		plan := &domain.RenamePlan{
			Index:          i,
			Document:       p.doc,
			Candidate:      chosen,
			Candidates:     p.candidates,
			FinalName:      name,
			FinalPath:      filepath.Join(filepath.Clean(outDir), name),
			ConflictSuffix: suffix,
			ExtractionErr:  p.extractErr,
		}
		b.entries[i] = entry{plan: plan, outcome: plannedOutcome(plan, p.elapsed)}
		logger.Debug("planned %s -> %s (%s)", p.doc.Path, plan.FinalPath, chosen.Source)
	}

	b.plannedAt = s.now()
	return b, nil
}

// extract builds the document and runs the extractor. In-flight work is
// detached from cancellation; only unstarted documents are skipped.
func (s *RenameService) extract(
	ctx context.Context,
	extractor *TitleExtractor,
	path string,
	settings domain.RenameSettings,
) pending {
	start := time.Now()
	stop := func(status domain.OutcomeStatus, reason string) pending {
		return pending{
			outcome: &domain.Outcome{
				OriginalPath: path,
				Status:       status,
				Reason:       reason,
				Duration:     time.Since(start),
			},
		}
	}

	if ctx.Err() != nil {
		return stop(domain.StatusSkipped, reasonCancelled)
	}
	if !IsPDF(path) {
		return stop(domain.StatusSkipped, reasonNotPDF)
	}

	info, err := s.fs.Stat(path)
	if err != nil {
		logger.Warn("stat %s: %v", path, err)
		return stop(domain.StatusFailed, err.Error())
	}
	if info.IsDir() {
		return stop(domain.StatusSkipped, reasonDirectory)
	}

	doc := domain.Document{Path: path, Size: info.Size(), ModTime: info.ModTime()}

	ectx := context.WithoutCancel(ctx)
	if settings.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ectx, cancel = context.WithTimeout(ectx, settings.ExtractTimeout)
		defer cancel()
	}

	candidates, err := extractor.Extract(ectx, doc)
	if len(candidates) == 0 {
		logger.Warn("%s: %v", doc.Filename(), err)
		reason := domain.ErrExtraction.Error()
		if err != nil {
			reason = err.Error()
		}
		return stop(domain.StatusFailed, reason)
	}
	if err != nil {
		logger.Warn("%s: degraded extraction: %v", doc.Filename(), err)
	}

	return pending{
		doc:        doc,
		candidates: candidates,
		extractErr: err,
		elapsed:    time.Since(start),
	}
}

// Execute applies a planned batch. A batch can be executed once.
func (s *RenameService) Execute(
	ctx context.Context,
	planned driving.Batch,
	progress driving.ProgressFunc,
) (*domain.RunReport, error) {
	b, ok := planned.(*batch)
	if !ok || b == nil {
		return nil, fmt.Errorf("%w: batch was not planned by this service", domain.ErrInvalidInput)
	}
	if err := b.markExecuted(); err != nil {
		return nil, err
	}

	settings := b.settings
	report := &domain.RunReport{
		ID:        b.id,
		Mode:      domain.ModeExecute,
		Settings:  settings,
		StartedAt: s.now(),
		Outcomes:  make([]domain.Outcome, len(b.entries)),
	}

	logger.Section("Execute")
	logger.Info("Renaming %d documents (run %s)", len(b.entries), b.id)

	backups := NewBackupManager(s.fs)
	notify := newNotifier(progress, PhaseExecute, len(b.entries))

	var g errgroup.Group
	g.SetLimit(settings.Workers())
	for i := range b.entries {
		e := b.entries[i]
		if e.plan == nil {
			report.Outcomes[i] = e.outcome
			notify(e.outcome)
			continue
		}
		g.Go(func() error {
			report.Outcomes[i] = s.apply(ctx, e, backups, settings)
			notify(report.Outcomes[i])
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = s.now()
	s.record(report)
	s.persist(ctx, report)
	return report, nil
}

// apply backs up and renames one planned document.
func (s *RenameService) apply(
	ctx context.Context,
	e entry,
	backups *BackupManager,
	settings domain.RenameSettings,
) domain.Outcome {
	start := time.Now()
	plan := e.plan
	out := e.outcome
	fail := func(status domain.OutcomeStatus, reason string) domain.Outcome {
		out.Status = status
		out.Reason = reason
		out.FinalPath = ""
		out.Duration += time.Since(start)
		if status == domain.StatusFailed {
			logger.Error("%s: %s", plan.OriginalPath(), reason)
		}
		return out
	}

	if ctx.Err() != nil {
		return fail(domain.StatusSkipped, reasonCancelled)
	}

	if plan.Unchanged() {
		out.Status = domain.StatusSuccess
		out.Reason = reasonUnchanged
		out.Duration += time.Since(start)
		return out
	}

	ictx := context.WithoutCancel(ctx)

	if settings.AutoBackup {
		backupPath, err := backups.Backup(ictx, plan.OriginalPath(), settings)
		if err != nil {
			return fail(domain.StatusFailed, err.Error())
		}
		out.BackupPath = backupPath
	}

	if settings.OutputDirectory != "" {
		if err := s.fs.MkdirAll(filepath.Dir(plan.FinalPath)); err != nil {
			return fail(domain.StatusFailed, fmt.Errorf("%w: %w", domain.ErrRename, err).Error())
		}
	}

	if err := s.fs.Move(ictx, plan.OriginalPath(), plan.FinalPath); err != nil {
		return fail(domain.StatusFailed, fmt.Errorf("%w: %w", domain.ErrRename, err).Error())
	}

	logger.Info("renamed %s -> %s", plan.OriginalPath(), plan.FinalPath)
	out.Status = domain.StatusSuccess
	out.Duration += time.Since(start)
	return out
}

// record feeds a finished report to the metrics recorder.
func (s *RenameService) record(report *domain.RunReport) {
	stats := report.Stats()
	logger.Info("Run %s (%s): %d succeeded, %d skipped, %d failed of %d",
		report.ID, report.Mode, stats.Succeeded, stats.Skipped, stats.Failed, stats.Total)

	if s.metrics == nil {
		return
	}
	for i := range report.Outcomes {
		s.metrics.ObserveDocument(report.Mode, report.Outcomes[i])
	}
	s.metrics.ObserveRun(report.Mode, stats, report.FinishedAt.Sub(report.StartedAt))
}

// persist saves a report to the run store. Failures are logged only.
func (s *RenameService) persist(ctx context.Context, report *domain.RunReport) {
	if s.runs == nil {
		return
	}
	if err := s.runs.SaveRun(context.WithoutCancel(ctx), report); err != nil {
		logger.Error("saving run %s: %v", report.ID, err)
	}
}

// newNotifier wraps progress with a completion counter. It is safe for
// concurrent use and tolerates a nil progress func.
func newNotifier(progress driving.ProgressFunc, phase string, total int) func(domain.Outcome) {
	var completed atomic.Int64
	return func(out domain.Outcome) {
		n := int(completed.Add(1))
		if progress == nil {
			return
		}
		progress(domain.Progress{Phase: phase, Completed: n, Total: total, Outcome: out})
	}
}

func pendingOutcome(index int, p *pending) domain.Outcome {
	if p.outcome != nil {
		out := *p.outcome
		out.Index = index
		return out
	}
	out := domain.Outcome{
		Index:        index,
		OriginalPath: p.doc.Path,
		Status:       domain.StatusSuccess,
		Duration:     p.elapsed,
	}
	if len(p.candidates) > 0 {
		out.Source = p.candidates[0].Source
		out.Title = p.candidates[0].Text
	}
	return out
}

func plannedOutcome(plan *domain.RenamePlan, elapsed time.Duration) domain.Outcome {
	out := domain.Outcome{
		Index:          plan.Index,
		OriginalPath:   plan.OriginalPath(),
		FinalPath:      plan.FinalPath,
		Status:         domain.StatusSuccess,
		Source:         plan.Candidate.Source,
		Title:          plan.Candidate.Text,
		ConflictSuffix: plan.ConflictSuffix,
		Duration:       elapsed,
	}
	if plan.Unchanged() {
		out.Reason = reasonUnchanged
	}
	return out
}

// batch is the driving.Batch produced by Plan.
type batch struct {
	mu        sync.Mutex
	id        string
	settings  domain.RenameSettings
	startedAt time.Time
	plannedAt time.Time
	entries   []entry
	executed  bool
}

// entry is one document of a batch. plan is nil when planning stopped
// early, in which case outcome is terminal.
type entry struct {
	plan    *domain.RenamePlan
	outcome domain.Outcome
}

func (b *batch) ID() string {
	return b.id
}

func (b *batch) Settings() domain.RenameSettings {
	return b.settings
}

func (b *batch) Report() *domain.RunReport {
	report := &domain.RunReport{
		ID:         b.id,
		Mode:       domain.ModePreview,
		Settings:   b.settings,
		StartedAt:  b.startedAt,
		FinishedAt: b.plannedAt,
		Outcomes:   make([]domain.Outcome, len(b.entries)),
	}
	for i := range b.entries {
		report.Outcomes[i] = b.entries[i].outcome
	}
	return report
}

func (b *batch) Plans() []domain.RenamePlan {
	plans := make([]domain.RenamePlan, 0, len(b.entries))
	for i := range b.entries {
		if b.entries[i].plan != nil {
			plans = append(plans, *b.entries[i].plan)
		}
	}
	return plans
}

func (b *batch) markExecuted() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.executed {
		return fmt.Errorf("%w: batch %s already executed", domain.ErrInvalidInput, b.id)
	}
	b.executed = true
	return nil
}
