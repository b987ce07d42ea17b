package mcp

import (
	"context"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// mockRenameService is a mock implementation of driving.RenameService.
type mockRenameService struct {
	report   *domain.RunReport
	err      error
	paths    []string
	settings domain.RenameSettings
	mode     domain.RunMode
	executed []string
}

func (m *mockRenameService) Run(
	_ context.Context,
	paths []string,
	settings domain.RenameSettings,
	mode domain.RunMode,
	_ driving.ProgressFunc,
) (*domain.RunReport, error) {
	m.paths = paths
	m.settings = settings
	m.mode = mode
	if m.err != nil {
		return nil, m.err
	}
	report := *m.report
	report.Mode = mode
	return &report, nil
}

func (m *mockRenameService) Plan(
	_ context.Context,
	paths []string,
	settings domain.RenameSettings,
	_ driving.ProgressFunc,
) (driving.Batch, error) {
	m.paths = paths
	m.settings = settings
	m.mode = domain.ModePreview
	if m.err != nil {
		return nil, m.err
	}
	report := *m.report
	report.Mode = domain.ModePreview
	report.Settings = settings
	return &mockBatch{report: &report}, nil
}

func (m *mockRenameService) Execute(
	_ context.Context, batch driving.Batch, _ driving.ProgressFunc,
) (*domain.RunReport, error) {
	m.mode = domain.ModeExecute
	if m.err != nil {
		return nil, m.err
	}
	m.executed = append(m.executed, batch.ID())
	report := *batch.Report()
	report.Mode = domain.ModeExecute
	return &report, nil
}

// mockBatch is a planned batch returned by mockRenameService.Plan.
type mockBatch struct {
	report *domain.RunReport
}

func (b *mockBatch) ID() string                      { return b.report.ID }
func (b *mockBatch) Settings() domain.RenameSettings { return b.report.Settings }
func (b *mockBatch) Report() *domain.RunReport       { return b.report }
func (b *mockBatch) Plans() []domain.RenamePlan      { return nil }

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs   []domain.RunSummary
	report *domain.RunReport
	err    error
	limit  int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.limit = limit
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.RunReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report == nil || m.report.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.report, nil
}

func (m *mockHistoryService) Undo(_ context.Context, _ string) (*domain.RunReport, error) {
	return nil, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.RenameSettings
	err         error
	validateErr error
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultRenameSettings()}
}

func (m *mockSettingsService) Get() (*domain.RenameSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(*domain.RenameSettings) error { return m.err }
func (m *mockSettingsService) Set(string, string) error          { return m.err }
func (m *mockSettingsService) Keys() []string                    { return nil }

func (m *mockSettingsService) Validate(domain.RenameSettings) error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.RenameSettings {
	return domain.DefaultRenameSettings()
}

func sampleReport() *domain.RunReport {
	return &domain.RunReport{
		ID: "run-1",
		Outcomes: []domain.Outcome{
			{
				Index: 0, OriginalPath: "/in/scan01.pdf", FinalPath: "/in/Deep Learning.pdf",
				Status: domain.StatusSuccess, Source: domain.SourceMetadata,
				BackupPath: "/in/.pdfren_backup/scan01.pdf",
			},
			{
				Index: 1, OriginalPath: "/in/broken.pdf",
				Status: domain.StatusFailed, Reason: "extraction failed",
			},
		},
	}
}
