package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

type fakeBatch struct {
	report *domain.RunReport
}

func (b *fakeBatch) ID() string                      { return b.report.ID }
func (b *fakeBatch) Settings() domain.RenameSettings { return b.report.Settings }
func (b *fakeBatch) Report() *domain.RunReport       { return b.report }
func (b *fakeBatch) Plans() []domain.RenamePlan      { return nil }

type mockRenameService struct {
	planPaths  []string
	planErr    error
	execErr    error
	executed   int
	outcomes   []domain.Outcome
	blockUntil chan struct{}
}

func (m *mockRenameService) Run(
	_ context.Context, _ []string, _ domain.RenameSettings, _ domain.RunMode, _ driving.ProgressFunc,
) (*domain.RunReport, error) {
	return nil, errors.New("not used")
}

func (m *mockRenameService) Plan(
	ctx context.Context, paths []string, settings domain.RenameSettings, progress driving.ProgressFunc,
) (driving.Batch, error) {
	m.planPaths = paths
	if m.blockUntil != nil {
		select {
		case <-m.blockUntil:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.planErr != nil {
		return nil, m.planErr
	}
	for i := range m.outcomes {
		progress(domain.Progress{Phase: "plan", Completed: i + 1, Total: len(m.outcomes), Outcome: m.outcomes[i]})
	}
	return &fakeBatch{report: &domain.RunReport{
		ID: "run-1", Mode: domain.ModePreview, Settings: settings, Outcomes: m.outcomes,
	}}, nil
}

func (m *mockRenameService) Execute(
	_ context.Context, b driving.Batch, progress driving.ProgressFunc,
) (*domain.RunReport, error) {
	m.executed++
	if m.execErr != nil {
		return nil, m.execErr
	}
	report := *b.Report()
	report.Mode = domain.ModeExecute
	for i := range report.Outcomes {
		progress(domain.Progress{Phase: "execute", Completed: i + 1, Total: len(report.Outcomes)})
	}
	return &report, nil
}

type mockSettingsService struct {
	err error
}

func (m *mockSettingsService) Get() (*domain.RenameSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := domain.DefaultRenameSettings()
	s.MaxWorkers = 2
	return &s, nil
}
func (m *mockSettingsService) Save(*domain.RenameSettings) error    { return nil }
func (m *mockSettingsService) Set(string, string) error             { return nil }
func (m *mockSettingsService) Keys() []string                       { return nil }
func (m *mockSettingsService) Validate(domain.RenameSettings) error { return nil }
func (m *mockSettingsService) GetDefaults() domain.RenameSettings {
	return domain.DefaultRenameSettings()
}

func twoOutcomes() []domain.Outcome {
	return []domain.Outcome{
		{Index: 0, OriginalPath: "/in/a.pdf", FinalPath: "/in/Alpha.pdf", Status: domain.StatusSuccess,
			Source: domain.SourceMetadata},
		{Index: 1, OriginalPath: "/in/b.pdf", Status: domain.StatusFailed, Reason: "extraction failed"},
	}
}

// drive executes cmd and feeds the resulting view messages back into the
// view until a plan or run completes.
func drive(t *testing.T, v *View, cmd tea.Cmd) *View {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, m...)
		case messages.ProgressUpdated:
			var next tea.Cmd
			v, next = v.Update(m)
			queue = append(queue, next)
		case messages.PlanCompleted, messages.RunCompleted:
			v, _ = v.Update(m)
			return v
		}
	}
	t.Fatal("task did not complete")
	return v
}

func newTestView(rename *mockRenameService) *View {
	v := NewView(nil, rename, &mockSettingsService{})
	v.SetDimensions(100, 40)
	return v
}

func TestView_PlanShowsPreview(t *testing.T) {
	rename := &mockRenameService{outcomes: twoOutcomes()}
	v := newTestView(rename)
	v.SetPaths([]string{"/in/a.pdf", "/in/my docs"})

	cmd := v.Plan()
	assert.Equal(t, StatePlanning, v.State())
	assert.True(t, v.Busy())

	v = drive(t, v, cmd)

	assert.Equal(t, []string{"/in/a.pdf", "/in/my docs"}, rename.planPaths)
	assert.Equal(t, StatePreview, v.State())
	require.NotNil(t, v.Batch())
	assert.Equal(t, 2, v.Batch().Settings().MaxWorkers)
	view := v.View()
	assert.Contains(t, view, "Planned names")
	assert.Contains(t, view, "Alpha.pdf")
	assert.Contains(t, view, "1 planned, 0 skipped, 1 failed")
}

func TestView_RenameAfterPreview(t *testing.T) {
	rename := &mockRenameService{outcomes: twoOutcomes()}
	v := newTestView(rename)
	v.SetPaths([]string{"/in"})
	v = drive(t, v, v.Plan())

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, StateRunning, v.State())
	v = drive(t, v, cmd)

	assert.Equal(t, 1, rename.executed)
	assert.Equal(t, StateDone, v.State())
	require.NotNil(t, v.Report())
	assert.Equal(t, domain.ModeExecute, v.Report().Mode)
	assert.Contains(t, v.View(), "Run run-1")
	assert.Nil(t, v.Batch())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateInput, v.State())
}

func TestView_EnterWithoutPaths(t *testing.T) {
	v := newTestView(&mockRenameService{})

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, StateInput, v.State())
	assert.Contains(t, v.View(), "Enter at least one file or directory")
}

func TestView_PlanError(t *testing.T) {
	rename := &mockRenameService{planErr: domain.ErrInvalidConfig}
	v := newTestView(rename)
	v.SetPaths([]string{"/in"})

	v = drive(t, v, v.Plan())

	assert.Equal(t, StateInput, v.State())
	assert.ErrorIs(t, v.Err(), domain.ErrInvalidConfig)
	assert.Contains(t, v.View(), "planning failed")
}

func TestView_SettingsError(t *testing.T) {
	v := NewView(nil, &mockRenameService{}, &mockSettingsService{err: errors.New("corrupt config")})
	v.SetPaths([]string{"/in"})

	cmd := v.Plan()

	assert.Nil(t, cmd)
	assert.Equal(t, StateInput, v.State())
	assert.ErrorContains(t, v.Err(), "corrupt config")
}

func TestView_ExecuteError(t *testing.T) {
	rename := &mockRenameService{outcomes: twoOutcomes(), execErr: errors.New("already executed")}
	v := newTestView(rename)
	v.SetPaths([]string{"/in"})
	v = drive(t, v, v.Plan())

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	v = drive(t, v, cmd)

	assert.Equal(t, StateDone, v.State())
	assert.ErrorContains(t, v.Err(), "already executed")
	assert.Nil(t, v.Report())
}

func TestView_CancelPlanning(t *testing.T) {
	rename := &mockRenameService{blockUntil: make(chan struct{})}
	v := newTestView(rename)
	v.SetPaths([]string{"/in"})
	cmd := v.Plan()

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	v = drive(t, v, cmd)

	assert.Equal(t, StateInput, v.State())
	assert.ErrorIs(t, v.Err(), context.Canceled)
}

func TestView_EscFromPreviewKeepsPaths(t *testing.T) {
	rename := &mockRenameService{outcomes: twoOutcomes()}
	v := newTestView(rename)
	v.SetPaths([]string{"/in"})
	v = drive(t, v, v.Plan())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, StateInput, v.State())
	assert.Nil(t, v.Batch())
	assert.Equal(t, 0, rename.executed)
	assert.Equal(t, "/in", v.input.Value())
}

func TestView_EscFromInputReturnsToMenu(t *testing.T) {
	v := newTestView(&mockRenameService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_SpinnerIgnoredWhenIdle(t *testing.T) {
	v := newTestView(&mockRenameService{})

	_, cmd := v.Update(spinner.TickMsg{})

	assert.Nil(t, cmd)
}

func TestView_ProgressAdvancesOnly(t *testing.T) {
	v := newTestView(&mockRenameService{})
	v.state = StateRunning

	v, _ = v.Update(messages.ProgressUpdated{Progress: domain.Progress{Phase: "execute", Completed: 3, Total: 4}})
	v, _ = v.Update(messages.ProgressUpdated{Progress: domain.Progress{Phase: "execute", Completed: 2, Total: 4}})

	assert.Equal(t, 3, v.current.Completed)
	assert.InDelta(t, 0.75, v.percent(), 1e-9)
	assert.Contains(t, v.View(), "Renaming 3/4")
}
