// Package batch provides the plan, preview and rename view for the TUI.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// eventBuffer bounds queued progress events. Progress events beyond it
// are dropped; completion events never are.
const eventBuffer = 64

// State is the step of the batch workflow.
type State int

const (
	// StateInput waits for paths.
	StateInput State = iota
	// StatePlanning extracts titles and resolves names.
	StatePlanning
	// StatePreview shows the plan and waits for confirmation.
	StatePreview
	// StateRunning applies the plan.
	StateRunning
	// StateDone shows the run report.
	StateDone
)

// View drives one batch from path entry to the final report.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	rename   driving.RenameService
	settings driving.SettingsService
	ctx      context.Context

	input    *input.PathInput
	list     *list.OutcomeList
	bar      *status.Bar
	spinner  spinner.Model
	progress progress.Model

	state   State
	batch   driving.Batch
	report  *domain.RunReport
	current domain.Progress
	events  <-chan tea.Msg
	cancel  context.CancelFunc
	err     error
	width   int
	height  int
}

// NewView creates a new batch view.
func NewView(
	s *styles.Styles,
	rename driving.RenameService,
	settings driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:   s,
		keymap:   km,
		rename:   rename,
		settings: settings,
		ctx:      context.Background(),
		input:    input.NewPathInput(s, "Paths"),
		list:     list.NewOutcomeList(s),
		bar:      status.NewBar(s, km),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		width:    80,
		height:   24,
	}
}

// SetContext sets the parent context of batches started by the view.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init focuses the path input.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetPaths fills the path input.
func (v *View) SetPaths(paths []string) {
	quoted := make([]string, len(paths))
	for i, p := range paths {
		if strings.ContainsAny(p, " \t") {
			p = `"` + p + `"`
		}
		quoted[i] = p
	}
	v.input.SetValue(strings.Join(quoted, " "))
}

// Plan starts planning the paths in the input.
func (v *View) Plan() tea.Cmd {
	paths := v.input.Paths()
	if len(paths) == 0 {
		v.bar.SetMessage("Enter at least one file or directory")
		return nil
	}

	settings := domain.DefaultRenameSettings()
	if v.settings != nil {
		s, err := v.settings.Get()
		if err != nil {
			v.fail(fmt.Errorf("loading settings: %w", err))
			return nil
		}
		settings = *s
	}

	rename := v.rename
	v.input.Blur()
	v.state = StatePlanning
	v.err = nil
	v.current = domain.Progress{}
	v.bar.SetState(status.StatePlanning)

	return v.start(func(ctx context.Context, progress driving.ProgressFunc) tea.Msg {
		b, err := rename.Plan(ctx, paths, settings, progress)
		return messages.PlanCompleted{Batch: b, Err: err}
	})
}

// execute applies the previewed batch.
func (v *View) execute() tea.Cmd {
	if v.batch == nil {
		return nil
	}
	rename := v.rename
	b := v.batch
	v.state = StateRunning
	v.current = domain.Progress{}
	v.bar.SetState(status.StateRunning)

	return v.start(func(ctx context.Context, progress driving.ProgressFunc) tea.Msg {
		report, err := rename.Execute(ctx, b, progress)
		return messages.RunCompleted{Report: report, Err: err}
	})
}

// start runs task in the background. Progress events and the final
// message are delivered through a channel drained by waitFor.
func (v *View) start(task func(context.Context, driving.ProgressFunc) tea.Msg) tea.Cmd {
	ctx, cancel := context.WithCancel(v.ctx)
	events := make(chan tea.Msg, eventBuffer)
	v.events = events
	v.cancel = cancel

	send := func(p domain.Progress) {
		select {
		case events <- messages.ProgressUpdated{Progress: p}:
		default:
		}
	}

	go func() {
		defer close(events)
		events <- task(ctx, send)
	}()

	return tea.Batch(waitFor(events), v.spinner.Tick)
}

// waitFor delivers the next event of a running task.
func waitFor(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (v *View) finishTask() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.events = nil
}

func (v *View) fail(err error) {
	v.err = err
	v.bar.SetState(status.StateError)
	v.bar.SetMessage(err.Error())
}

// Update handles messages for the batch view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ProgressUpdated:
		if msg.Progress.Completed > v.current.Completed || msg.Progress.Phase != v.current.Phase {
			v.current = msg.Progress
		}
		return v, waitFor(v.events)

	case messages.PlanCompleted:
		v.finishTask()
		if msg.Err != nil {
			v.state = StateInput
			v.fail(fmt.Errorf("planning failed: %w", msg.Err))
			return v, v.input.Focus()
		}
		v.batch = msg.Batch
		report := msg.Batch.Report()
		v.list.SetOutcomes(report.Outcomes)
		v.bar.SetState(status.StatePreview)
		v.bar.SetStats(report.Stats())
		v.state = StatePreview
		return v, nil

	case messages.RunCompleted:
		v.finishTask()
		v.batch = nil
		v.state = StateDone
		if msg.Err != nil {
			v.fail(fmt.Errorf("rename failed: %w", msg.Err))
			return v, nil
		}
		v.report = msg.Report
		v.list.SetOutcomes(msg.Report.Outcomes)
		v.bar.SetState(status.StateDone)
		v.bar.SetStats(msg.Report.Stats())
		return v, nil

	case spinner.TickMsg:
		if !v.Busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	if v.state == StateInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch v.state {
	case StateInput:
		switch msg.Type { //nolint:exhaustive // only submit and leave are handled here
		case tea.KeyEsc:
			return v, toMenu
		case tea.KeyEnter:
			return v, v.Plan()
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd

	case StatePlanning, StateRunning:
		if keymap.Matches(key, v.keymap.Cancel) && v.cancel != nil {
			v.cancel()
		}
		return v, nil

	case StatePreview:
		switch {
		case keymap.Matches(key, v.keymap.Rename):
			return v, v.execute()
		case keymap.Matches(key, v.keymap.Back):
			return v, v.Reset()
		}

	case StateDone:
		if keymap.Matches(key, v.keymap.Back) || keymap.Matches(key, v.keymap.Select) {
			return v, v.Reset()
		}
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func toMenu() tea.Msg {
	return messages.ViewChanged{View: messages.ViewMenu}
}

// Reset returns to path entry, keeping the entered paths.
func (v *View) Reset() tea.Cmd {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.state = StateInput
	v.batch = nil
	v.events = nil
	v.err = nil
	v.list.SetOutcomes(nil)
	v.bar.Clear()
	return v.input.Focus()
}

// View renders the batch view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Rename PDFs"))
	b.WriteString("\n\n")

	switch v.state {
	case StateInput:
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[enter] preview  [esc] menu"))

	case StatePlanning, StateRunning:
		label := "Reading titles"
		if v.state == StateRunning {
			label = "Renaming"
		}
		fmt.Fprintf(&b, "%s %s %d/%d\n\n", v.spinner.View(), label, v.current.Completed, v.current.Total)
		b.WriteString(v.progress.ViewAs(v.percent()))
		if name := v.current.Outcome.OriginalPath; name != "" {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(name))
		}
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[x] cancel"))

	case StatePreview:
		b.WriteString(v.styles.Subtitle.Render("Planned names"))
		b.WriteString("\n\n")
		b.WriteString(v.list.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[r] rename  [j/k] navigate  [esc] back"))

	case StateDone:
		if v.report != nil && v.err == nil {
			b.WriteString(v.styles.Subtitle.Render("Run " + v.report.ID))
			b.WriteString("\n\n")
			b.WriteString(v.list.View())
			b.WriteString("\n\n")
		}
		b.WriteString(v.styles.Help.Render("[enter] new batch  [j/k] navigate"))
	}

	if v.err != nil && !errors.Is(v.err, context.Canceled) {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) percent() float64 {
	if v.current.Total == 0 {
		return 0
	}
	return float64(v.current.Completed) / float64(v.current.Total)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.bar.SetWidth(width)
	if w := width - 10; w > 10 {
		v.progress.Width = w
	}
}

// State returns the current workflow step.
func (v *View) State() State {
	return v.state
}

// Busy reports whether a plan or rename is running.
func (v *View) Busy() bool {
	return v.state == StatePlanning || v.state == StateRunning
}

// Batch returns the previewed batch, if any.
func (v *View) Batch() driving.Batch {
	return v.batch
}

// Report returns the report of the last executed batch.
func (v *View) Report() *domain.RunReport {
	return v.report
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
