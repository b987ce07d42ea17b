// Package history provides the run history view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// runLimit is the number of runs listed.
const runLimit = 50

const timeLayout = "2006-01-02 15:04"

// View lists recorded runs and shows or undoes one of them.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.HistoryService
	ctx     context.Context

	runs     []domain.RunSummary
	selected int
	detail   *domain.RunReport
	outcomes *list.OutcomeList
	loading  bool
	notice   string
	err      error
	width    int
	height   int
}

// NewView creates a new history view.
func NewView(s *styles.Styles, service driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		service:  service,
		ctx:      context.Background(),
		outcomes: list.NewOutcomeList(s),
		width:    80,
		height:   24,
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the run list.
func (v *View) Init() tea.Cmd {
	v.detail = nil
	v.notice = ""
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.service == nil {
		v.err = fmt.Errorf("history not available")
		return nil
	}
	v.loading = true
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		runs, err := service.List(ctx, runLimit)
		return messages.RunsLoaded{Runs: runs, Err: err}
	}
}

func (v *View) show(id string) tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		report, err := service.Get(ctx, id)
		return messages.RunLoaded{Report: report, Err: err}
	}
}

func (v *View) undo(id string) tea.Cmd {
	v.loading = true
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		report, err := service.Undo(ctx, id)
		return messages.RunCompleted{Report: report, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.RunsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.runs = msg.Runs
			if v.selected >= len(v.runs) {
				v.selected = 0
			}
		}
		return v, nil

	case messages.RunLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.detail = msg.Report
			v.outcomes.SetOutcomes(msg.Report.Outcomes)
		}
		return v, nil

	case messages.RunCompleted:
		v.loading = false
		if msg.Err != nil {
			v.err = fmt.Errorf("undo failed: %w", msg.Err)
			return v, nil
		}
		st := msg.Report.Stats()
		v.notice = fmt.Sprintf("Undo run %s: %d reverted, %d skipped, %d failed",
			msg.Report.ID, st.Succeeded, st.Skipped, st.Failed)
		v.detail = msg.Report
		v.outcomes.SetOutcomes(msg.Report.Outcomes)
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	if v.detail != nil {
		if keymap.Matches(key, v.keymap.Back) {
			v.detail = nil
			return v, nil
		}
		v.outcomes, _ = v.outcomes.Update(msg)
		return v, nil
	}

	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.runs)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.Refresh):
		return v, v.load()
	case keymap.Matches(key, v.keymap.Select):
		if run := v.SelectedRun(); run != nil {
			return v, v.show(run.ID)
		}
	case keymap.Matches(key, v.keymap.Undo):
		run := v.SelectedRun()
		if run == nil || v.loading {
			return v, nil
		}
		if run.Mode != domain.ModeExecute {
			v.notice = "Only rename runs can be undone"
			return v, nil
		}
		return v, v.undo(run.ID)
	}
	return v, nil
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	switch {
	case v.detail != nil:
		fmt.Fprintf(&b, "%s\n\n", v.styles.Subtitle.Render(
			fmt.Sprintf("Run %s (%s)", v.detail.ID, v.detail.Mode)))
		b.WriteString(v.outcomes.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[j/k] navigate  [esc] back"))
	case v.loading && len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No runs recorded"))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] menu"))
	default:
		for i, r := range v.runs {
			line := fmt.Sprintf("%-7s  %s  %3d ok  %3d skipped  %3d failed  %s",
				r.Mode, r.StartedAt.Local().Format(timeLayout),
				r.Stats.Succeeded, r.Stats.Skipped, r.Stats.Failed, shortID(r.ID))
			if i == v.selected {
				b.WriteString(v.styles.Selected.Render("> " + line))
			} else {
				b.WriteString(v.styles.Normal.Render("  " + line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] show  [u] undo  [ctrl+r] refresh  [esc] menu"))
	}

	if v.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Success.Render(v.notice))
	}
	if v.err != nil {
		b.WriteString("\n\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.outcomes.SetDimensions(width, height-8)
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.RunSummary {
	return v.runs
}

// SelectedRun returns the selected run, or nil when none.
func (v *View) SelectedRun() *domain.RunSummary {
	if v.selected < 0 || v.selected >= len(v.runs) {
		return nil
	}
	return &v.runs[v.selected]
}

// Detail returns the run being shown, if any.
func (v *View) Detail() *domain.RunReport {
	return v.detail
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
