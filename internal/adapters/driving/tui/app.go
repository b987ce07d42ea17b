package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/views/batch"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the parent context of every batch and service call.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	batchView    *batch.View
	historyView  *history.View
	settingsView *settings.View

	// paths are planned as soon as the program starts.
	paths []string

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       keymap.DefaultKeyMap(),
		menuView:     menu.NewView(s),
		batchView:    batch.NewView(s, ports.Rename, ports.Settings),
		historyView:  history.NewView(s, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.batchView.SetContext(ctx)
	a.historyView.SetContext(ctx)
	return a
}

// WithPaths opens the batch view and plans paths on start.
func (a *App) WithPaths(paths []string) *App {
	a.paths = paths
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("pdfren")}
	if len(a.paths) > 0 {
		a.currentView = messages.ViewBatch
		a.batchView.SetPaths(a.paths)
		cmds = append(cmds, a.batchView.Plan())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Quit) {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case messages.PlanCompleted, messages.ProgressUpdated, spinner.TickMsg:
		a.batchView, cmd = a.batchView.Update(msg)
		return a, cmd

	case messages.RunCompleted:
		// Undo reports belong to history; batch reports to the batch view.
		if a.currentView == messages.ViewHistory {
			a.historyView, cmd = a.historyView.Update(msg)
		} else {
			a.batchView, cmd = a.batchView.Update(msg)
		}
		return a, cmd

	case messages.RunsLoaded, messages.RunLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	return a, a.forward(msg)
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil
	switch view {
	case messages.ViewBatch:
		if a.batchView.Busy() {
			return nil
		}
		return a.batchView.Reset()
	case messages.ViewHistory:
		return a.historyView.Init()
	case messages.ViewSettings:
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// forward hands a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewBatch:
		a.batchView, cmd = a.batchView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var out string
	switch a.currentView {
	case messages.ViewBatch:
		out = a.batchView.View()
	case messages.ViewHistory:
		out = a.historyView.View()
	case messages.ViewSettings:
		out = a.settingsView.View()
	case messages.ViewHelp:
		out = a.viewHelp()
	default:
		out = a.menuView.View()
	}
	if a.err != nil {
		out += "\n\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return out
}

func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Muted.Render(
		"Preview always runs before a rename. Nothing on disk changes until you press r."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.batchView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
