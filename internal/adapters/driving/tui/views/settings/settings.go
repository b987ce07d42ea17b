// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyUp    = "up"
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// View is the settings configuration view. Each setting is edited as a
// string and persisted through the settings service.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.RenameSettings
	keys     []string
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	in := textinput.New()
	in.CharLimit = 1024

	return &View{
		styles:          s,
		settingsService: settingsService,
		input:           in,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	v.editing = false
	v.notice = ""
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := service.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) save(key, value string) tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		return messages.SettingSaved{Key: key, Err: service.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
			v.keys = v.settingsService.Keys()
		}
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved " + msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		if v.settings == nil || len(v.keys) == 0 {
			return v, nil
		}
		v.editing = true
		v.notice = ""
		v.input.SetValue(valueOf(v.settings, v.keys[v.selected]))
		v.input.CursorEnd()
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case keyEnter:
		v.editing = false
		v.input.Blur()
		return v, v.save(v.keys[v.selected], strings.TrimSpace(v.input.Value()))
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// valueOf renders the current value of a setting in the form Set accepts.
func valueOf(s *domain.RenameSettings, key string) string {
	switch key {
	case "max_filename_length":
		return strconv.Itoa(s.MaxFilenameLength)
	case "add_timestamp":
		return strconv.FormatBool(s.AddTimestamp)
	case "auto_backup":
		return strconv.FormatBool(s.AutoBackup)
	case "parallel_processing":
		return strconv.FormatBool(s.ParallelProcessing)
	case "max_workers":
		return strconv.Itoa(s.MaxWorkers)
	case "backup_directory":
		return s.BackupDirectory
	case "output_directory":
		return s.OutputDirectory
	case "recursive":
		return strconv.FormatBool(s.Recursive)
	case "pdf_backend":
		return s.PDFBackend.String()
	case "extract_timeout":
		return s.ExtractTimeout.String()
	default:
		return ""
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil {
		if v.err != nil {
			b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		} else {
			b.WriteString(v.styles.Muted.Render("Loading..."))
		}
		return b.String()
	}

	for i, key := range v.keys {
		value := valueOf(v.settings, key)
		if value == "" {
			value = "(default)"
		}
		line := fmt.Sprintf("%-20s %s", key, value)
		switch {
		case i == v.selected && v.editing:
			b.WriteString("> " + fmt.Sprintf("%-20s ", key) + v.input.View())
		case i == v.selected:
			b.WriteString(v.styles.Selected.Render("> " + line))
		default:
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[enter] edit  [j/k] navigate  [esc] menu"))
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

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	if w := width - 30; w > 10 {
		v.input.Width = w
	}
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.RenameSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
