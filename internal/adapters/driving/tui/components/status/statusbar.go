// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// State represents the current batch state for display.
type State string

const (
	StateReady    State = "ready"
	StatePlanning State = "planning"
	StatePreview  State = "preview"
	StateRunning  State = "running"
	StateDone     State = "done"
	StateError    State = "error"
)

// Bar displays batch status and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	stats   domain.Stats
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// Width includes the bar's own padding.
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StatePlanning:
		return s.styles.Muted.Render("Reading titles...")
	case StateRunning:
		return s.styles.Muted.Render("Renaming...")
	case StatePreview:
		return s.styles.Normal.Render(fmt.Sprintf("%d planned, %d skipped, %d failed",
			s.stats.Succeeded, s.stats.Skipped, s.stats.Failed))
	case StateDone:
		return s.styles.Success.Render(fmt.Sprintf("%d renamed, %d skipped, %d failed",
			s.stats.Succeeded, s.stats.Skipped, s.stats.Failed))
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.state {
	case StatePreview:
		bindings = s.keymap.PreviewHelp()
	case StatePlanning, StateRunning:
		bindings = s.keymap.RunningHelp()
	case StateReady, StateDone, StateError:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetStats sets the counts shown in preview and done states.
func (s *Bar) SetStats(stats domain.Stats) {
	s.stats = stats
}

// Stats returns the displayed counts.
func (s *Bar) Stats() domain.Stats {
	return s.stats
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.stats = domain.Stats{}
}
