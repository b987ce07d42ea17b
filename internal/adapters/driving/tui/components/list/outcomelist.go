// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pdfren/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// OutcomeList displays the outcomes of a run in a navigable list.
type OutcomeList struct {
	outcomes []domain.Outcome
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewOutcomeList creates a new outcome list component.
func NewOutcomeList(s *styles.Styles) *OutcomeList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &OutcomeList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation messages.
func (l *OutcomeList) Update(msg tea.Msg) (*OutcomeList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.outcomes) > 0 {
				l.selected = len(l.outcomes) - 1
			}
		}
	}
	return l, nil
}

// View renders the visible window of outcomes, two lines each.
func (l *OutcomeList) View() string {
	if len(l.outcomes) == 0 {
		return l.styles.Muted.Render("No documents")
	}

	visible := l.height / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.outcomes) {
		end = len(l.outcomes)
	}

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderOutcome(i, &l.outcomes[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *OutcomeList) renderOutcome(index int, o *domain.Outcome) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	name := truncate(filepath.Base(o.OriginalPath), l.width-4)
	first := indicator + name
	if index == l.selected {
		first = l.styles.Selected.Render(first)
	} else {
		first = l.styles.Normal.Render(first)
	}

	var detail string
	switch {
	case o.Status == domain.StatusSuccess && o.FinalPath != o.OriginalPath:
		target := filepath.Base(o.FinalPath)
		if filepath.Dir(o.FinalPath) != filepath.Dir(o.OriginalPath) {
			target = o.FinalPath
		}
		detail = fmt.Sprintf("→ %s  [%s]", truncate(target, l.width-20), o.Source)
	case o.Reason != "":
		detail = fmt.Sprintf("%s: %s", o.Status, o.Reason)
	default:
		detail = string(o.Status)
	}
	second := l.styles.ForStatus(o.Status).Render("    " + detail)

	return first + "\n" + second
}

func truncate(s string, n int) string {
	if n < 10 {
		n = 10
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetOutcomes replaces the list content, keeping the selection in range.
func (l *OutcomeList) SetOutcomes(outcomes []domain.Outcome) {
	l.outcomes = outcomes
	if l.selected >= len(outcomes) {
		l.selected = 0
	}
}

// Outcomes returns the current outcomes.
func (l *OutcomeList) Outcomes() []domain.Outcome {
	return l.outcomes
}

// Selected returns the index of the selected outcome.
func (l *OutcomeList) Selected() int {
	return l.selected
}

// SelectedOutcome returns the currently selected outcome, or nil if none.
func (l *OutcomeList) SelectedOutcome() *domain.Outcome {
	if l.selected < 0 || l.selected >= len(l.outcomes) {
		return nil
	}
	return &l.outcomes[l.selected]
}

// MoveUp moves selection up.
func (l *OutcomeList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *OutcomeList) MoveDown() {
	if l.selected < len(l.outcomes)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *OutcomeList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of outcomes.
func (l *OutcomeList) Count() int {
	return len(l.outcomes)
}
