package list

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

func sampleOutcomes() []domain.Outcome {
	return []domain.Outcome{
		{Index: 0, OriginalPath: "/in/a.pdf", FinalPath: "/in/Annual Report.pdf",
			Status: domain.StatusSuccess, Source: domain.SourceMetadata},
		{Index: 1, OriginalPath: "/in/b.pdf", Status: domain.StatusSkipped, Reason: "not a PDF file"},
		{Index: 2, OriginalPath: "/in/c.pdf", Status: domain.StatusFailed, Reason: "rename failed"},
		{Index: 3, OriginalPath: "/in/d.pdf", FinalPath: "/out/Moved.pdf",
			Status: domain.StatusSuccess, Source: domain.SourceLayout},
	}
}

func TestNewOutcomeList(t *testing.T) {
	l := NewOutcomeList(nil)

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedOutcome())
	assert.Contains(t, l.View(), "No documents")
}

func TestOutcomeList_Navigation(t *testing.T) {
	l := NewOutcomeList(nil)
	l.SetOutcomes(sampleOutcomes())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 2, l.Selected())
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.Equal(t, 3, l.Selected())
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, l.Selected())
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 2, l.Selected())
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, l.Selected())
	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	assert.Equal(t, "/in/a.pdf", l.SelectedOutcome().OriginalPath)
}

func TestOutcomeList_View(t *testing.T) {
	l := NewOutcomeList(nil)
	l.SetDimensions(100, 20)
	l.SetOutcomes(sampleOutcomes())

	view := l.View()

	assert.Contains(t, view, "a.pdf")
	assert.Contains(t, view, "→ Annual Report.pdf  [metadata]")
	assert.Contains(t, view, "skipped: not a PDF file")
	assert.Contains(t, view, "failed: rename failed")
	assert.Contains(t, view, "→ /out/Moved.pdf")
}

func TestOutcomeList_ViewScrollsToSelection(t *testing.T) {
	outcomes := make([]domain.Outcome, 20)
	for i := range outcomes {
		outcomes[i] = domain.Outcome{
			Index: i, OriginalPath: fmt.Sprintf("/in/doc%02d.pdf", i), Status: domain.StatusSkipped,
		}
	}
	l := NewOutcomeList(nil)
	l.SetDimensions(80, 6)
	l.SetOutcomes(outcomes)
	for i := 0; i < 10; i++ {
		l.MoveDown()
	}

	view := l.View()

	assert.Contains(t, view, "doc10.pdf")
	assert.NotContains(t, view, "doc00.pdf")
	assert.Equal(t, 6, strings.Count(view, "\n")+1)
}

func TestOutcomeList_SetOutcomesResetsOutOfRangeSelection(t *testing.T) {
	l := NewOutcomeList(nil)
	l.SetOutcomes(sampleOutcomes())
	l.MoveDown()
	l.MoveDown()

	l.SetOutcomes(sampleOutcomes()[:1])

	assert.Equal(t, 0, l.Selected())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 3))
}
