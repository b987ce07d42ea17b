// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewBatch plans, previews and applies a batch.
	ViewBatch
	// ViewHistory lists recorded runs.
	ViewHistory
	// ViewSettings edits rename settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewBatch:
		return "batch"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// PlanCompleted carries a planned batch.
type PlanCompleted struct {
	Batch driving.Batch
	Err   error
}

// ProgressUpdated carries a progress event from a running batch.
type ProgressUpdated struct {
	Progress domain.Progress
}

// RunCompleted carries the report of an executed or undone batch.
type RunCompleted struct {
	Report *domain.RunReport
	Err    error
}

// RunsLoaded carries recorded run summaries.
type RunsLoaded struct {
	Runs []domain.RunSummary
	Err  error
}

// RunLoaded carries one recorded run report.
type RunLoaded struct {
	Report *domain.RunReport
	Err    error
}

// SettingsLoaded carries the current rename settings.
type SettingsLoaded struct {
	Settings *domain.RenameSettings
	Err      error
}

// SettingSaved signals a setting was persisted.
type SettingSaved struct {
	Key string
	Err error
}
