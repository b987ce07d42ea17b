// Package tui provides an interactive terminal user interface for pdfren.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Rename plans and applies batches.
	Rename driving.RenameService

	// History lists and undoes recorded runs. Optional.
	History driving.HistoryService

	// Settings manages rename settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	rename driving.RenameService,
	history driving.HistoryService,
	settings driving.SettingsService,
) *Ports {
	return &Ports{
		Rename:   rename,
		History:  history,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Rename == nil {
		return ErrMissingRenameService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
