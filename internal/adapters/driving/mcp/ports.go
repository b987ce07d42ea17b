package mcp

import (
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Rename plans and applies batches.
	Rename driving.RenameService

	// History lists recorded runs. Optional.
	History driving.HistoryService

	// Settings supplies the defaults tool calls start from.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Rename == nil {
		return ErrMissingRenameService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
