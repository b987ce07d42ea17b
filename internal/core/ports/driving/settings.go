package driving

import "github.com/custodia-labs/pdfren/internal/core/domain"

// SettingsService manages persisted rename settings.
type SettingsService interface {
	// Get retrieves current settings, with defaults and environment
	// overrides applied.
	Get() (*domain.RenameSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.RenameSettings) error

	// Set updates a single setting by key (e.g. "max_workers") from its
	// string form and persists it.
	Set(key, value string) error

	// Keys returns the recognised setting keys.
	Keys() []string

	// Validate checks settings against their bounds.
	Validate(settings domain.RenameSettings) error

	// GetDefaults returns default settings.
	GetDefaults() domain.RenameSettings
}
