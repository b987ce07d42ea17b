package tui

import "errors"

// ErrMissingRenameService is returned when the rename service is not provided.
var ErrMissingRenameService = errors.New("tui: rename service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("tui: settings service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
