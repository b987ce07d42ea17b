// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfren.
// It lets AI assistants preview and apply title-based renames and inspect
// recorded runs.
package mcp

import "errors"

// ErrMissingRenameService is returned when the rename service is not provided.
var ErrMissingRenameService = errors.New("mcp: rename service is required")

// ErrMissingSettingsService is returned when the settings service is not provided.
var ErrMissingSettingsService = errors.New("mcp: settings service is required")

// ErrHistoryUnavailable is returned by history tools when no history service is wired.
var ErrHistoryUnavailable = errors.New("mcp: run history is not available")
