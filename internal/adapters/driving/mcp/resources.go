package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for pdfren resources.
const uriScheme = "pdfren://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Rename settings tool calls start from",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run-report",
		Description: "Full report of a recorded run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleSettingsResource returns the stored rename settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	data, err := json.MarshalIndent(map[string]any{
		"max_filename_length": settings.MaxFilenameLength,
		"add_timestamp":       settings.AddTimestamp,
		"auto_backup":         settings.AutoBackup,
		"parallel_processing": settings.ParallelProcessing,
		"max_workers":         settings.MaxWorkers,
		"backup_directory":    settings.BackupDirectory,
		"output_directory":    settings.OutputDirectory,
		"recursive":           settings.Recursive,
		"pdf_backend":         settings.PDFBackend.String(),
		"extract_timeout":     settings.ExtractTimeout.String(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

// handleRunResource returns one recorded run.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	report, err := s.ports.History.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("loading run: %w", err)
	}

	data, err := json.MarshalIndent(toRunOutput(report), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}

	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractRunID extracts the run ID from a URI like pdfren://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
