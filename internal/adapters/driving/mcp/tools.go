package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// defaultRunLimit is the number of runs list_runs returns when unset.
const defaultRunLimit = 20

// RenameInput is the input schema for the preview_rename and rename_pdfs tools.
type RenameInput struct {
	Paths             []string `json:"paths,omitempty" jsonschema:"PDF files or directories to process"`
	PreviewID         string   `json:"preview_id,omitempty" jsonschema:"run_id of a preview_rename result to execute exactly as previewed; paths and overrides are ignored"`
	MaxFilenameLength *int     `json:"max_filename_length,omitempty" jsonschema:"maximum filename length in characters (10-255)"`
	AddTimestamp      *bool    `json:"add_timestamp,omitempty" jsonschema:"append a timestamp to every name"`
	OutputDirectory   *string  `json:"output_directory,omitempty" jsonschema:"move renamed files into this directory"`
	Recursive         *bool    `json:"recursive,omitempty" jsonschema:"descend into subdirectories"`
}

// RunOutput is the output schema of a preview or rename.
type RunOutput struct {
	RunID     string          `json:"run_id"`
	Mode      string          `json:"mode"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Outcomes  []OutcomeOutput `json:"outcomes"`
}

// OutcomeOutput represents the result for one input file.
type OutcomeOutput struct {
	OriginalPath string `json:"original_path"`
	FinalPath    string `json:"final_path,omitempty"`
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	Source       string `json:"title_source,omitempty"`
	BackupPath   string `json:"backup_path,omitempty"`
}

// ListRunsInput is the input schema for the list_runs tool.
type ListRunsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs to return (default 20)"`
}

// ListRunsOutput is the output schema for the list_runs tool.
type ListRunsOutput struct {
	Runs []RunSummaryOutput `json:"runs"`
}

// RunSummaryOutput is one recorded run.
type RunSummaryOutput struct {
	RunID     string `json:"run_id"`
	Mode      string `json:"mode"`
	StartedAt string `json:"started_at"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// GetRunInput is the input schema for the get_run tool.
type GetRunInput struct {
	RunID string `json:"run_id" jsonschema:"the run identifier returned by rename_pdfs or list_runs"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preview_rename",
		Description: "Show the names PDF files would get from their titles without renaming anything",
	}, s.handlePreview)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rename_pdfs",
		Description: "Rename PDF files after their titles and record the run so it can be undone. Pass preview_id to apply a preview unchanged",
	}, s.handleRename)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_runs",
		Description: "List recorded rename runs, newest first",
	}, s.handleListRuns)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_run",
		Description: "Show the per-file outcomes of a recorded run",
	}, s.handleGetRun)
}

func (s *Server) handlePreview(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenameInput,
) (*mcp.CallToolResult, RunOutput, error) {
	paths, settings, err := s.prepare(input)
	if err != nil {
		return nil, RunOutput{}, err
	}

	batch, err := s.ports.Rename.Plan(ctx, paths, settings, nil)
	if err != nil {
		return nil, RunOutput{}, err
	}
	s.previews.put(batch)
	return nil, toRunOutput(batch.Report()), nil
}

func (s *Server) handleRename(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RenameInput,
) (*mcp.CallToolResult, RunOutput, error) {
	if id := strings.TrimSpace(input.PreviewID); id != "" {
		batch, ok := s.previews.take(id)
		if !ok {
			return nil, RunOutput{}, fmt.Errorf("preview %s: %w", id, domain.ErrNotFound)
		}
		report, err := s.ports.Rename.Execute(ctx, batch, nil)
		if err != nil {
			return nil, RunOutput{}, err
		}
		return nil, toRunOutput(report), nil
	}

	paths, settings, err := s.prepare(input)
	if err != nil {
		return nil, RunOutput{}, err
	}

	report, err := s.ports.Rename.Run(ctx, paths, settings, domain.ModeExecute, nil)
	if err != nil {
		return nil, RunOutput{}, err
	}
	return nil, toRunOutput(report), nil
}

// prepare checks the paths and resolves the settings of a request.
func (s *Server) prepare(input RenameInput) ([]string, domain.RenameSettings, error) {
	if len(input.Paths) == 0 {
		return nil, domain.RenameSettings{}, fmt.Errorf("%w: at least one path is required", domain.ErrInvalidInput)
	}

	settings, err := s.settingsFor(input)
	if err != nil {
		return nil, domain.RenameSettings{}, err
	}
	return input.Paths, settings, nil
}

// settingsFor applies the input overrides to the stored settings.
func (s *Server) settingsFor(input RenameInput) (domain.RenameSettings, error) {
	stored, err := s.ports.Settings.Get()
	if err != nil {
		return domain.RenameSettings{}, fmt.Errorf("loading settings: %w", err)
	}
	settings := *stored

	if input.MaxFilenameLength != nil {
		settings.MaxFilenameLength = *input.MaxFilenameLength
	}
	if input.AddTimestamp != nil {
		settings.AddTimestamp = *input.AddTimestamp
	}
	if input.OutputDirectory != nil {
		settings.OutputDirectory = strings.TrimSpace(*input.OutputDirectory)
	}
	if input.Recursive != nil {
		settings.Recursive = *input.Recursive
	}

	if err := s.ports.Settings.Validate(settings); err != nil {
		return domain.RenameSettings{}, err
	}
	return settings, nil
}

func (s *Server) handleListRuns(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListRunsInput,
) (*mcp.CallToolResult, ListRunsOutput, error) {
	if s.ports.History == nil {
		return nil, ListRunsOutput{}, ErrHistoryUnavailable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}

	runs, err := s.ports.History.List(ctx, limit)
	if err != nil {
		return nil, ListRunsOutput{}, err
	}

	output := ListRunsOutput{Runs: make([]RunSummaryOutput, len(runs))}
	for i, r := range runs {
		output.Runs[i] = RunSummaryOutput{
			RunID:     r.ID,
			Mode:      string(r.Mode),
			StartedAt: r.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Total:     r.Stats.Total,
			Succeeded: r.Stats.Succeeded,
			Skipped:   r.Stats.Skipped,
			Failed:    r.Stats.Failed,
		}
	}
	return nil, output, nil
}

func (s *Server) handleGetRun(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetRunInput,
) (*mcp.CallToolResult, RunOutput, error) {
	if s.ports.History == nil {
		return nil, RunOutput{}, ErrHistoryUnavailable
	}
	if strings.TrimSpace(input.RunID) == "" {
		return nil, RunOutput{}, fmt.Errorf("%w: run_id is required", domain.ErrInvalidInput)
	}

	report, err := s.ports.History.Get(ctx, input.RunID)
	if err != nil {
		return nil, RunOutput{}, err
	}
	return nil, toRunOutput(report), nil
}

func toRunOutput(report *domain.RunReport) RunOutput {
	st := report.Stats()
	output := RunOutput{
		RunID:     report.ID,
		Mode:      string(report.Mode),
		Total:     st.Total,
		Succeeded: st.Succeeded,
		Skipped:   st.Skipped,
		Failed:    st.Failed,
		Outcomes:  make([]OutcomeOutput, len(report.Outcomes)),
	}
	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		output.Outcomes[i] = OutcomeOutput{
			OriginalPath: o.OriginalPath,
			FinalPath:    o.FinalPath,
			Status:       string(o.Status),
			Reason:       o.Reason,
			Source:       string(o.Source),
			BackupPath:   o.BackupPath,
		}
	}
	return output
}
