package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

func TestWatchCmd_RequiresDir(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "watch")

	assert.ErrorContains(t, err, "accepts 1 arg(s)")
}

func TestWatchCmd_PrintsEachBatch(t *testing.T) {
	ts := setupTestServices(t)
	ts.watch.reports = []*domain.RunReport{
		{ID: "run-1", Mode: domain.ModeExecute, Outcomes: successOutcomes()[:1]},
		{ID: "run-2", Mode: domain.ModeExecute, Outcomes: successOutcomes()[1:]},
	}

	out, err := execute(t, "", "watch", "--max-length", "60", "--metrics-file", "m.prom", "/inbox")

	require.NoError(t, err)
	assert.Equal(t, "/inbox", ts.watch.dir)
	assert.Equal(t, 60, ts.watch.settings.MaxFilenameLength)
	assert.Contains(t, out, "Watching /inbox")
	assert.Contains(t, out, "scan01.pdf -> Deep Learning.pdf")
	assert.Contains(t, out, "= Notes.pdf")
	assert.Contains(t, out, "Stopped.")
	assert.Equal(t, []string{"m.prom", "m.prom"}, ts.metrics.paths)
}

func TestWatchCmd_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.watch.err = context.DeadlineExceeded

	_, err := execute(t, "", "watch", "/inbox")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorContains(t, err, "watch failed")
}

func TestWatchCmd_ExportWarningDoesNotStop(t *testing.T) {
	ts := setupTestServices(t)
	ts.watch.reports = []*domain.RunReport{{ID: "run-1", Mode: domain.ModeExecute}}
	ts.exporter.err = domain.ErrInvalidInput

	out, err := execute(t, "", "watch", "--report", "last.json", "/inbox")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: exporting report")
	assert.Contains(t, out, "Stopped.")
}
