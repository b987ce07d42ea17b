package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

func TestNewProgress_NilWithoutTerminal(t *testing.T) {
	setupTestServices(t)

	assert.Nil(t, newProgress(&cobra.Command{}))
}

func TestNewProgress_Terminal(t *testing.T) {
	setupTestServices(t)
	stderrIsTerminal = func() bool { return true }

	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetErr(buf)

	progress := newProgress(cmd)
	if assert.NotNil(t, progress) {
		progress(domain.Progress{Phase: "plan", Completed: 2, Total: 2})
	}
	assert.Contains(t, buf.String(), "plan     2/2\n")
}

func TestProgressPrinter_Update(t *testing.T) {
	buf := new(bytes.Buffer)
	p := &progressPrinter{w: buf, limiter: rate.NewLimiter(rate.Inf, 1)}

	p.update(domain.Progress{Phase: "plan", Completed: 1, Total: 3})
	p.update(domain.Progress{Phase: "plan", Completed: 1, Total: 3})
	p.update(domain.Progress{Phase: "plan", Completed: 3, Total: 3})
	p.update(domain.Progress{Phase: "execute", Completed: 1, Total: 3})

	out := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("plan     1/3")))
	assert.Contains(t, out, "plan     3/3\n")
	assert.Contains(t, out, "execute  1/3")
}

func TestProgressPrinter_RateLimited(t *testing.T) {
	buf := new(bytes.Buffer)
	p := &progressPrinter{w: buf, limiter: rate.NewLimiter(rate.Every(progressInterval*100), 1)}

	p.update(domain.Progress{Phase: "plan", Completed: 1, Total: 10})
	p.update(domain.Progress{Phase: "plan", Completed: 2, Total: 10})
	p.update(domain.Progress{Phase: "plan", Completed: 10, Total: 10})

	out := buf.String()
	assert.Contains(t, out, "1/10")
	assert.NotContains(t, out, "2/10")
	assert.Contains(t, out, "10/10\n")
}

func TestArrow(t *testing.T) {
	assert.Equal(t, "~", arrow(domain.ModePreview))
	assert.Equal(t, "+", arrow(domain.ModeExecute))
	assert.Equal(t, "+", arrow(domain.ModeUndo))
}
