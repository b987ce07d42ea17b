package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// progressInterval is the minimum gap between progress lines.
const progressInterval = 100 * time.Millisecond

// Terminal checks, replaced in tests.
var (
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	stderrIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
)

// progressPrinter renders a single, rate-limited progress line.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	limiter *rate.Limiter
	phase   string
	last    int
}

// newProgress returns a progress callback writing to stderr, or nil when
// stderr is not a terminal.
func newProgress(cmd *cobra.Command) driving.ProgressFunc {
	if !stderrIsTerminal() {
		return nil
	}
	p := &progressPrinter{
		w:       cmd.ErrOrStderr(),
		limiter: rate.NewLimiter(rate.Every(progressInterval), 1),
	}
	return p.update
}

func (p *progressPrinter) update(ev domain.Progress) {
	done := ev.Completed == ev.Total
	if !done && !p.limiter.Allow() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ev.Phase != p.phase {
		p.phase = ev.Phase
		p.last = 0
	}
	if ev.Completed <= p.last {
		return
	}
	p.last = ev.Completed

	fmt.Fprintf(p.w, "\r%-8s %d/%d", ev.Phase, ev.Completed, ev.Total)
	if done {
		fmt.Fprintln(p.w)
	}
}

// printOutcomes lists every outcome of a report in input order.
func printOutcomes(cmd *cobra.Command, report *domain.RunReport) {
	for i := range report.Outcomes {
		o := &report.Outcomes[i]
		name := filepath.Base(o.OriginalPath)
		switch {
		case o.Status == domain.StatusSuccess && o.FinalPath == o.OriginalPath:
			cmd.Printf("  = %s (%s)\n", name, o.Reason)
		case o.Status == domain.StatusSuccess:
			cmd.Printf("  %s %s -> %s [%s]\n", arrow(report.Mode), name, displayTarget(o), o.Source)
		case o.Status == domain.StatusSkipped:
			cmd.Printf("  - %s: skipped (%s)\n", name, o.Reason)
		default:
			cmd.Printf("  ! %s: failed (%s)\n", name, o.Reason)
		}
	}
}

func arrow(mode domain.RunMode) string {
	if mode == domain.ModePreview {
		return "~"
	}
	return "+"
}

// displayTarget shows the new base name, or the full path when the file
// moves to another directory.
func displayTarget(o *domain.Outcome) string {
	if filepath.Dir(o.FinalPath) != filepath.Dir(o.OriginalPath) {
		return o.FinalPath
	}
	return filepath.Base(o.FinalPath)
}

// printStats prints the run summary line.
func printStats(cmd *cobra.Command, stats domain.Stats) {
	cmd.Printf("\n%d documents: %d succeeded, %d skipped, %d failed (%.1f%% success) in %s\n",
		stats.Total, stats.Succeeded, stats.Skipped, stats.Failed,
		stats.SuccessRate()*100, stats.Duration.Round(time.Millisecond))
}

// finishRun exports the report and metrics requested by flags.
func finishRun(cmd *cobra.Command, report *domain.RunReport) error {
	var errs []error

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := reportExporter.Export(report, path); err != nil {
			errs = append(errs, fmt.Errorf("exporting report: %w", err))
		} else {
			cmd.Printf("Report written to %s\n", path)
		}
	}

	if path, _ := cmd.Flags().GetString("metrics-file"); path != "" {
		if metricsWriter == nil {
			errs = append(errs, errors.New("metrics not configured"))
		} else if err := metricsWriter.WriteTextfile(path); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}

	return errors.Join(errs...)
}

// checkReportPath rejects a --report path with an unsupported extension
// before any work is done.
func checkReportPath(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("report")
	if path == "" {
		return nil
	}
	if reportExporter == nil {
		return errors.New("report exporter not configured")
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range reportExporter.Formats() {
		if f == ext {
			return nil
		}
	}
	return fmt.Errorf("%w: report format %q (supported: %s)",
		domain.ErrUnsupportedType, ext, strings.Join(reportExporter.Formats(), ", "))
}

// readLine reads a line from the reader, trimming whitespace.
func readLine(reader *bufio.Reader) string {
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question, defaulting to no.
func confirm(cmd *cobra.Command, question string) bool {
	cmd.Printf("%s [y/N]: ", question)
	answer := strings.ToLower(readLine(bufio.NewReader(cmd.InOrStdin())))
	return answer == "y" || answer == "yes"
}
