package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// DefaultWatchQuietPeriod is how long a directory must be quiet before
// the pending files are renamed.
const DefaultWatchQuietPeriod = 2 * time.Second

// WatchService renames PDFs as they land in a directory.
type WatchService struct {
	watcher driven.DirectoryWatcher
	engine  driving.RenameService
	quiet   time.Duration
}

// NewWatchService creates a watch service. A quiet period of zero uses
// DefaultWatchQuietPeriod.
func NewWatchService(watcher driven.DirectoryWatcher, engine driving.RenameService, quiet time.Duration) *WatchService {
	if quiet <= 0 {
		quiet = DefaultWatchQuietPeriod
	}
	return &WatchService{
		watcher: watcher,
		engine:  engine,
		quiet:   quiet,
	}
}

// Watch blocks until ctx is cancelled. New PDFs are collected until the
// directory has been quiet for the quiet period, then renamed in one
// execute run. Files the service itself produced are ignored.
func (w *WatchService) Watch(
	ctx context.Context,
	dir string,
	settings domain.RenameSettings,
	onReport func(*domain.RunReport),
) error {
	if err := ValidateSettings(settings); err != nil {
		return err
	}

	events, err := w.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer w.watcher.Close()

	logger.Info("Watching %s for new PDFs", dir)

	pending := make(map[string]bool)
	produced := make(map[string]bool)
	timer := time.NewTimer(w.quiet)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case path, ok := <-events:
			if !ok {
				timer.Stop()
				return nil
			}
			path = filepath.Clean(path)
			if !IsPDF(path) {
				continue
			}
			if produced[path] {
				delete(produced, path)
				continue
			}
			logger.Debug("queued %s", path)
			pending[path] = true
			timer.Reset(w.quiet)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)

			report, err := w.engine.Run(ctx, paths, settings, domain.ModeExecute, nil)
			if err != nil {
				logger.Error("watch batch: %v", err)
				continue
			}
			for _, out := range report.Outcomes {
				if out.Status == domain.StatusSuccess && out.FinalPath != "" && out.FinalPath != out.OriginalPath {
					produced[filepath.Clean(out.FinalPath)] = true
				}
			}
			if onReport != nil {
				onReport(report)
			}
		}
	}
}
