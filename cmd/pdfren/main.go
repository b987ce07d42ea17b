// Command pdfren renames PDF files after the titles found inside them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pdfren/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/export"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/fs/localfs"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/metrics/prom"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/pdf"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/watcher"
	"github.com/custodia-labs/pdfren/internal/adapters/driving/cli"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/core/services"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	home, err := homeDir()
	if err != nil {
		return err
	}

	logFile, _, err := logger.OpenLogFile(filepath.Join(home, "logs"))
	if err != nil {
		// Logging to file is best effort.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		defer logFile.Close()
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	var runs driven.RunStore
	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		// History then lasts for this process only.
		fmt.Fprintf(os.Stderr, "Warning: opening run history: %v\n", err)
		runs = memory.NewRunStore()
	} else {
		defer store.Close()
		runs = store.RunStore()
	}

	fsys := localfs.New()
	metrics := prom.NewRecorder()

	renameService := services.NewRenameService(fsys, pdf.NewReaders(), runs, metrics)

	cli.SetServices(cli.Services{
		Rename:   renameService,
		History:  services.NewHistoryService(runs, fsys, metrics),
		Settings: services.NewSettingsService(configStore),
		Watch:    services.NewWatchService(watcher.New(), renameService, services.DefaultWatchQuietPeriod),
		Exporter: export.New(),
		Metrics:  metrics,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}

// homeDir returns the pdfren state directory, PDFREN_HOME or ~/.pdfren.
func homeDir() (string, error) {
	if dir := os.Getenv("PDFREN_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".pdfren"), nil
}
