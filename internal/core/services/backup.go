package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// maxBackupAttempts bounds the suffix search in a crowded backup directory.
const maxBackupAttempts = 10000

// BackupManager copies originals aside before they are renamed.
type BackupManager struct {
	fs driven.FileSystem
}

// NewBackupManager creates a backup manager over fs.
func NewBackupManager(fs driven.FileSystem) *BackupManager {
	return &BackupManager{fs: fs}
}

// Backup copies path into the backup directory chosen by settings,
// keeping its filename. An earlier backup of the same name is never
// overwritten; " (n)" is added instead. Errors wrap domain.ErrBackup.
func (m *BackupManager) Backup(ctx context.Context, path string, settings domain.RenameSettings) (string, error) {
	dir := settings.BackupDirFor(filepath.Dir(path))
	if err := m.fs.MkdirAll(dir); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", domain.ErrBackup, dir, err)
	}

	name := filepath.Base(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 0; n < maxBackupAttempts; n++ {
		target := filepath.Join(dir, name)
		if n > 0 {
			target = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		}

		err := m.fs.Copy(ctx, path, target)
		if err == nil {
			logger.Debug("backed up %s to %s", path, target)
			return target, nil
		}
		if !errors.Is(err, domain.ErrTargetExists) {
			return "", fmt.Errorf("%w: %w", domain.ErrBackup, err)
		}
	}
	return "", fmt.Errorf("%w: no free name for %s in %s", domain.ErrBackup, name, dir)
}
