package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// pdfExt is the extension inputs are filtered by, compared case-insensitively.
const pdfExt = ".pdf"

// IsPDF reports whether path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), pdfExt)
}

// Discover expands inputs into an ordered, de-duplicated list of absolute
// paths. Directories contribute their PDFs in lexical order, recursively
// when settings.Recursive is set, skipping their backup directories.
// Explicit file arguments are kept as given, even when missing or not a
// PDF, so the run can report them.
func Discover(inputs []string, settings domain.RenameSettings) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			abs = filepath.Clean(input)
		}

		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			add(abs)
			continue
		}

		for _, p := range walkPDFs(abs, settings) {
			add(p)
		}
	}
	return out
}

func walkPDFs(root string, settings domain.RenameSettings) []string {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("walking %s: %v", path, err)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !settings.Recursive || isBackupDir(path, settings) {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsPDF(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		logger.Warn("walking %s: %v", root, err)
	}
	sort.Strings(found)
	return found
}

func isBackupDir(path string, settings domain.RenameSettings) bool {
	clean := filepath.Clean(path)
	if settings.BackupDirectory != "" {
		if abs, err := filepath.Abs(settings.BackupDirectory); err == nil && abs == clean {
			return true
		}
	}
	return clean == filepath.Clean(settings.BackupDirFor(filepath.Dir(clean)))
}
