package driven

import (
	"context"
	"os"
)

// FileSystem is the set of disk operations the rename engine performs.
// Keeping them behind a port lets tests inject permission and disk
// failures without touching real files.
type FileSystem interface {
	// Stat returns file info for path.
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether anything exists at path.
	Exists(path string) bool

	// ListNames returns the names of the entries in dir.
	// A missing directory yields an empty list and no error.
	ListNames(dir string) ([]string, error)

	// MkdirAll creates dir and any parents.
	MkdirAll(dir string) error

	// Copy copies src to dst byte-for-byte, preserving the mode and
	// modification time. It fails if dst already exists.
	Copy(ctx context.Context, src, dst string) error

	// Move renames src to dst without overwriting an existing dst.
	// Cross-device moves fall back to copy and remove.
	Move(ctx context.Context, src, dst string) error
}
