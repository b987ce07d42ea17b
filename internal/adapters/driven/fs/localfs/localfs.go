// Package localfs implements the FileSystem port on the local disk.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// FileSystem performs disk operations with no-clobber semantics.
type FileSystem struct {
	dirPerm os.FileMode
}

var _ driven.FileSystem = (*FileSystem)(nil)

// New returns a local FileSystem. Created directories use mode 0755.
func New() *FileSystem {
	return &FileSystem{dirPerm: 0755}
}

// Stat returns file info for path.
func (f *FileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Exists reports whether anything, including a dangling symlink, exists at path.
func (f *FileSystem) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// ListNames returns the entry names of dir. A missing dir yields nil.
func (f *FileSystem) ListNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// MkdirAll creates dir and any parents.
func (f *FileSystem) MkdirAll(dir string) error {
	if err := os.MkdirAll(dir, f.dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}

// Copy copies src to dst, preserving mode and modification time.
// dst is created exclusively; a partial dst is removed on failure.
func (f *FileSystem) Copy(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copying %s: not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", dst, domain.ErrTargetExists)
		}
		return fmt.Errorf("creating %s: %w", dst, err)
	}

	if _, err := io.Copy(out, &ctxReader{ctx: ctx, r: in}); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("closing %s: %w", dst, err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserving times on %s: %w", dst, err)
	}
	return nil
}

// Move renames src to dst, refusing to overwrite an existing dst.
// A case-only rename on a case-insensitive filesystem is allowed.
func (f *FileSystem) Move(ctx context.Context, src, dst string) error {
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if dstInfo, err := os.Lstat(dst); err == nil {
		if !os.SameFile(srcInfo, dstInfo) {
			return fmt.Errorf("%s: %w", dst, domain.ErrTargetExists)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dst, err)
	}

	err = os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("renaming %s: %w", src, err)
	}

	if err := f.Copy(ctx, src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s after copy: %w", src, err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
