package pdf

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// guarded wraps a PDFReader so a panicking parser becomes an extraction
// error and a cancelled context returns without waiting for the parser.
type guarded struct {
	inner driven.PDFReader
}

var _ driven.PDFReader = (*guarded)(nil)

// Guard wraps r with panic recovery and context cancellation.
// A parser that ignores ctx keeps running in the background until it
// returns; its result is discarded.
func Guard(r driven.PDFReader) driven.PDFReader {
	if g, ok := r.(*guarded); ok {
		return g
	}
	return &guarded{inner: r}
}

type titleResult struct {
	title string
	ok    bool
}

func (g *guarded) ReadMetadataTitle(ctx context.Context, path string) (string, bool, error) {
	res, err := call(ctx, path, func() (titleResult, error) {
		title, ok, err := g.inner.ReadMetadataTitle(ctx, path)
		return titleResult{title: title, ok: ok}, err
	})
	return res.title, res.ok, err
}

func (g *guarded) ReadFirstPageTextBlocks(ctx context.Context, path string) ([]domain.TextBlock, error) {
	return call(ctx, path, func() ([]domain.TextBlock, error) {
		return g.inner.ReadFirstPageTextBlocks(ctx, path)
	})
}

func (g *guarded) ReadPageLines(ctx context.Context, path string, maxPages int) ([][]string, error) {
	return call(ctx, path, func() ([][]string, error) {
		return g.inner.ReadPageLines(ctx, path, maxPages)
	})
}

type result[T any] struct {
	val T
	err error
}

func call[T any](ctx context.Context, path string, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	done := make(chan result[T], 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				logger.Debug("pdf parser panic on %s: %v\n%s", path, p, debug.Stack())
				done <- result[T]{err: fmt.Errorf("%w: parser panic: %v", domain.ErrExtraction, p)}
			}
		}()
		val, err := fn()
		done <- result[T]{val: val, err: err}
	}()

	select {
	case res := <-done:
		return res.val, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
