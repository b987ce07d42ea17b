// Package pdfcpu reads PDFs with github.com/pdfcpu/pdfcpu.
//
// pdfcpu validates the document structure and exposes raw page content
// streams; text positions are recovered by interpreting the text
// operators in contentstream.go.
package pdfcpu

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpulib "github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/pdfren/internal/adapters/driven/pdf/pdftext"
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// Reader implements driven.PDFReader.
type Reader struct {
	conf *model.Configuration
}

var _ driven.PDFReader = (*Reader)(nil)

// New creates a pdfcpu-backed reader using relaxed validation.
func New() *Reader {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Reader{conf: conf}
}

func (r *Reader) open(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, r.conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx, nil
}

// ReadMetadataTitle returns the validated document title.
func (r *Reader) ReadMetadataTitle(_ context.Context, path string) (string, bool, error) {
	ctx, err := r.open(path)
	if err != nil {
		return "", false, err
	}
	if ctx.Title == "" {
		return "", false, nil
	}
	return ctx.Title, true, nil
}

// ReadFirstPageTextBlocks returns the lines of page 1.
func (r *Reader) ReadFirstPageTextBlocks(ctx context.Context, path string) ([]domain.TextBlock, error) {
	pages, err := r.readPages(ctx, path, 1)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, nil
	}
	return pages[0], nil
}

// ReadPageLines returns the line texts of up to maxPages pages.
func (r *Reader) ReadPageLines(ctx context.Context, path string, maxPages int) ([][]string, error) {
	pages, err := r.readPages(ctx, path, maxPages)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(pages))
	for i, blocks := range pages {
		out[i] = pdftext.Texts(blocks)
	}
	return out, nil
}

func (r *Reader) readPages(ctx context.Context, path string, maxPages int) ([][]domain.TextBlock, error) {
	pdfCtx, err := r.open(path)
	if err != nil {
		return nil, err
	}

	dims, _ := pdfCtx.PageDims()
	n := min(pdfCtx.PageCount, maxPages)
	pages := make([][]domain.TextBlock, 0, n)
	for pageNr := 1; pageNr <= n; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var height float64
		if pageNr <= len(dims) {
			height = dims[pageNr-1].Height
		}
		glyphs, err := pageGlyphs(pdfCtx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
		}
		pages = append(pages, pdftext.Lines(glyphs, height))
	}
	return pages, nil
}

func pageGlyphs(ctx *model.Context, pageNr int) ([]pdftext.Glyph, error) {
	rd, err := pdfcpulib.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return nil, err
	}
	if rd == nil {
		return nil, nil
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return interpret(data), nil
}
