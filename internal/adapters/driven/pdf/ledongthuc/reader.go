// Package ledongthuc reads PDFs with github.com/ledongthuc/pdf.
//
// The library exposes positioned glyphs with their font size, which makes
// it the default backend for the layout heuristic.
package ledongthuc

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pdfren/internal/adapters/driven/pdf/pdftext"
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// Reader implements driven.PDFReader.
type Reader struct{}

var _ driven.PDFReader = (*Reader)(nil)

// New creates a ledongthuc-backed reader.
func New() *Reader {
	return &Reader{}
}

// ReadMetadataTitle returns the Title entry of the document info dictionary.
func (r *Reader) ReadMetadataTitle(_ context.Context, path string) (string, bool, error) {
	f, doc, err := pdf.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	title := doc.Trailer().Key("Info").Key("Title")
	if title.IsNull() {
		return "", false, nil
	}
	return title.Text(), true, nil
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
	f, doc, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n := min(doc.NumPage(), maxPages)
	pages := make([][]domain.TextBlock, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, pdftext.Lines(glyphs(page), pageHeight(page)))
	}
	return pages, nil
}

func glyphs(page pdf.Page) []pdftext.Glyph {
	content := page.Content()
	out := make([]pdftext.Glyph, 0, len(content.Text))
	for _, t := range content.Text {
		s := pdftext.Printable(t.S)
		if strings.TrimSpace(s) == "" && s != " " {
			continue
		}
		out = append(out, pdftext.Glyph{
			Text:     s,
			X:        t.X,
			Y:        t.Y,
			W:        t.W,
			FontSize: t.FontSize,
		})
	}
	return out
}

// pageHeight reads the top of the MediaBox, following inheritance.
func pageHeight(page pdf.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			return box.Index(3).Float64()
		}
	}
	return 0
}
