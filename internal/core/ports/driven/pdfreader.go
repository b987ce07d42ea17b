package driven

import (
	"context"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// PDFReader exposes the parts of a PDF the title pipeline consumes.
// Implementations wrap a third-party PDF library. Every method may fail
// with a document-read error for corrupt or unreadable files.
type PDFReader interface {
	// ReadMetadataTitle returns the document's declared title.
	// The boolean is false when the document declares no title.
	ReadMetadataTitle(ctx context.Context, path string) (string, bool, error)

	// ReadFirstPageTextBlocks returns the first page's text lines in
	// content order with their font size and distance from the page top.
	ReadFirstPageTextBlocks(ctx context.Context, path string) ([]domain.TextBlock, error)

	// ReadPageLines returns the text lines of up to maxPages leading pages,
	// one slice per page. Used to detect running headers and footers.
	ReadPageLines(ctx context.Context, path string, maxPages int) ([][]string, error)
}
