package driving

import (
	"context"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// WatchService renames PDFs as they arrive in a directory.
type WatchService interface {
	// Watch blocks until ctx is cancelled, renaming new PDFs in dir in
	// debounced batches. onReport is called after every batch.
	Watch(ctx context.Context, dir string, settings domain.RenameSettings,
		onReport func(*domain.RunReport)) error
}
