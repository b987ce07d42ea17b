package mcp

import (
	"sync"

	"github.com/custodia-labs/pdfren/internal/core/ports/driving"
)

// maxPendingPreviews bounds the planned batches kept for rename_pdfs.
// The oldest preview is dropped first.
const maxPendingPreviews = 16

// previewCache holds planned batches by run ID until they are executed.
type previewCache struct {
	mu      sync.Mutex
	batches map[string]driving.Batch
	order   []string
}

func newPreviewCache() *previewCache {
	return &previewCache{batches: make(map[string]driving.Batch)}
}

func (c *previewCache) put(b driving.Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := b.ID()
	if _, ok := c.batches[id]; !ok {
		c.order = append(c.order, id)
	}
	c.batches[id] = b

	for len(c.order) > maxPendingPreviews {
		delete(c.batches, c.order[0])
		c.order = c.order[1:]
	}
}

// take removes and returns the batch planned under id.
func (c *previewCache) take(id string) (driving.Batch, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.batches[id]
	if !ok {
		return nil, false
	}
	delete(c.batches, id)
	for i, queued := range c.order {
		if queued == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return b, true
}
