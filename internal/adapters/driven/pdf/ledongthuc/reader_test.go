package ledongthuc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfren/internal/adapters/driven/pdf/pdftest"
)

func TestReader_ReadMetadataTitle(t *testing.T) {
	dir := t.TempDir()
	titled := pdftest.WriteFile(t, dir, "titled.pdf", pdftest.Doc{
		Title: "Quarterly Report",
		Pages: []pdftest.Page{pdftest.Heading("Ignored Heading")},
	})
	untitled := pdftest.WriteFile(t, dir, "untitled.pdf", pdftest.Doc{
		Pages: []pdftest.Page{pdftest.Heading("Heading")},
	})
	r := New()

	title, ok, err := r.ReadMetadataTitle(context.Background(), titled)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Quarterly Report", title)

	_, ok, err = r.ReadMetadataTitle(context.Background(), untitled)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReader_ReadFirstPageTextBlocks(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "a.pdf", pdftest.Doc{
		Pages: []pdftest.Page{pdftest.Heading("Annual Report", "Prepared for the board")},
	})

	blocks, err := New().ReadFirstPageTextBlocks(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "Annual Report", blocks[0].Text)
	assert.Equal(t, 24.0, blocks[0].FontSize)
	assert.InDelta(t, 92, blocks[0].Y, 0.01)
	assert.Equal(t, "Prepared for the board", blocks[1].Text)
	assert.Less(t, blocks[1].FontSize, blocks[0].FontSize)
}

func TestReader_ReadPageLines(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "a.pdf", pdftest.Doc{
		Pages: []pdftest.Page{
			pdftest.Heading("ACME Corp", "Page one"),
			pdftest.Heading("ACME Corp", "Page two"),
			pdftest.Heading("ACME Corp", "Page three"),
			pdftest.Heading("ACME Corp", "Page four"),
		},
	})

	pages, err := New().ReadPageLines(context.Background(), path, 3)

	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"ACME Corp", "Page two"}, pages[1])
}

func TestReader_CorruptFile(t *testing.T) {
	path := pdftest.WriteCorrupt(t, t.TempDir(), "broken.pdf")
	r := New()

	_, _, err := r.ReadMetadataTitle(context.Background(), path)
	assert.Error(t, err)

	_, err = r.ReadFirstPageTextBlocks(context.Background(), path)
	assert.Error(t, err)
}

func TestReader_CancelledContext(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "a.pdf", pdftest.Doc{
		Pages: []pdftest.Page{pdftest.Heading("Title")},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ReadPageLines(ctx, path, 3)

	assert.ErrorIs(t, err, context.Canceled)
}
