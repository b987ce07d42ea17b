package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

func testDoc(path string) domain.Document {
	return domain.Document{Path: path, Size: 1024}
}

func TestTitleExtractor_MetadataWins(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/scan_001.pdf", fakePDF{
		title:    "Annual Safety Review",
		hasTitle: true,
		blocks: []domain.TextBlock{
			{Text: "Completely Different Heading", FontSize: 30, Y: 50},
			{Text: "body text", FontSize: 10, Y: 200},
		},
	})

	candidates, err := NewTitleExtractor(reader).Extract(context.Background(), testDoc("/in/scan_001.pdf"))

	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, domain.SourceMetadata, candidates[0].Source)
	assert.Equal(t, "Annual Safety Review", candidates[0].Text)
	assert.Equal(t, domain.SourceLayout, candidates[1].Source)
}

func TestTitleExtractor_MetadataWinsOverKeywordHeading(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/a.pdf", fakePDF{
		title:    "Maintenance Notes",
		hasTitle: true,
		blocks:   []domain.TextBlock{{Text: "飞行手册 Flight Manual", FontSize: 30, Y: 10}},
	})

	candidates, err := NewTitleExtractor(reader).Extract(context.Background(), testDoc("/in/a.pdf"))

	require.NoError(t, err)
	assert.Equal(t, domain.SourceMetadata, candidates[0].Source)
	assert.Less(t, candidates[1].Score, candidates[0].Score)
}

func TestTitleExtractor_LargestFontWithoutMetadata(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/a.pdf", fakePDF{
		blocks: []domain.TextBlock{
			{Text: "Company Confidential", FontSize: 9, Y: 20},
			{Text: "Introduction", FontSize: 14, Y: 300},
			{Text: "Engine Overhaul Procedures", FontSize: 24, Y: 120},
			{Text: "Section 1", FontSize: 14, Y: 260},
			{Text: "Lorem ipsum dolor sit amet", FontSize: 10, Y: 400},
		},
	})

	candidates, err := NewTitleExtractor(reader).Extract(context.Background(), testDoc("/in/a.pdf"))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, domain.SourceLayout, candidates[0].Source)
	assert.Equal(t, "Engine Overhaul Procedures", candidates[0].Text)
}

func TestTitleExtractor_FilenameFallback(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/quarterly_numbers.pdf", fakePDF{
		title:    "Untitled",
		hasTitle: true,
		blocks:   []domain.TextBlock{{Text: "12", FontSize: 20, Y: 700}},
	})

	candidates, err := NewTitleExtractor(reader).Extract(context.Background(), testDoc("/in/quarterly_numbers.pdf"))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, domain.SourceFilename, candidates[0].Source)
	assert.Equal(t, "quarterly_numbers", candidates[0].Text)
}

func TestTitleExtractor_UnreadableDocument(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/broken.pdf", fakePDF{err: errCorrupt})

	candidates, err := NewTitleExtractor(reader).Extract(context.Background(), testDoc("/in/broken.pdf"))

	assert.Nil(t, candidates)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, errCorrupt)
}

func TestTitleExtractor_PartialFailureDegrades(t *testing.T) {
	layerErr := errors.New("content stream truncated")
	reader := newMockPDFReader()
	reader.add("/in/a.pdf", fakePDF{layerErr: layerErr})

	candidates, err := NewTitleExtractor(reader).Extract(context.Background(), testDoc("/in/a.pdf"))

	require.Len(t, candidates, 1)
	assert.Equal(t, domain.SourceFilename, candidates[0].Source)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.ErrorIs(t, err, layerErr)
}

func TestTitleExtractor_NoStrategies(t *testing.T) {
	candidates, err := NewTitleExtractorWithStrategies().Extract(context.Background(), testDoc("/in/report.pdf"))

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "report", candidates[0].Text)
}

func TestMetadataStrategy_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		title string
		has   bool
		want  string
	}{
		{"absent", "", false, ""},
		{"blank", "   ", true, ""},
		{"untitled", "Untitled", true, ""},
		{"untitled document", "untitled document", true, ""},
		{"placeholder with NULs", "T\x00itle", true, ""},
		{"same as stem", "invoice_final", true, ""},
		{"same as filename", "INVOICE_FINAL.PDF", true, ""},
		{"short title kept", "Q&A", true, "Q&A"},
		{"two CJK runes kept", "手册", true, "手册"},
		{"long title kept", strings.Repeat("Maintenance ", 13) + "Manual",
			true, strings.Repeat("Maintenance ", 13) + "Manual"},
		{"word prefix stripped", "Microsoft Word - Budget Proposal", true, "Budget Proposal"},
		{"prefix only leaves placeholder", "Microsoft Word - Document", true, ""},
		{"parens stripped", "(Budget Proposal)", true, "Budget Proposal"},
		{"accepted", "Invoice #2024-001", true, "Invoice #2024-001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := newMockPDFReader()
			reader.add("/in/invoice_final.pdf", fakePDF{title: tt.title, hasTitle: tt.has})

			c, err := NewMetadataStrategy(reader).Candidate(context.Background(), testDoc("/in/invoice_final.pdf"))

			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.Equal(t, tt.want, c.Text)
			assert.Equal(t, domain.SourceMetadata, c.Source)
		})
	}
}

func TestLayoutStrategy_SkipsRunningHeaders(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/a.pdf", fakePDF{
		blocks: []domain.TextBlock{
			{Text: "ACME Corp Internal", FontSize: 26, Y: 10},
			{Text: "Hydraulic System Overview", FontSize: 22, Y: 100},
			{Text: "body", FontSize: 10, Y: 300},
		},
		pages: [][]string{
			{"ACME Corp Internal", "Hydraulic System Overview", "body"},
			{"ACME Corp Internal", "more body"},
			{"ACME Corp Internal", "even more"},
		},
	})

	c, err := NewLayoutStrategy(reader).Candidate(context.Background(), testDoc("/in/a.pdf"))

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Hydraulic System Overview", c.Text)
}

func TestLayoutStrategy_RejectsNoise(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/a.pdf", fakePDF{
		blocks: []domain.TextBlock{
			{Text: "42", FontSize: 30, Y: 10},
			{Text: "— * —", FontSize: 30, Y: 20},
			{Text: "A", FontSize: 30, Y: 30},
			{Text: "small text", FontSize: 8, Y: 500},
		},
	})

	c, err := NewLayoutStrategy(reader).Candidate(context.Background(), testDoc("/in/a.pdf"))

	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestLayoutStrategy_TiesGoToTopmost(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/a.pdf", fakePDF{
		blocks: []domain.TextBlock{
			{Text: "Lower Heading", FontSize: 20, Y: 300},
			{Text: "Upper Heading", FontSize: 20, Y: 100},
			{Text: "text", FontSize: 10, Y: 400},
		},
	})

	c, err := NewLayoutStrategy(reader).Candidate(context.Background(), testDoc("/in/a.pdf"))

	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Upper Heading", c.Text)
}

func TestLayoutStrategy_NoBlocks(t *testing.T) {
	reader := newMockPDFReader()
	reader.add("/in/a.pdf", fakePDF{})

	c, err := NewLayoutStrategy(reader).Candidate(context.Background(), testDoc("/in/a.pdf"))

	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestLayoutScore(t *testing.T) {
	assert.InDelta(t, 0.8, layoutScore("Quarterly Results"), 1e-9)
	assert.InDelta(t, 0.85, layoutScore("Flight Manual Supplement"), 1e-9)
	assert.InDelta(t, 0.88, layoutScore("飞行手册"), 1e-9)
	assert.Less(t, layoutScore("飞行手册 AFM"), scoreMetadata)
}

func TestFontSizePercentile(t *testing.T) {
	blocks := make([]domain.TextBlock, 0, 10)
	for i := 1; i <= 10; i++ {
		blocks = append(blocks, domain.TextBlock{Text: "x", FontSize: float64(i)})
	}
	assert.InDelta(t, 9.0, fontSizePercentile(blocks, 0.9), 1e-9)
	assert.InDelta(t, 1.0, fontSizePercentile(blocks[:1], 0.9), 1e-9)
}

func TestStripParens(t *testing.T) {
	assert.Equal(t, "Title", stripParens("(Title)"))
	assert.Equal(t, "标题", stripParens("（标题）"))
	assert.Equal(t, "(a) and (b)", stripParens("(a) and (b)"))
	assert.Equal(t, "()", stripParens("()"))
}
