package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// Candidate scores. Layout bonuses never lift a heading above metadata.
const (
	scoreMetadata     = 0.9
	scoreLayout       = 0.8
	scoreLayoutMax    = 0.89
	scoreFilename     = 0.1
	bonusKeyword      = 0.05
	bonusCJK          = 0.03
	minHeadingRunes   = 2
	headingPercentile = 0.9
	headerSamplePages = 3
	headerRepeatPages = 2
)

// placeholderTitles are declared titles that carry no information.
var placeholderTitles = map[string]bool{
	"untitled":          true,
	"untitled document": true,
	"document":          true,
	"title":             true,
	"no title":          true,
}

// authoringPrefixes are prepended to titles by office suites on export.
var authoringPrefixes = []string{
	"microsoft word - ",
	"microsoft powerpoint - ",
	"microsoft excel - ",
}

// titleKeywords mark technical-manual headings.
var titleKeywords = []string{
	"飞行手册", "操作手册", "操作程序", "技术通告",
	"flight manual", "manual", "afm",
}

// FilenameCandidate returns the original filename stem as the lowest
// ranked candidate.
func FilenameCandidate(doc domain.Document) domain.Candidate {
	return domain.Candidate{
		Text:   doc.Stem(),
		Source: domain.SourceFilename,
		Score:  scoreFilename,
	}
}

// MetadataStrategy proposes the document's declared title.
type MetadataStrategy struct {
	reader driven.PDFReader
}

// NewMetadataStrategy creates a metadata title strategy.
func NewMetadataStrategy(reader driven.PDFReader) *MetadataStrategy {
	return &MetadataStrategy{reader: reader}
}

// Source returns domain.SourceMetadata.
func (s *MetadataStrategy) Source() domain.CandidateSource {
	return domain.SourceMetadata
}

// Candidate returns the declared title unless it is absent or generic.
func (s *MetadataStrategy) Candidate(ctx context.Context, doc domain.Document) (*domain.Candidate, error) {
	raw, ok, err := s.reader.ReadMetadataTitle(ctx, doc.Path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	title := cleanMetadataTitle(raw)
	if !usableMetadataTitle(title, doc) {
		return nil, nil
	}
	return &domain.Candidate{Text: title, Source: domain.SourceMetadata, Score: scoreMetadata}, nil
}

func cleanMetadataTitle(raw string) string {
	title := strings.ReplaceAll(raw, "\x00", "")
	title = strings.TrimSpace(title)
	lower := strings.ToLower(title)
	for _, prefix := range authoringPrefixes {
		if strings.HasPrefix(lower, prefix) {
			title = strings.TrimSpace(title[len(prefix):])
			break
		}
	}
	return stripParens(title)
}

func usableMetadataTitle(title string, doc domain.Document) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	if placeholderTitles[lower] {
		return false
	}
	if strings.EqualFold(title, doc.Filename()) || strings.EqualFold(title, doc.Stem()) {
		return false
	}
	return true
}

// LayoutStrategy proposes the most prominent heading on the first page.
type LayoutStrategy struct {
	reader driven.PDFReader
}

// NewLayoutStrategy creates a first-page layout strategy.
func NewLayoutStrategy(reader driven.PDFReader) *LayoutStrategy {
	return &LayoutStrategy{reader: reader}
}

// Source returns domain.SourceLayout.
func (s *LayoutStrategy) Source() domain.CandidateSource {
	return domain.SourceLayout
}

// Candidate picks the most prominent heading on the first page. The font
// size distribution excludes running headers and footers; a heading must
// reach its percentile threshold. Among qualifying blocks that are not
// noise the largest wins, ties going to the block nearest the top.
func (s *LayoutStrategy) Candidate(ctx context.Context, doc domain.Document) (*domain.Candidate, error) {
	blocks, err := s.reader.ReadFirstPageTextBlocks(ctx, doc.Path)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, nil
	}

	boilerplate := map[string]bool{}
	if pages, err := s.reader.ReadPageLines(ctx, doc.Path, headerSamplePages); err == nil {
		boilerplate = repeatedLines(pages)
	}

	content := make([]domain.TextBlock, 0, len(blocks))
	for _, b := range blocks {
		if !boilerplate[stripParens(normalizeSpace(b.Text))] {
			content = append(content, b)
		}
	}
	sort.SliceStable(content, func(i, j int) bool { return content[i].Y < content[j].Y })

	threshold := fontSizePercentile(content, headingPercentile)

	var (
		best     string
		bestSize float64
	)
	for _, b := range content {
		if b.FontSize < threshold {
			continue
		}
		text := stripParens(normalizeSpace(b.Text))
		if !plausibleHeading(text) {
			continue
		}
		if best == "" || b.FontSize > bestSize {
			best, bestSize = text, b.FontSize
		}
	}
	if best == "" {
		return nil, nil
	}
	return &domain.Candidate{Text: best, Source: domain.SourceLayout, Score: layoutScore(best)}, nil
}

// fontSizePercentile returns the nearest-rank percentile of block sizes.
func fontSizePercentile(blocks []domain.TextBlock, p float64) float64 {
	sizes := make([]float64, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b.Text) != "" {
			sizes = append(sizes, b.FontSize)
		}
	}
	if len(sizes) == 0 {
		return math.Inf(1)
	}
	sort.Float64s(sizes)
	rank := int(math.Ceil(p*float64(len(sizes))-1e-9)) - 1
	if rank < 0 {
		rank = 0
	}
	return sizes[rank]
}

// repeatedLines returns lines that appear on at least headerRepeatPages
// of the sampled pages.
func repeatedLines(pages [][]string) map[string]bool {
	counts := make(map[string]int)
	for _, lines := range pages {
		seen := make(map[string]bool)
		for _, line := range lines {
			text := stripParens(normalizeSpace(line))
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true
			counts[text]++
		}
	}
	repeated := make(map[string]bool)
	for text, n := range counts {
		if n >= headerRepeatPages {
			repeated[text] = true
		}
	}
	return repeated
}

// plausibleHeading rejects page numbers, punctuation runs and fragments.
func plausibleHeading(text string) bool {
	if utf8.RuneCountInString(text) < minHeadingRunes {
		return false
	}
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func layoutScore(text string) float64 {
	score := scoreLayout
	lower := strings.ToLower(text)
	for _, kw := range titleKeywords {
		if strings.Contains(lower, kw) {
			score += bonusKeyword
			break
		}
	}
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			score += bonusCJK
			break
		}
	}
	return math.Min(score, scoreLayoutMax)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripParens removes one pair of brackets enclosing the whole title.
func stripParens(s string) string {
	pairs := [][2]string{{"(", ")"}, {"（", "）"}, {"[", "]"}}
	for _, p := range pairs {
		if strings.HasPrefix(s, p[0]) && strings.HasSuffix(s, p[1]) && len(s) > len(p[0])+len(p[1]) {
			inner := s[len(p[0]) : len(s)-len(p[1])]
			if !strings.ContainsAny(inner, p[0]+p[1]) {
				return strings.TrimSpace(inner)
			}
		}
	}
	return s
}
