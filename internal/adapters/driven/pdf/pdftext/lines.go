// Package pdftext groups positioned glyphs into text lines.
//
// Both PDF backends emit glyph runs in PDF user space, where Y grows
// upwards from the bottom of the page. Lines are returned in content order
// with Y converted to a distance from the page top.
package pdftext

import (
	"math"
	"strings"
	"unicode"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// Glyph is a run of text drawn at one position.
type Glyph struct {
	Text     string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

const (
	// baselineTolerance is the fraction of the font size two baselines may
	// differ by and still belong to one line.
	baselineTolerance = 0.3

	// wordGap is the fraction of the font size a horizontal gap must exceed
	// to be rendered as a space.
	wordGap = 0.15
)

// Lines groups glyphs into lines. pageTop is the page height; when it is
// not positive the highest glyph top is used instead.
func Lines(glyphs []Glyph, pageTop float64) []domain.TextBlock {
	if len(glyphs) == 0 {
		return nil
	}
	if pageTop <= 0 {
		for _, g := range glyphs {
			pageTop = math.Max(pageTop, g.Y+g.FontSize)
		}
	}

	var (
		blocks []domain.TextBlock
		sb     strings.Builder
		line   Glyph
		end    float64
		open   bool
	)
	flush := func() {
		if !open {
			return
		}
		text := strings.Join(strings.Fields(sb.String()), " ")
		if text != "" {
			blocks = append(blocks, domain.TextBlock{
				Text:     text,
				FontSize: round2(line.FontSize),
				Y:        round2(math.Max(0, pageTop-line.Y)),
			})
		}
		sb.Reset()
		open = false
	}

	for _, g := range glyphs {
		if g.Text == "" {
			continue
		}
		size := math.Max(g.FontSize, 1)
		if open && math.Abs(g.Y-line.Y) > baselineTolerance*math.Max(size, line.FontSize) {
			flush()
		}
		if !open {
			line = g
			line.FontSize = size
			end = g.X
			open = true
		} else {
			if g.X-end > wordGap*size && !endsWithSpace(sb.String()) {
				sb.WriteByte(' ')
			}
			line.FontSize = math.Max(line.FontSize, size)
		}
		sb.WriteString(g.Text)
		if g.W > 0 {
			end = g.X + g.W
		} else {
			end = g.X + approxWidth(g.Text, size)
		}
	}
	flush()

	return blocks
}

// Texts returns the text of each block.
func Texts(blocks []domain.TextBlock) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Text
	}
	return out
}

// Printable drops control and unprintable runes produced by undecodable
// font encodings.
func Printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == unicode.ReplacementChar || (!unicode.IsPrint(r) && !unicode.IsSpace(r)) {
			return -1
		}
		return r
	}, s)
}

func endsWithSpace(s string) bool {
	return s != "" && s[len(s)-1] == ' '
}

// approxWidth estimates advance width at half an em per rune.
func approxWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * 0.5
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
