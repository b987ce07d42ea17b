package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// truncateWindow is how far back from the length limit truncation looks
// for a word boundary.
const truncateWindow = 20

// fallbackStem prefixes names generated for titles that sanitise to nothing.
const fallbackStem = "untitled"

// Common filesystems limit a name to 255 bytes. A stem leaves room for the
// timestamp suffix, a conflict suffix and the extension.
const (
	maxNameBytes = 255
	MaxStemBytes = maxNameBytes - len("_"+domain.TimestampLayout) - len(" (999999)") - len(".pdf")
)

// reservedNames are device names Windows refuses as file stems.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// Sanitizer turns candidate titles into filesystem-legal name stems.
// Each instance numbers its fallback names from 1, so a run uses a fresh
// Sanitizer and calls it in input order.
type Sanitizer struct {
	fallbacks int
}

// NewSanitizer creates a sanitizer with its fallback counter at zero.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Sanitize converts text into a name stem of at most maxLength runes and
// MaxStemBytes bytes. The result is never empty.
func (s *Sanitizer) Sanitize(text string, maxLength int) string {
	if maxLength < 1 {
		maxLength = 1
	}

	name := cleanName(text)
	name = truncateRunes(name, maxLength)
	name = truncateBytes(name, MaxStemBytes)

	if reservedNames[strings.ToUpper(name)] {
		if utf8.RuneCountInString(name) < maxLength {
			name += "_"
		} else {
			name = ""
		}
	}

	if name == "" {
		s.fallbacks++
		name = truncateRunes(fmt.Sprintf("%s-%d", fallbackStem, s.fallbacks), maxLength)
	}
	return name
}

// cleanName replaces illegal characters with spaces, collapses whitespace
// and strips leading and trailing dots and spaces.
func cleanName(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		if isIllegalRune(r) || unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), ". ")
}

func isIllegalRune(r rune) bool {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	}
	return r == utf8.RuneError || unicode.IsControl(r)
}

// truncateBytes cuts s to at most limit bytes on a rune boundary, with the
// same word-boundary preference as truncateRunes.
func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := 0
	for i, r := range s {
		if i+utf8.RuneLen(r) > limit {
			break
		}
		runes++
	}
	return truncateRunes(s, runes)
}

// truncateRunes cuts s to at most limit runes, preferring the last space
// within the tail window, and re-strips trailing dots and spaces.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := limit
	if runes[limit] != ' ' {
		for i := limit - 1; i > 0 && i >= limit-truncateWindow; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
	}
	return strings.TrimRight(string(runes[:cut]), ". ")
}
