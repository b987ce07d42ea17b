package pdfcpu

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/custodia-labs/pdfren/internal/adapters/driven/pdf/pdftext"
)

type tokKind int

const (
	tokNum tokKind = iota
	tokStr
	tokName
	tokOp
	tokArrayStart
	tokArrayEnd
	tokOther
)

type token struct {
	kind tokKind
	num  float64
	str  []byte
	op   string
}

// lexer splits a content stream into PDF tokens.
type lexer struct {
	data []byte
	pos  int
}

func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelim(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			l.pos++
			return token{kind: tokStr, str: l.literal()}, true
		case c == '<':
			if l.peek(1) == '<' {
				l.pos += 2
				return token{kind: tokOther}, true
			}
			l.pos++
			return token{kind: tokStr, str: l.hex()}, true
		case c == '>':
			l.pos++
			if l.peek(0) == '>' {
				l.pos++
			}
			return token{kind: tokOther}, true
		case c == '[':
			l.pos++
			return token{kind: tokArrayStart}, true
		case c == ']':
			l.pos++
			return token{kind: tokArrayEnd}, true
		case c == '/':
			l.pos++
			return token{kind: tokName, op: l.regular()}, true
		case c == '{' || c == '}' || c == ')':
			l.pos++
		default:
			word := l.regular()
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				return token{kind: tokNum, num: n}, true
			}
			return token{kind: tokOp, op: word}, true
		}
	}
	return token{}, false
}

func (l *lexer) peek(off int) byte {
	if l.pos+off < len(l.data) {
		return l.data[l.pos+off]
	}
	return 0
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.data) && !isSpace(l.data[l.pos]) && !isDelim(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// literal reads a (string) body after the opening parenthesis.
func (l *lexer) literal() []byte {
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out
			}
		case '\\':
			if l.pos >= len(l.data) {
				return out
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, c)
	}
	return out
}

// hex reads a <hex string> body after the opening bracket.
func (l *lexer) hex() []byte {
	var digits []byte
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		if c := l.data[l.pos]; !isSpace(c) {
			digits = append(digits, c)
		}
		l.pos++
	}
	l.pos++
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(v))
	}
	return out
}

// skipInlineImage advances past the binary data of an inline image.
func (l *lexer) skipInlineImage() {
	idx := bytes.Index(l.data[l.pos:], []byte("EI"))
	for idx >= 0 {
		end := l.pos + idx
		before := end == 0 || isSpace(l.data[end-1])
		after := end+2 >= len(l.data) || isSpace(l.data[end+2])
		if before && after {
			l.pos = end + 2
			return
		}
		next := bytes.Index(l.data[end+2:], []byte("EI"))
		if next < 0 {
			break
		}
		idx = end + 2 + next - l.pos
	}
	l.pos = len(l.data)
}

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// translate returns the translation (tx, ty) applied in m's space.
func (m matrix) translate(tx, ty float64) matrix {
	m[4] += tx*m[0] + ty*m[2]
	m[5] += tx*m[1] + ty*m[3]
	return m
}

// textState tracks the text operators needed to place glyphs.
type textState struct {
	tm, tlm matrix
	size    float64
	leading float64
	glyphs  []pdftext.Glyph
}

func (s *textState) nextLine(tx, ty float64) {
	s.tlm = s.tlm.translate(tx, ty)
	s.tm = s.tlm
}

func (s *textState) show(raw []byte) {
	text := pdftext.Printable(decode(raw))
	if text == "" {
		return
	}
	scale := math.Hypot(s.tm[1], s.tm[3])
	if scale == 0 {
		scale = 1
	}
	size := s.size * scale
	width := float64(len([]rune(text))) * s.size * 0.5
	s.glyphs = append(s.glyphs, pdftext.Glyph{
		Text:     text,
		X:        s.tm[4],
		Y:        s.tm[5],
		W:        width * math.Hypot(s.tm[0], s.tm[2]),
		FontSize: size,
	})
	s.tm = s.tm.translate(width, 0)
}

// interpret runs the text operators of a content stream and returns the
// glyph runs in drawing order.
func interpret(data []byte) []pdftext.Glyph {
	lx := &lexer{data: data}
	st := &textState{tm: identity, tlm: identity}

	var (
		operands []token
		array    []token
		inArray  bool
	)
	num := func(i int) float64 {
		if i < 0 || i >= len(operands) || operands[i].kind != tokNum {
			return 0
		}
		return operands[i].num
	}
	last := func() token {
		if len(operands) == 0 {
			return token{}
		}
		return operands[len(operands)-1]
	}

	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokArrayStart:
			inArray, array = true, nil
			continue
		case tokArrayEnd:
			if inArray {
				inArray = false
				operands = append(operands, token{kind: tokOther, str: joinTJ(array)})
			}
			continue
		case tokOp:
		default:
			if inArray {
				array = append(array, tok)
			} else {
				operands = append(operands, tok)
			}
			continue
		}

		n := len(operands)
		switch tok.op {
		case "BT":
			st.tm, st.tlm = identity, identity
		case "Tf":
			st.size = num(n - 1)
		case "TL":
			st.leading = num(n - 1)
		case "Td":
			st.nextLine(num(n-2), num(n-1))
		case "TD":
			st.leading = -num(n - 1)
			st.nextLine(num(n-2), num(n-1))
		case "Tm":
			if n >= 6 {
				st.tlm = matrix{num(n - 6), num(n - 5), num(n - 4), num(n - 3), num(n - 2), num(n - 1)}
				st.tm = st.tlm
			}
		case "T*":
			st.nextLine(0, -st.leading)
		case "Tj", "TJ":
			st.show(last().str)
		case "'", "\"":
			st.nextLine(0, -st.leading)
			st.show(last().str)
		case "ID":
			lx.skipInlineImage()
		}
		operands = operands[:0]
	}
	return st.glyphs
}

// joinTJ concatenates the strings of a TJ array. A kerning adjustment
// wider than a fifth of an em is a word space.
func joinTJ(items []token) []byte {
	var out []byte
	for _, it := range items {
		switch it.kind {
		case tokStr:
			out = append(out, it.str...)
		case tokNum:
			if it.num < -200 {
				out = append(out, ' ')
			}
		}
	}
	return out
}

// winAnsi maps the 0x80-0x9F range of WinAnsiEncoding.
var winAnsi = map[byte]rune{
	0x85: '…', 0x91: '‘', 0x92: '’', 0x93: '“', 0x94: '”',
	0x95: '•', 0x96: '–', 0x97: '—', 0x99: '™',
}

// decode converts string bytes to text. UTF-16BE strings carry a byte
// order mark; anything else is read as WinAnsi.
func decode(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, len(raw)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	var sb strings.Builder
	for _, b := range raw {
		if r, ok := winAnsi[b]; ok {
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(rune(b))
	}
	return sb.String()
}
