// Package pdftest builds small PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Line is one line of Helvetica text at a baseline position.
type Line struct {
	Text string
	Size float64
	X    float64
	Y    float64
}

// Page is a US Letter page.
type Page struct {
	Lines []Line
}

// Doc describes a PDF. An empty Title omits the info dictionary entry.
type Doc struct {
	Title string
	Pages []Page
}

// Heading returns a page with a large title above smaller body lines.
func Heading(title string, body ...string) Page {
	p := Page{Lines: []Line{{Text: title, Size: 24, X: 72, Y: 700}}}
	for i, b := range body {
		p.Lines = append(p.Lines, Line{Text: b, Size: 11, X: 72, Y: 660 - float64(i)*14})
	}
	return p
}

// Build renders doc as PDF bytes with a valid cross-reference table.
func Build(doc Doc) []byte {
	var objs []string
	add := func(body string) int {
		objs = append(objs, body)
		return len(objs)
	}

	catalog := add("") // patched below
	pages := add("")
	font := add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	info := add(fmt.Sprintf("<< /Producer (pdftest) /Title (%s) >>", escape(doc.Title)))
	if doc.Title == "" {
		objs[info-1] = "<< /Producer (pdftest) >>"
	}

	var kids []string
	for _, p := range doc.Pages {
		var cs strings.Builder
		for _, l := range p.Lines {
			fmt.Fprintf(&cs, "BT /F1 %g Tf %g %g Td (%s) Tj ET\n", l.Size, l.X, l.Y, escape(l.Text))
		}
		content := add(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", cs.Len(), cs.String()))
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			pages, font, content))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objs[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pages)
	objs[pages-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objs)+1, catalog, info, xref)
	return buf.Bytes()
}

// WriteFile writes doc to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, doc Doc) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, Build(doc), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// WriteCorrupt writes bytes that no PDF parser accepts.
func WriteCorrupt(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not a pdf\n"), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
