package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Document represents a PDF file enqueued for renaming.
// It is immutable once enqueued; title data is loaded lazily through
// the PDFReader port by the extraction pipeline.
type Document struct {
	// Path is the absolute input path.
	Path string

	// Size is the file size in bytes at enqueue time.
	Size int64

	// ModTime is the modification time at enqueue time.
	ModTime time.Time
}

// Dir returns the directory containing the document.
func (d Document) Dir() string {
	return filepath.Dir(d.Path)
}

// Filename returns the base filename including extension.
func (d Document) Filename() string {
	return filepath.Base(d.Path)
}

// Ext returns the original extension including the leading dot.
func (d Document) Ext() string {
	return filepath.Ext(d.Path)
}

// Stem returns the filename without its extension.
func (d Document) Stem() string {
	name := d.Filename()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// TextBlock is one line of positioned text on a PDF page.
type TextBlock struct {
	// Text is the block content as rendered.
	Text string

	// FontSize is the effective font size in points.
	FontSize float64

	// Y is the distance from the top edge of the page.
	// Smaller values are closer to the top.
	Y float64
}
