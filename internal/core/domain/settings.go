package domain

import (
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// PDFBackend selects the library used to read PDF documents.
type PDFBackend string

// Available PDF backends.
const (
	// PDFBackendLedongthuc reads positioned glyphs with github.com/ledongthuc/pdf.
	PDFBackendLedongthuc PDFBackend = "ledongthuc"

	// PDFBackendPDFCPU reads content streams with github.com/pdfcpu/pdfcpu.
	PDFBackendPDFCPU PDFBackend = "pdfcpu"
)

// IsValid returns true if the backend is recognised.
func (b PDFBackend) IsValid() bool {
	switch b {
	case PDFBackendLedongthuc, PDFBackendPDFCPU:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b PDFBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b PDFBackend) Description() string {
	switch b {
	case PDFBackendLedongthuc:
		return "ledongthuc/pdf (positioned text, default)"
	case PDFBackendPDFCPU:
		return "pdfcpu (content stream parsing)"
	default:
		return unknownDescription
	}
}

// AllPDFBackends returns all available PDF backends.
func AllPDFBackends() []PDFBackend {
	return []PDFBackend{
		PDFBackendLedongthuc,
		PDFBackendPDFCPU,
	}
}

// Settings bounds.
const (
	MinFilenameLength = 10
	MaxFilenameLength = 255
	MinWorkers        = 1
	MaxWorkers        = 16
)

// TimestampLayout is the fixed format of the optional timestamp suffix.
const TimestampLayout = "20060102_150405"

// RenameSettings is the immutable configuration passed into a run.
// It is never read from global state; callers build it once and pass
// it by value.
type RenameSettings struct {
	// MaxFilenameLength bounds the sanitised title, in characters.
	MaxFilenameLength int `json:"max_filename_length" yaml:"max_filename_length" validate:"min=10,max=255"`

	// AddTimestamp appends a _YYYYMMDD_HHMMSS suffix to every final name.
	AddTimestamp bool `json:"add_timestamp" yaml:"add_timestamp"`

	// AutoBackup copies each original before it is renamed.
	AutoBackup bool `json:"auto_backup" yaml:"auto_backup"`

	// ParallelProcessing enables the worker pool. When false one worker is used.
	ParallelProcessing bool `json:"parallel_processing" yaml:"parallel_processing"`

	// MaxWorkers is the pool size when parallel processing is enabled.
	MaxWorkers int `json:"max_workers" yaml:"max_workers" validate:"min=1,max=16"`

	// BackupDirectory receives backups. Empty means <source dir>/backup.
	BackupDirectory string `json:"backup_directory,omitempty" yaml:"backup_directory,omitempty"`

	// OutputDirectory receives renamed files. Empty renames in place.
	OutputDirectory string `json:"output_directory,omitempty" yaml:"output_directory,omitempty"`

	// Recursive expands directory inputs recursively.
	Recursive bool `json:"recursive" yaml:"recursive"`

	// PDFBackend selects the PDF reader.
	PDFBackend PDFBackend `json:"pdf_backend" yaml:"pdf_backend" validate:"required"`

	// ExtractTimeout bounds extraction per document. Zero disables it.
	ExtractTimeout time.Duration `json:"extract_timeout" yaml:"extract_timeout"`
}

// DefaultRenameSettings returns settings with sensible defaults.
func DefaultRenameSettings() RenameSettings {
	return RenameSettings{
		MaxFilenameLength:  120,
		AddTimestamp:       false,
		AutoBackup:         false,
		ParallelProcessing: true,
		MaxWorkers:         4,
		Recursive:          true,
		PDFBackend:         PDFBackendLedongthuc,
	}
}

// Workers returns the effective worker count.
func (s RenameSettings) Workers() int {
	if !s.ParallelProcessing || s.MaxWorkers < 1 {
		return 1
	}
	return s.MaxWorkers
}

// BackupDirFor returns the backup directory for a file in dir.
func (s RenameSettings) BackupDirFor(dir string) string {
	if s.BackupDirectory != "" {
		return s.BackupDirectory
	}
	return filepath.Join(dir, "backup")
}

// OutputDirFor returns the target directory for a file currently in dir.
func (s RenameSettings) OutputDirFor(dir string) string {
	if s.OutputDirectory != "" {
		return s.OutputDirectory
	}
	return dir
}
