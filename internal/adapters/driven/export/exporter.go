// Package export writes run reports to files. The format follows the
// file extension: .json, .yaml/.yml, .csv or .xlsx.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// Exporter implements driven.ReportExporter.
type Exporter struct{}

var _ driven.ReportExporter = (*Exporter)(nil)

// New creates an exporter.
func New() *Exporter {
	return &Exporter{}
}

// Formats returns the supported extensions.
func (e *Exporter) Formats() []string {
	return []string{".csv", ".json", ".xlsx", ".yaml", ".yml"}
}

// Export writes report to path, choosing the format from the extension.
func (e *Exporter) Export(report *domain.RunReport, path string) error {
	if report == nil {
		return fmt.Errorf("exporting report: %w", domain.ErrInvalidInput)
	}
	doc := newDocument(report)

	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = writeJSON(doc, path)
	case ".yaml", ".yml":
		err = writeYAML(doc, path)
	case ".csv":
		err = writeCSV(doc, path)
	case ".xlsx":
		err = writeXLSX(doc, path)
	default:
		return fmt.Errorf("%w: report format %q (want one of %s)",
			domain.ErrUnsupportedType, ext, strings.Join(e.Formats(), ", "))
	}
	if err != nil {
		return fmt.Errorf("exporting report to %s: %w", path, err)
	}
	return nil
}

// document is the serialised form of a run report.
type document struct {
	ID         string         `json:"id" yaml:"id"`
	Mode       string         `json:"mode" yaml:"mode"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Settings   settings       `json:"settings" yaml:"settings"`
	Summary    summary        `json:"summary" yaml:"summary"`
	Outcomes   []outcomeEntry `json:"outcomes" yaml:"outcomes"`
}

type settings struct {
	MaxFilenameLength  int    `json:"max_filename_length" yaml:"max_filename_length"`
	AddTimestamp       bool   `json:"add_timestamp" yaml:"add_timestamp"`
	AutoBackup         bool   `json:"auto_backup" yaml:"auto_backup"`
	ParallelProcessing bool   `json:"parallel_processing" yaml:"parallel_processing"`
	MaxWorkers         int    `json:"max_workers" yaml:"max_workers"`
	BackupDirectory    string `json:"backup_directory,omitempty" yaml:"backup_directory,omitempty"`
	OutputDirectory    string `json:"output_directory,omitempty" yaml:"output_directory,omitempty"`
	Recursive          bool   `json:"recursive" yaml:"recursive"`
	PDFBackend         string `json:"pdf_backend" yaml:"pdf_backend"`
	ExtractTimeout     string `json:"extract_timeout" yaml:"extract_timeout"`
}

type summary struct {
	Total      int     `json:"total" yaml:"total"`
	Succeeded  int     `json:"succeeded" yaml:"succeeded"`
	Skipped    int     `json:"skipped" yaml:"skipped"`
	Failed     int     `json:"failed" yaml:"failed"`
	DurationMS int64   `json:"duration_ms" yaml:"duration_ms"`
	Success    float64 `json:"success_rate" yaml:"success_rate"`
}

type outcomeEntry struct {
	Index          int    `json:"index" yaml:"index"`
	OriginalPath   string `json:"original_path" yaml:"original_path"`
	FinalPath      string `json:"final_path,omitempty" yaml:"final_path,omitempty"`
	Status         string `json:"status" yaml:"status"`
	Reason         string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Source         string `json:"source,omitempty" yaml:"source,omitempty"`
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	ConflictSuffix int    `json:"conflict_suffix,omitempty" yaml:"conflict_suffix,omitempty"`
	BackupPath     string `json:"backup_path,omitempty" yaml:"backup_path,omitempty"`
	DurationMS     int64  `json:"duration_ms" yaml:"duration_ms"`
}

var columns = []string{
	"index", "original_path", "final_path", "status", "reason",
	"source", "title", "conflict_suffix", "backup_path", "duration_ms",
}

func (o outcomeEntry) row() []string {
	return []string{
		strconv.Itoa(o.Index), o.OriginalPath, o.FinalPath, o.Status, o.Reason,
		o.Source, o.Title, strconv.Itoa(o.ConflictSuffix), o.BackupPath,
		strconv.FormatInt(o.DurationMS, 10),
	}
}

func newDocument(r *domain.RunReport) document {
	stats := r.Stats()
	doc := document{
		ID:         r.ID,
		Mode:       string(r.Mode),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Settings: settings{
			MaxFilenameLength:  r.Settings.MaxFilenameLength,
			AddTimestamp:       r.Settings.AddTimestamp,
			AutoBackup:         r.Settings.AutoBackup,
			ParallelProcessing: r.Settings.ParallelProcessing,
			MaxWorkers:         r.Settings.MaxWorkers,
			BackupDirectory:    r.Settings.BackupDirectory,
			OutputDirectory:    r.Settings.OutputDirectory,
			Recursive:          r.Settings.Recursive,
			PDFBackend:         string(r.Settings.PDFBackend),
			ExtractTimeout:     r.Settings.ExtractTimeout.String(),
		},
		Summary: summary{
			Total:      stats.Total,
			Succeeded:  stats.Succeeded,
			Skipped:    stats.Skipped,
			Failed:     stats.Failed,
			DurationMS: stats.Duration.Milliseconds(),
			Success:    stats.SuccessRate(),
		},
		Outcomes: make([]outcomeEntry, len(r.Outcomes)),
	}
	for i, o := range r.Outcomes {
		doc.Outcomes[i] = outcomeEntry{
			Index:          o.Index,
			OriginalPath:   o.OriginalPath,
			FinalPath:      o.FinalPath,
			Status:         string(o.Status),
			Reason:         o.Reason,
			Source:         string(o.Source),
			Title:          o.Title,
			ConflictSuffix: o.ConflictSuffix,
			BackupPath:     o.BackupPath,
			DurationMS:     o.Duration.Milliseconds(),
		}
	}
	return doc
}

func writeJSON(doc document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func writeYAML(doc document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(doc document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write(columns)
	for _, o := range doc.Outcomes {
		_ = w.Write(o.row())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
