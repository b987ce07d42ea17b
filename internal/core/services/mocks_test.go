package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// --- PDF reader mock ---

// fakePDF describes what the mock reader returns for one path.
type fakePDF struct {
	title    string
	hasTitle bool
	blocks   []domain.TextBlock
	pages    [][]string
	err      error // fails every read
	layerErr error // fails only the text layer reads
	delay    time.Duration
}

type mockPDFReader struct {
	mu    sync.Mutex
	docs  map[string]fakePDF
	calls int
}

var _ driven.PDFReader = (*mockPDFReader)(nil)

func newMockPDFReader() *mockPDFReader {
	return &mockPDFReader{docs: make(map[string]fakePDF)}
}

func (m *mockPDFReader) add(path string, pdf fakePDF) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[path] = pdf
}

func (m *mockPDFReader) get(ctx context.Context, path string) (fakePDF, error) {
	m.mu.Lock()
	m.calls++
	pdf, ok := m.docs[path]
	m.mu.Unlock()

	if !ok {
		return fakePDF{}, fmt.Errorf("open %s: not a pdf", path)
	}
	if pdf.delay > 0 {
		select {
		case <-time.After(pdf.delay):
		case <-ctx.Done():
			return fakePDF{}, ctx.Err()
		}
	}
	if pdf.err != nil {
		return fakePDF{}, pdf.err
	}
	return pdf, nil
}

func (m *mockPDFReader) ReadMetadataTitle(ctx context.Context, path string) (string, bool, error) {
	pdf, err := m.get(ctx, path)
	if err != nil {
		return "", false, err
	}
	return pdf.title, pdf.hasTitle, nil
}

func (m *mockPDFReader) ReadFirstPageTextBlocks(ctx context.Context, path string) ([]domain.TextBlock, error) {
	pdf, err := m.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if pdf.layerErr != nil {
		return nil, pdf.layerErr
	}
	return pdf.blocks, nil
}

func (m *mockPDFReader) ReadPageLines(ctx context.Context, path string, maxPages int) ([][]string, error) {
	pdf, err := m.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if pdf.layerErr != nil {
		return nil, pdf.layerErr
	}
	if len(pdf.pages) > maxPages {
		return pdf.pages[:maxPages], nil
	}
	return pdf.pages, nil
}

// --- In-memory filesystem mock ---

type memFile struct {
	data    []byte
	modTime time.Time
}

type memFileInfo struct {
	name string
	size int64
	dir  bool
	mod  time.Time
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) ModTime() time.Time { return i.mod }
func (i memFileInfo) IsDir() bool        { return i.dir }
func (i memFileInfo) Sys() any           { return nil }
func (i memFileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

var errNameTooLong = errors.New("file name too long")

// memFS is a flat in-memory filesystem. Directories exist implicitly
// when they contain a file or were created with MkdirAll.
type memFS struct {
	mu       sync.Mutex
	files    map[string]memFile
	dirs     map[string]bool
	moveErr  map[string]error // keyed by source path
	copyErr  error
	mkdirErr error
	moves    int
}

var _ driven.FileSystem = (*memFS)(nil)

func newMemFS() *memFS {
	return &memFS{
		files:   make(map[string]memFile),
		dirs:    make(map[string]bool),
		moveErr: make(map[string]error),
	}
}

func (m *memFS) write(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = memFile{data: []byte(content), modTime: time.Unix(1700000000, 0)}
}

func (m *memFS) content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[filepath.Clean(path)]
	return string(f.data), ok
}

func (m *memFS) isDirLocked(path string) bool {
	if m.dirs[path] {
		return true
	}
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (m *memFS) Stat(path string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if f, ok := m.files[path]; ok {
		return memFileInfo{name: filepath.Base(path), size: int64(len(f.data)), mod: f.modTime}, nil
	}
	if m.isDirLocked(path) {
		return memFileInfo{name: filepath.Base(path), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *memFS) Exists(path string) bool {
	_, err := m.Stat(path)
	return err == nil
}

func (m *memFS) ListNames(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = filepath.Clean(dir)
	var names []string
	for p := range m.files {
		if filepath.Dir(p) == dir {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *memFS) MkdirAll(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mkdirErr != nil {
		return m.mkdirErr
	}
	m.dirs[filepath.Clean(dir)] = true
	return nil
}

func (m *memFS) Copy(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.copyErr != nil {
		return m.copyErr
	}
	f, ok := m.files[filepath.Clean(src)]
	if !ok {
		return &fs.PathError{Op: "open", Path: src, Err: fs.ErrNotExist}
	}
	if len(filepath.Base(dst)) > maxNameBytes {
		return &fs.PathError{Op: "open", Path: dst, Err: errNameTooLong}
	}
	if _, exists := m.files[filepath.Clean(dst)]; exists {
		return fmt.Errorf("copy to %s: %w", dst, domain.ErrTargetExists)
	}
	m.files[filepath.Clean(dst)] = memFile{data: append([]byte(nil), f.data...), modTime: f.modTime}
	return nil
}

func (m *memFS) Move(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	if err := m.moveErr[src]; err != nil {
		return err
	}
	f, ok := m.files[src]
	if !ok {
		return &fs.PathError{Op: "rename", Path: src, Err: fs.ErrNotExist}
	}
	if len(filepath.Base(dst)) > maxNameBytes {
		return &fs.PathError{Op: "rename", Path: dst, Err: errNameTooLong}
	}
	if _, exists := m.files[dst]; exists {
		return fmt.Errorf("move to %s: %w", dst, domain.ErrTargetExists)
	}
	delete(m.files, src)
	m.files[dst] = f
	m.moves++
	return nil
}

// --- Run store and metrics mocks ---

type mockRunStore struct {
	mu      sync.Mutex
	runs    map[string]*domain.RunReport
	order   []string
	saveErr error
}

var _ driven.RunStore = (*mockRunStore)(nil)

func newMockRunStore() *mockRunStore {
	return &mockRunStore{runs: make(map[string]*domain.RunReport)}
}

func (m *mockRunStore) SaveRun(_ context.Context, report *domain.RunReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.runs[report.ID] = report
	m.order = append(m.order, report.ID)
	return nil
}

func (m *mockRunStore) GetRun(_ context.Context, id string) (*domain.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockRunStore) ListRuns(_ context.Context, limit int) ([]domain.RunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RunSummary
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.runs[m.order[i]]
		out = append(out, domain.RunSummary{ID: r.ID, Mode: r.Mode, StartedAt: r.StartedAt, Stats: r.Stats()})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type mockMetrics struct {
	mu        sync.Mutex
	documents map[domain.OutcomeStatus]int
	runs      []domain.RunMode
}

var _ driven.MetricsRecorder = (*mockMetrics)(nil)

func newMockMetrics() *mockMetrics {
	return &mockMetrics{documents: make(map[domain.OutcomeStatus]int)}
}

func (m *mockMetrics) ObserveDocument(_ domain.RunMode, outcome domain.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[outcome.Status]++
}

func (m *mockMetrics) ObserveRun(mode domain.RunMode, _ domain.Stats, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, mode)
}

var errCorrupt = errors.New("malformed xref table")
