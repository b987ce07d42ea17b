// Package pdf provides factory functions for the PDF reader backends.
package pdf

import (
	"fmt"

	"github.com/custodia-labs/pdfren/internal/adapters/driven/pdf/ledongthuc"
	"github.com/custodia-labs/pdfren/internal/adapters/driven/pdf/pdfcpu"
	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

// CreateReader creates a guarded reader for backend.
// Returns domain.ErrUnsupportedType for unknown backends.
func CreateReader(backend domain.PDFBackend) (driven.PDFReader, error) {
	switch backend {
	case domain.PDFBackendLedongthuc:
		return Guard(ledongthuc.New()), nil
	case domain.PDFBackendPDFCPU:
		return Guard(pdfcpu.New()), nil
	default:
		return nil, fmt.Errorf("%w: pdf backend %q", domain.ErrUnsupportedType, backend)
	}
}

// NewReaders creates a guarded reader for every available backend.
func NewReaders() map[domain.PDFBackend]driven.PDFReader {
	readers := make(map[domain.PDFBackend]driven.PDFReader, len(domain.AllPDFBackends()))
	for _, backend := range domain.AllPDFBackends() {
		if r, err := CreateReader(backend); err == nil {
			readers[backend] = r
		}
	}
	return readers
}
