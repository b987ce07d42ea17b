package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
	"github.com/custodia-labs/pdfren/internal/logger"
)

// TitleStrategy produces at most one scored candidate for a document.
// A nil candidate with a nil error means the strategy found nothing usable.
type TitleStrategy interface {
	// Source identifies the strategy in candidates and logs.
	Source() domain.CandidateSource

	// Candidate inspects the document and returns its proposal.
	Candidate(ctx context.Context, doc domain.Document) (*domain.Candidate, error)
}

// TitleExtractor runs an ordered list of title strategies and ranks their
// candidates. The filename fallback is appended when no strategy yields
// a candidate, so a readable document always gets a name.
type TitleExtractor struct {
	strategies []TitleStrategy
}

// NewTitleExtractor creates an extractor with the default strategy order:
// metadata title, then first-page layout.
func NewTitleExtractor(reader driven.PDFReader) *TitleExtractor {
	return NewTitleExtractorWithStrategies(
		NewMetadataStrategy(reader),
		NewLayoutStrategy(reader),
	)
}

// NewTitleExtractorWithStrategies creates an extractor over the given
// strategies, tried in order.
func NewTitleExtractorWithStrategies(strategies ...TitleStrategy) *TitleExtractor {
	return &TitleExtractor{strategies: strategies}
}

// Extract returns the document's candidates in descending score order.
//
// When every strategy fails to read the document the candidates are nil
// and the error wraps domain.ErrExtraction: the document is unreadable.
// When only some strategies fail, the remaining candidates are returned
// together with the wrapped error so the caller can record the degradation.
func (e *TitleExtractor) Extract(ctx context.Context, doc domain.Document) ([]domain.Candidate, error) {
	var (
		candidates []domain.Candidate
		errs       []error
	)

	for _, strategy := range e.strategies {
		c, err := strategy.Candidate(ctx, doc)
		if err != nil {
			logger.Debug("%s: %s strategy failed: %v", doc.Filename(), strategy.Source(), err)
			errs = append(errs, fmt.Errorf("%s: %w", strategy.Source(), err))
			continue
		}
		if c == nil {
			logger.Debug("%s: %s strategy found no title", doc.Filename(), strategy.Source())
			continue
		}
		logger.Debug("%s: %s candidate %q (score %.2f)", doc.Filename(), c.Source, c.Text, c.Score)
		candidates = append(candidates, *c)
	}

	var err error
	if len(errs) > 0 {
		err = fmt.Errorf("%w: %w", domain.ErrExtraction, errors.Join(errs...))
	}

	if len(e.strategies) > 0 && len(errs) == len(e.strategies) {
		return nil, err
	}

	if len(candidates) == 0 {
		candidates = append(candidates, FilenameCandidate(doc))
	}
	domain.SortCandidates(candidates)
	return candidates, err
}
