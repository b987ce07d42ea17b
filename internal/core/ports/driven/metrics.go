package driven

import (
	"time"

	"github.com/custodia-labs/pdfren/internal/core/domain"
)

// MetricsRecorder receives run and document measurements.
type MetricsRecorder interface {
	// ObserveDocument records one document outcome.
	ObserveDocument(mode domain.RunMode, outcome domain.Outcome)

	// ObserveRun records a finished run.
	ObserveRun(mode domain.RunMode, stats domain.Stats, elapsed time.Duration)
}
