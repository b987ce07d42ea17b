// Package prom records run metrics with the Prometheus client and writes
// them as a node_exporter textfile.
package prom

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/pdfren/internal/core/domain"
	"github.com/custodia-labs/pdfren/internal/core/ports/driven"
)

const namespace = "pdfren"

// Recorder implements driven.MetricsRecorder on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	now      func() time.Time

	documentsTotal   *prometheus.CounterVec
	documentDuration *prometheus.HistogramVec
	runsTotal        *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	lastRunTime      *prometheus.GaugeVec
	lastRunDocuments *prometheus.GaugeVec
}

var _ driven.MetricsRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed by run mode, outcome status and title source.",
		},
		[]string{"mode", "status", "source"},
	)
	documentDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time spent on one document.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"mode", "status"},
	)
	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by mode.",
		},
		[]string{"mode"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a run.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)
	lastRunTime := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run of each mode finished.",
		},
		[]string{"mode"},
	)
	lastRunDocuments := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_documents",
			Help:      "Document counts of the last run by status.",
		},
		[]string{"mode", "status"},
	)

	registry.MustRegister(documentsTotal, documentDuration, runsTotal, runDuration, lastRunTime, lastRunDocuments)

	return &Recorder{
		registry:         registry,
		now:              time.Now,
		documentsTotal:   documentsTotal,
		documentDuration: documentDuration,
		runsTotal:        runsTotal,
		runDuration:      runDuration,
		lastRunTime:      lastRunTime,
		lastRunDocuments: lastRunDocuments,
	}
}

// ObserveDocument records one document outcome.
func (r *Recorder) ObserveDocument(mode domain.RunMode, outcome domain.Outcome) {
	source := string(outcome.Source)
	if source == "" {
		source = "none"
	}
	r.documentsTotal.WithLabelValues(string(mode), string(outcome.Status), source).Inc()
	r.documentDuration.WithLabelValues(string(mode), string(outcome.Status)).Observe(outcome.Duration.Seconds())
}

// ObserveRun records a finished run.
func (r *Recorder) ObserveRun(mode domain.RunMode, stats domain.Stats, elapsed time.Duration) {
	m := string(mode)
	r.runsTotal.WithLabelValues(m).Inc()
	r.runDuration.WithLabelValues(m).Observe(elapsed.Seconds())
	r.lastRunTime.WithLabelValues(m).Set(float64(r.now().Unix()))
	r.lastRunDocuments.WithLabelValues(m, string(domain.StatusSuccess)).Set(float64(stats.Succeeded))
	r.lastRunDocuments.WithLabelValues(m, string(domain.StatusSkipped)).Set(float64(stats.Skipped))
	r.lastRunDocuments.WithLabelValues(m, string(domain.StatusFailed)).Set(float64(stats.Failed))
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically so a collector never reads a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
