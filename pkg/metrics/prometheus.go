// Package metrics provides Prometheus metrics for the points calculator.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names are multicalc_scoring_*.
const (
	namespace = "multicalc"
	subsystem = "scoring"
)

// Bucket layout: one bucket per hundred points up to a world-class single
// event, one per thousand for whole cards.
var (
	pointsBuckets = prometheus.LinearBuckets(0, 100, 15)  //nolint:gochecknoglobals // bucket layout
	totalBuckets  = prometheus.LinearBuckets(0, 1000, 10) //nolint:gochecknoglobals // bucket layout
)

// Manager manages all Prometheus metrics for the calculator.
type Manager struct {
	enabled  bool
	registry *prometheus.Registry

	// Engine metrics
	evaluations *prometheus.CounterVec
	points      *prometheus.HistogramVec

	// Display layer metrics
	keystrokes  *prometheus.CounterVec
	cards       *prometheus.CounterVec
	cardTotals  *prometheus.HistogramVec
	sheetErrors prometheus.Counter
}

// Global metrics manager instance, on its own registry to avoid default Go
// metrics.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		enabled:  true,
		registry: prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evaluations_total",
			Help:      "Total number of performance evaluations by profile and outcome",
		},
		[]string{"profile", "reason"},
	)

	m.points = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "event_points",
			Help:      "Distribution of points awarded for a single event",
			Buckets:   pointsBuckets,
		},
		[]string{"profile"},
	)

	m.keystrokes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "keystrokes_total",
			Help:      "Total number of live input updates by discipline",
		},
		[]string{"discipline"},
	)

	m.cards = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cards_tallied_total",
			Help:      "Total number of scorecards summed by discipline",
		},
		[]string{"discipline"},
	)

	m.cardTotals = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "card_total_points",
			Help:      "Distribution of scorecard totals",
			Buckets:   totalBuckets,
		},
		[]string{"discipline"},
	)

	m.sheetErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sheet_errors_total",
		Help:      "Total number of marks sheets that failed to load or tally",
	})
}

// ObserveEvaluation records one engine evaluation. Only scored evaluations
// feed the points histogram.
func (m *Manager) ObserveEvaluation(profile, reason string, points int) {
	if !m.enabled {
		return
	}
	m.evaluations.WithLabelValues(profile, reason).Inc()
	if points > 0 {
		m.points.WithLabelValues(profile).Observe(float64(points))
	}
}

// RecordKeystroke counts one live input update.
func (m *Manager) RecordKeystroke(discipline string) {
	if !m.enabled {
		return
	}
	m.keystrokes.WithLabelValues(discipline).Inc()
}

// RecordCardTallied records a summed scorecard and its total.
func (m *Manager) RecordCardTallied(discipline string, total int) {
	if !m.enabled {
		return
	}
	m.cards.WithLabelValues(discipline).Inc()
	m.cardTotals.WithLabelValues(discipline).Observe(float64(total))
}

// RecordSheetError counts a marks sheet that could not be loaded or tallied.
func (m *Manager) RecordSheetError() {
	if !m.enabled {
		return
	}
	m.sheetErrors.Inc()
}

// Registry returns the registry the manager's collectors live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the manager's registry in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}
