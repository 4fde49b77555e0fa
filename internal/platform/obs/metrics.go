package obs

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeFound     = "found"
	OutcomeDirect    = "direct"
	OutcomeNoRoute   = "no_route"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

// SearchMetrics bundles the Prometheus collectors of the route search.
// A nil *SearchMetrics is valid and records nothing.
type SearchMetrics struct {
	Searches   *prometheus.CounterVec
	Duration   prometheus.Histogram
	Expansions prometheus.Counter
	Restarts   prometheus.Counter
	Skipped    *prometheus.CounterVec
}

// NewSearchMetrics registers the search collectors against reg, defaulting
// to the global registry when reg is nil.
func NewSearchMetrics(reg prometheus.Registerer) (*SearchMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &SearchMetrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_searches_total",
			Help: "Route searches by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "route_search_duration_seconds",
			Help:    "Route search latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		Expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_search_expansions_total",
			Help: "Candidate routes popped and expanded.",
		}),
		Restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "route_search_restarts_total",
			Help: "Searches restarted with a larger goal weight.",
		}),
		Skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_search_skipped_extensions_total",
			Help: "Extensions that were not produced, by reason.",
		}, []string{"reason"}),
	}

	collectors := []prometheus.Collector{m.Searches, m.Duration, m.Expansions, m.Restarts, m.Skipped}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				collectors[i] = are.ExistingCollector
				continue
			}
			return nil, err
		}
	}

	m.Searches = collectors[0].(*prometheus.CounterVec)
	m.Duration = collectors[1].(prometheus.Histogram)
	m.Expansions = collectors[2].(prometheus.Counter)
	m.Restarts = collectors[3].(prometheus.Counter)
	m.Skipped = collectors[4].(*prometheus.CounterVec)

	return m, nil
}

func (m *SearchMetrics) ObserveSearch(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
	m.Duration.Observe(dur.Seconds())
}

func (m *SearchMetrics) AddExpansion() {
	if m == nil {
		return
	}
	m.Expansions.Inc()
}

func (m *SearchMetrics) AddRestart() {
	if m == nil {
		return
	}
	m.Restarts.Inc()
}

func (m *SearchMetrics) AddSkipped(reason string) {
	if m == nil {
		return
	}
	m.Skipped.WithLabelValues(reason).Inc()
}
