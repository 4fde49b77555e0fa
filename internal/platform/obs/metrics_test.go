package obs

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSearchMetricsRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSearchMetrics(reg)
	if err != nil {
		t.Fatalf("NewSearchMetrics: %v", err)
	}

	m.ObserveSearch(OutcomeFound, 20*time.Millisecond)
	m.ObserveSearch(OutcomeFound, 30*time.Millisecond)
	m.ObserveSearch(OutcomeNoRoute, time.Millisecond)
	m.AddExpansion()
	m.AddRestart()
	m.AddSkipped("out_of_range")

	if got := testutil.ToFloat64(m.Searches.WithLabelValues(OutcomeFound)); got != 2 {
		t.Fatalf("route_searches_total{found} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Searches.WithLabelValues(OutcomeNoRoute)); got != 1 {
		t.Fatalf("route_searches_total{no_route} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Expansions); got != 1 {
		t.Fatalf("expansions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Restarts); got != 1 {
		t.Fatalf("restarts = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.Duration); got != 1 {
		t.Fatalf("duration collectors = %d, want 1", got)
	}
}

func TestSearchMetricsRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSearchMetrics(reg)
	if err != nil {
		t.Fatalf("first NewSearchMetrics: %v", err)
	}
	second, err := NewSearchMetrics(reg)
	if err != nil {
		t.Fatalf("second NewSearchMetrics: %v", err)
	}

	second.AddRestart()
	if got := testutil.ToFloat64(first.Restarts); got != 1 {
		t.Fatalf("collectors were not shared: restarts = %v", got)
	}
}

func TestNilSearchMetricsIsNoop(t *testing.T) {
	var m *SearchMetrics
	m.ObserveSearch(OutcomeFound, time.Second)
	m.AddExpansion()
	m.AddRestart()
	m.AddSkipped("already_visited")
}
