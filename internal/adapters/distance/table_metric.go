package distance

import "charging-route-service/internal/domain"

type TablePair struct {
	From, To string
	Km       float64
}

// TableMetric serves fixed distances by station id. Pairs are symmetric and
// unknown pairs fall back to Default.
type TableMetric struct {
	m       map[string]float64
	Default float64
}

func NewTableMetric(pairs []TablePair, fallback float64) *TableMetric {
	m := make(map[string]float64, 2*len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = p.Km
		m[p.To+"|"+p.From] = p.Km
	}
	return &TableMetric{m: m, Default: fallback}
}

func (t *TableMetric) Distance(from, to domain.Waypoint) float64 {
	if from.ID == to.ID {
		return 0
	}
	if km, ok := t.m[from.ID+"|"+to.ID]; ok {
		return km
	}
	return t.Default
}
