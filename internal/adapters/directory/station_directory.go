package directory

import (
	"charging-route-service/internal/domain"
	"charging-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

// StationDirectory is the in-memory, read-only station network.
//
// Station records are fixed at construction. Neighbor lists are computed on
// first use and memoized; when a NeighborCache is configured it is consulted
// before scanning and filled after. The directory is safe for concurrent use.
type StationDirectory struct {
	stations map[string]domain.Waypoint
	ids      []string
	metric   ports.DistanceMetric
	rangeKm  float64
	cache    ports.NeighborCache

	mu        sync.RWMutex
	neighbors map[string][]string
}

func NewStationDirectory(
	stations []domain.Waypoint,
	metric ports.DistanceMetric,
	rangeKm float64,
	cache ports.NeighborCache,
) (*StationDirectory, error) {
	if metric == nil {
		return nil, errors.New("station directory: metric must be non-nil")
	}

	if rangeKm <= 0 {
		return nil, fmt.Errorf("station directory: range must be positive, got %v", rangeKm)
	}

	byID := make(map[string]domain.Waypoint, len(stations))
	ids := make([]string, 0, len(stations))
	for i, s := range stations {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return nil, fmt.Errorf("station directory: station at index %d has empty id", i)
		}
		if s.ChargeRate <= 0 {
			return nil, fmt.Errorf("station directory: station %q has non-positive charge rate %v", id, s.ChargeRate)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("station directory: duplicate station %q", id)
		}
		s.ID = id
		byID[id] = s
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &StationDirectory{
		stations:  byID,
		ids:       ids,
		metric:    metric,
		rangeKm:   rangeKm,
		cache:     cache,
		neighbors: make(map[string][]string, len(ids)),
	}, nil
}

// Return the station record for id.
func (d *StationDirectory) Station(id string) (domain.Waypoint, error) {
	s, ok := d.stations[id]
	if !ok {
		return domain.Waypoint{}, fmt.Errorf("station %q: %w", id, domain.ErrStationNotFound)
	}
	return s, nil
}

// Return every station ordered by id.
func (d *StationDirectory) Stations() []domain.Waypoint {
	out := make([]domain.Waypoint, 0, len(d.ids))
	for _, id := range d.ids {
		out = append(out, d.stations[id])
	}
	return out
}

func (d *StationDirectory) Len() int { return len(d.ids) }

// Return the ids, ordered by id, of all other stations within range of id.
// Callers must not modify the returned slice.
func (d *StationDirectory) Neighbors(ctx context.Context, id string) ([]string, error) {
	origin, err := d.Station(id)
	if err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}

	d.mu.RLock()
	cached, ok := d.neighbors[id]
	d.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if d.cache != nil {
		hit, found, err := d.cache.GetNeighbors(ctx, id)
		if err != nil {
			log.Printf("neighbor cache read failed: station=%s err=%v", id, err)
		} else if found {
			// Drop ids that are no longer part of the network.
			known := make([]string, 0, len(hit))
			for _, n := range hit {
				if _, ok := d.stations[n]; ok && n != id {
					known = append(known, n)
				}
			}
			sort.Strings(known)
			return d.remember(id, known), nil
		}
	}

	out := make([]string, 0)
	for _, other := range d.ids {
		if other == id {
			continue
		}
		if d.metric.Distance(origin, d.stations[other]) <= d.rangeKm {
			out = append(out, other)
		}
	}

	if d.cache != nil {
		if err := d.cache.PutNeighbors(ctx, id, out); err != nil {
			log.Printf("neighbor cache write failed: station=%s err=%v", id, err)
		}
	}

	return d.remember(id, out), nil
}

func (d *StationDirectory) remember(id string, neighbors []string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.neighbors[id]; ok {
		return existing
	}
	d.neighbors[id] = neighbors
	return neighbors
}

// AverageChargeRate returns the mean charge rate of the network.
func (d *StationDirectory) AverageChargeRate() float64 {
	if len(d.ids) == 0 {
		return 0
	}

	total := 0.0
	for _, s := range d.stations {
		total += s.ChargeRate
	}
	return total / float64(len(d.ids))
}
