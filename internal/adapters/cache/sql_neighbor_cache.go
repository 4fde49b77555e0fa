package cache

import (
	"charging-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLNeighborCache is a SQL-backed cache for station neighbor lists.
// Rows are keyed by (range_km, station_id); the list is stored as JSON.
type SQLNeighborCache struct {
	DB      *sql.DB
	RangeKm float64
}

func NewSQLNeighborCache(db *sql.DB, rangeKm float64) *SQLNeighborCache {
	return &SQLNeighborCache{DB: db, RangeKm: rangeKm}
}

// Fetch the cached neighbor ids of one station.
func (s *SQLNeighborCache) GetNeighbors(
	ctx context.Context,
	id string,
) (_ []string, _ bool, err error) {
	defer obs.Time(ctx, "neighbors.sqlcache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("neighbor cache: db is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, errors.New("get neighbor cache: id must not be empty")
	}

	q := `
	SELECT neighbors
	FROM neighbor_cache
	WHERE range_km = $1
		AND station_id = $2;
	`

	var raw string
	err = s.DB.QueryRowContext(ctx, q, s.RangeKm, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get neighbor cache: query neighbor_cache table: %w", err)
	}

	var neighbors []string
	if err := json.Unmarshal([]byte(raw), &neighbors); err != nil {
		return nil, false, fmt.Errorf("get neighbor cache: decode station_id=%q: %w", id, err)
	}

	return neighbors, true, nil
}

// Store the neighbor ids of one station, replacing any previous entry.
func (s *SQLNeighborCache) PutNeighbors(
	ctx context.Context,
	id string,
	neighbors []string,
) error {
	if s.DB == nil {
		return errors.New("neighbor cache: db is nil")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("insert neighbor cache: id must not be empty")
	}

	if neighbors == nil {
		neighbors = []string{}
	}

	raw, err := json.Marshal(neighbors)
	if err != nil {
		return fmt.Errorf("insert neighbor cache: encode station_id=%q: %w", id, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO neighbor_cache (range_km, station_id, neighbors)
	VALUES ($1, $2, $3)
	ON CONFLICT (range_km, station_id) DO UPDATE
	SET neighbors = EXCLUDED.neighbors;
	`, s.RangeKm, id, string(raw))
	if err != nil {
		return fmt.Errorf("insert neighbor cache station_id=%q: %w", id, err)
	}

	return nil
}
