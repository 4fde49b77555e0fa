package repositories

import (
	"charging-route-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema for stations and the neighbor cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		station_id TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		charge_rate DOUBLE PRECISION NOT NULL CHECK (charge_rate > 0)
	);
	`

	createNeighborCacheQuery := `
	CREATE TABLE IF NOT EXISTS neighbor_cache (
		range_km DOUBLE PRECISION NOT NULL,
		station_id TEXT NOT NULL,
		neighbors TEXT NOT NULL,
		PRIMARY KEY (range_km, station_id)
	);
	`

	statements := []string{
		createStationsQuery,
		createNeighborCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Upsert stations by id. Cached neighbor lists are cleared because they may
// no longer match the network.
func SeedStations(ctx context.Context, db *sql.DB, stations []domain.Waypoint) error {
	if db == nil {
		return errors.New("seed stations: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO stations (
		station_id,
		lat,
		lon,
		charge_rate
	)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (station_id) DO UPDATE
	SET lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		charge_rate = EXCLUDED.charge_rate;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stations {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Coordinates.Lat, s.Coordinates.Lon, s.ChargeRate); err != nil {
			return fmt.Errorf("seed stations: insert station_id=%q: %w", s.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM neighbor_cache;`); err != nil {
		return fmt.Errorf("seed stations: clear neighbor cache: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
