package repositories

import (
	"charging-route-service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the StationRepository port.
type PostgresStationRepository struct{ DB *sql.DB }

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{DB: db}
}

// Return all stations stored in the database.
func (p *PostgresStationRepository) ListStations(ctx context.Context) ([]domain.Waypoint, error) {
	if p.DB == nil {
		return nil, errors.New("postgres station repository: DB is nil")
	}

	query := `
	SELECT
		station_id,
		lat,
		lon,
		charge_rate
	FROM stations
	ORDER BY station_id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	records := make([]StationRecord, 0, 64)
	for rows.Next() {
		var r StationRecord
		if err := rows.Scan(&r.ID, &r.Lat, &r.Lon, &r.ChargeRate); err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	stations, err := toWaypoints(records)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return stations, nil
}
