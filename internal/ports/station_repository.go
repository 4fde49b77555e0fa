package ports

import (
	"charging-route-service/internal/domain"
	"context"
)

// Port: a boundary for loading the station network from a data source.
type StationRepository interface {
	// Retrieve every station of the network.
	ListStations(ctx context.Context) ([]domain.Waypoint, error)
}
