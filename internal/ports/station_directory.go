package ports

import (
	"charging-route-service/internal/domain"
	"context"
)

// Read-only view of the station network used by the route search.
type StationDirectory interface {
	// Return the station record for id, or an error wrapping domain.ErrStationNotFound.
	Station(id string) (domain.Waypoint, error)
	// Return the ids of all other stations within one full charge of id.
	Neighbors(ctx context.Context, id string) ([]string, error)
}
