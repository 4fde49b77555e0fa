package ports

import "context"

// Optional persistent cache for neighbor lists, shared between processes.
type NeighborCache interface {
	// Return the cached neighbor ids of a station and whether they were found.
	GetNeighbors(ctx context.Context, id string) ([]string, bool, error)
	// Store the neighbor ids of a station.
	PutNeighbors(ctx context.Context, id string, neighbors []string) error
}
