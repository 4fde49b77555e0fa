package ports

import "charging-route-service/internal/domain"

// Contract for computing the distance between two stations.
type DistanceMetric interface {
	// Return the distance in km between two waypoints. Must be symmetric.
	Distance(from, to domain.Waypoint) float64
}
