package domain

// Represents a charging station the vehicle may stop at.
// ChargeRate is the range added per hour of charging (km/h).
// Waypoints are loaded once and never mutated.
type Waypoint struct {
	ID          string
	Coordinates Coordinates
	ChargeRate  float64
}

// DistanceFunc returns the travel distance in km between two waypoints.
type DistanceFunc func(from, to Waypoint) float64
