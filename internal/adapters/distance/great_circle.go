package distance

import (
	"charging-route-service/internal/domain"
	"math"
)

// EarthRadiusKm is the sphere radius used for station distances.
const EarthRadiusKm = 6356.752

// GreatCircle implements DistanceMetric with the spherical law of cosines.
type GreatCircle struct {
	RadiusKm float64
}

func NewGreatCircle() GreatCircle {
	return GreatCircle{RadiusKm: EarthRadiusKm}
}

func (g GreatCircle) Distance(from, to domain.Waypoint) float64 {
	return GreatCircleKm(from.Coordinates, to.Coordinates, g.RadiusKm)
}

// GreatCircleKm returns the distance between a and b on a sphere of radius r.
func GreatCircleKm(a, b domain.Coordinates, r float64) float64 {
	if a == b {
		return 0
	}

	lat1 := DegreesToRadians(a.Lat)
	lat2 := DegreesToRadians(b.Lat)
	dLon := DegreesToRadians(a.Lon - b.Lon)

	cos := math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon) + math.Sin(lat1)*math.Sin(lat2)
	// Rounding can push identical points slightly above 1.
	cos = math.Max(-1, math.Min(1, cos))

	return r * math.Acos(cos)
}

func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
