package repositories

import (
	"charging-route-service/internal/domain"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StationRecord is the on-disk and on-the-wire form of a charging station.
type StationRecord struct {
	ID         string  `json:"id" yaml:"id"`
	Lat        float64 `json:"lat" yaml:"lat"`
	Lon        float64 `json:"lon" yaml:"lon"`
	ChargeRate float64 `json:"charge_rate" yaml:"charge_rate"`
}

// Format selects the station list encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeStations parses a station list and validates every record.
func DecodeStations(raw []byte, format Format) ([]domain.Waypoint, error) {
	var records []StationRecord

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decode stations: parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("decode stations: parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode stations: unknown format %q", format)
	}

	return toWaypoints(records)
}

func toWaypoints(records []StationRecord) ([]domain.Waypoint, error) {
	out := make([]domain.Waypoint, 0, len(records))
	for i, r := range records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, fmt.Errorf("station at index %d: id cannot be empty", i+1)
		}
		if r.Lat < -90 || r.Lat > 90 || r.Lon < -180 || r.Lon > 180 {
			return nil, fmt.Errorf("station %q: coordinates (%v, %v) out of bounds", id, r.Lat, r.Lon)
		}
		if r.ChargeRate <= 0 {
			return nil, fmt.Errorf("station %q: charge rate must be positive, got %v", id, r.ChargeRate)
		}

		out = append(out, domain.Waypoint{
			ID:          id,
			Coordinates: domain.Coordinates{Lat: r.Lat, Lon: r.Lon},
			ChargeRate:  r.ChargeRate,
		})
	}
	return out, nil
}

// ToRecords converts waypoints back to their serialized form.
func ToRecords(stations []domain.Waypoint) []StationRecord {
	out := make([]StationRecord, 0, len(stations))
	for _, s := range stations {
		out = append(out, StationRecord{
			ID:         s.ID,
			Lat:        s.Coordinates.Lat,
			Lon:        s.Coordinates.Lon,
			ChargeRate: s.ChargeRate,
		})
	}
	return out
}
