package repositories

import (
	"charging-route-service/internal/domain"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
)

//go:embed data/stations.yaml
var sampleStations []byte

// File-backed implementation of the StationRepository port. The file is read
// on every call.
type FileStationRepository struct{ Path string }

func NewFileStationRepository(path string) *FileStationRepository {
	return &FileStationRepository{Path: path}
}

// Return all stations listed in the file.
func (f *FileStationRepository) ListStations(ctx context.Context) ([]domain.Waypoint, error) {
	if f.Path == "" {
		return nil, errors.New("file station repository: path is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("list stations: read %q: %w", f.Path, err)
	}

	stations, err := DecodeStations(raw, FormatFromPath(f.Path))
	if err != nil {
		return nil, fmt.Errorf("list stations: %q: %w", f.Path, err)
	}
	return stations, nil
}

// SampleStationRepository serves the network compiled into the binary.
type SampleStationRepository struct{}

func (SampleStationRepository) ListStations(ctx context.Context) ([]domain.Waypoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stations, err := DecodeStations(sampleStations, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("list sample stations: %w", err)
	}
	return stations, nil
}
