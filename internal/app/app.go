package app

import (
	"charging-route-service/internal/adapters/cache"
	"charging-route-service/internal/adapters/directory"
	"charging-route-service/internal/adapters/distance"
	"charging-route-service/internal/adapters/repositories"
	"charging-route-service/internal/config"
	"charging-route-service/internal/platform/db"
	"charging-route-service/internal/platform/obs"
	"charging-route-service/internal/ports"
	"charging-route-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

// App holds the wired planner shared by the binaries.
type App struct {
	Config    config.Config
	Directory *directory.StationDirectory
	Search    *services.RouteSearch
	Metrics   *obs.SearchMetrics

	closers []func() error
}

// Build is the composition root. Stations come from the first configured
// source: DATABASE_URL, STATIONS_URL, STATIONS_PATH, then the sample network.
// Neighbor lists are cached in Redis when REDIS_URL is set, otherwise in
// Postgres when stations come from the database.
func Build(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	var database *sql.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("build app: %w", err)
		}
		a.closers = append(a.closers, database.Close)
	}

	repo, source, err := stationSource(cfg, database)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	stations, err := repo.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("build app: load stations from %s: %w", source, err)
	}

	neighborCache, err := a.neighborCache(ctx, cfg, database)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	metric := distance.NewGreatCircle()
	a.Directory, err = directory.NewStationDirectory(stations, metric, cfg.Vehicle.MaxRange, neighborCache)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	vehicle := cfg.Vehicle
	if cfg.AutoChargeRate {
		vehicle.AverageChargeRate = a.Directory.AverageChargeRate()
	}

	a.Metrics, err = obs.NewSearchMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	a.Search, err = services.NewRouteSearch(a.Directory, metric, vehicle, cfg.Search, services.WithMetrics(a.Metrics))
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}

	log.Printf("planner ready: source=%s stations=%d range_km=%v avg_rate=%.2f",
		source, a.Directory.Len(), vehicle.MaxRange, vehicle.AverageChargeRate)

	return a, nil
}

func stationSource(cfg config.Config, database *sql.DB) (ports.StationRepository, string, error) {
	switch {
	case database != nil:
		return repositories.NewPostgresStationRepository(database), "postgres", nil
	case cfg.StationsURL != "":
		repo, err := repositories.NewHTTPStationRepository(cfg.StationsURL, nil)
		if err != nil {
			return nil, "", err
		}
		return repo, cfg.StationsURL, nil
	case cfg.StationsPath != "":
		return repositories.NewFileStationRepository(cfg.StationsPath), cfg.StationsPath, nil
	default:
		return repositories.SampleStationRepository{}, "sample", nil
	}
}

func (a *App) neighborCache(ctx context.Context, cfg config.Config, database *sql.DB) (ports.NeighborCache, error) {
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		return cache.NewRedisNeighborCache(rdb, cfg.Vehicle.MaxRange, cfg.NeighborCacheTTL), nil
	}

	if database != nil {
		return cache.NewSQLNeighborCache(database, cfg.Vehicle.MaxRange), nil
	}

	return nil, nil
}

// Close releases database and cache connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
