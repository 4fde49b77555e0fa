package main

import (
	"charging-route-service/internal/adapters/repositories"
	"charging-route-service/internal/config"
	"charging-route-service/internal/platform/db"
	"charging-route-service/internal/ports"
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

// main creates the Postgres schema and seeds stations from STATIONS_PATH, or
// from the sample network when it is unset.
func main() {
	config.LoadDotEnv()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	seedPath := config.Get("STATIONS_PATH", "")
	if err := initAndSeed(ctx, database, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, database *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, database); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	var source ports.StationRepository = repositories.SampleStationRepository{}
	if seedPath != "" {
		source = repositories.NewFileStationRepository(seedPath)
	}

	stations, err := source.ListStations(ctx)
	if err != nil {
		return fmt.Errorf("load seed stations: %w", err)
	}

	log.Printf("Seeding database... stations=%d", len(stations))
	if err := repositories.SeedStations(ctx, database, stations); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
