package main

import (
	"context"
	"database/sql"
	"strings"

	log "github.com/sirupsen/logrus"

	"trip-telemetry-service/internal/adapters/repositories"
	"trip-telemetry-service/internal/config"
	"trip-telemetry-service/internal/platform/db"
)

// main prepares the Postgres report store: it creates the schema and loads
// seed reports, skipping ids that already exist.
func main() {
	cfg, err := config.Load(config.Get("CONFIG_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}

	databaseURL := cfg.Reports.DatabaseURL
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("REPORTS_DATABASE_URL is required")
	}

	conn, err := db.OpenPostgres(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/reports.json")
	if err := initAndSeed(context.Background(), conn, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	log.Info("initializing database schema")
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		return err
	}

	reports, err := repositories.ReadReportSeeds(seedPath)
	if err != nil {
		return err
	}

	log.WithField("count", len(reports)).Info("seeding reports")
	if err := repositories.SeedPostgresReports(ctx, conn, reports); err != nil {
		return err
	}
	log.Info("seeding complete")

	return nil
}
