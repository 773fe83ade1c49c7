package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"trip-telemetry-service/internal/domain"
)

// Initialize the SQLite accident report schema.
func InitSqliteSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, []string{
		`
	CREATE TABLE IF NOT EXISTS accident_reports (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL UNIQUE,
		vehicle_number TEXT NOT NULL,
		location TEXT NOT NULL,
		damage_cost REAL NOT NULL CHECK (damage_cost > 0)
	);
	`,
	})
}

// Initialize the Postgres accident report schema.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	return initSchema(ctx, db, []string{
		`
	CREATE TABLE IF NOT EXISTS accident_reports (
		seq BIGSERIAL PRIMARY KEY,
		report_id TEXT NOT NULL UNIQUE,
		vehicle_number TEXT NOT NULL,
		location TEXT NOT NULL,
		damage_cost DOUBLE PRECISION NOT NULL CHECK (damage_cost > 0)
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_accident_reports_damage_cost
	ON accident_reports(damage_cost DESC);
	`,
	})
}

func initSchema(ctx context.Context, db *sql.DB, statements []string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ReportSeed struct {
	ReportID      string  `json:"report_id"`
	VehicleNumber string  `json:"vehicle_number"`
	Location      string  `json:"location"`
	DamageCost    float64 `json:"damage_cost"`
}

// Read and validate accident reports from a JSON seed file.
func ReadReportSeeds(jsonPath string) ([]domain.AccidentReport, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed reports: read %q: %w", jsonPath, err)
	}

	var data []ReportSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed reports: parse json: %w", err)
	}

	reports := make([]domain.AccidentReport, 0, len(data))
	for i, item := range data {
		r, err := domain.NewAccidentReport(item.ReportID, item.VehicleNumber, item.Location, item.DamageCost)
		if err != nil {
			return nil, fmt.Errorf("seed reports: item at index %d: %w", i, err)
		}
		reports = append(reports, r)
	}

	return reports, nil
}
