package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/obs"
)

// SQLite-backed implementation of the ReportRepository port.
type SqliteReportRepository struct{ DB *sql.DB }

func NewSqliteReportRepository(db *sql.DB) *SqliteReportRepository {
	return &SqliteReportRepository{DB: db}
}

// Return all reports in insertion order.
func (s *SqliteReportRepository) LoadReports(ctx context.Context) (_ []domain.AccidentReport, err error) {
	defer obs.Time(ctx, "sqlite.LoadReports")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite report repository: DB is nil")
	}

	return queryReports(ctx, s.DB)
}

// Append one report. A duplicate report_id fails on the UNIQUE constraint.
func (s *SqliteReportRepository) AppendReport(ctx context.Context, r domain.AccidentReport) (err error) {
	defer obs.Time(ctx, "sqlite.AppendReport")(&err)

	if s.DB == nil {
		return errors.New("sqlite report repository: DB is nil")
	}

	query := `
	INSERT INTO accident_reports (
		report_id,
		vehicle_number,
		location,
		damage_cost
	)
	VALUES (?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, r.ReportID, r.VehicleNumber, r.Location, r.DamageCost); err != nil {
		return fmt.Errorf("append report %q: %w", r.ReportID, err)
	}

	return nil
}

// Insert seed reports, skipping report ids that already exist.
func SeedSqliteReports(ctx context.Context, db *sql.DB, reports []domain.AccidentReport) error {
	return seedReports(ctx, db, `
	INSERT OR IGNORE INTO accident_reports (
		report_id,
		vehicle_number,
		location,
		damage_cost
	)
	VALUES (?, ?, ?, ?);
	`, reports)
}

func queryReports(ctx context.Context, db *sql.DB) ([]domain.AccidentReport, error) {
	query := `
	SELECT
		report_id,
		vehicle_number,
		location,
		damage_cost
	FROM accident_reports
	ORDER BY seq;
	`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load reports: query accident_reports table: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.AccidentReport, 0, 64)
	for rows.Next() {
		var r domain.AccidentReport
		if err := rows.Scan(&r.ReportID, &r.VehicleNumber, &r.Location, &r.DamageCost); err != nil {
			return nil, fmt.Errorf("load reports: scan row: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load reports: row iteration: %w", err)
	}

	return reports, nil
}

func seedReports(ctx context.Context, db *sql.DB, query string, reports []domain.AccidentReport) error {
	if db == nil {
		return errors.New("seed reports: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed reports: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed reports: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range reports {
		if _, err := stmt.ExecContext(ctx, r.ReportID, r.VehicleNumber, r.Location, r.DamageCost); err != nil {
			return fmt.Errorf("seed reports: insert report_id=%q: %w", r.ReportID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed reports: commit tx: %w", err)
	}

	return nil
}
