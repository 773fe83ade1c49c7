package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/obs"
)

// SQLReportRepository stores reports in Postgres through the pgx stdlib driver.
type SQLReportRepository struct{ DB *sql.DB }

func NewSQLReportRepository(db *sql.DB) *SQLReportRepository {
	return &SQLReportRepository{DB: db}
}

func (s *SQLReportRepository) LoadReports(ctx context.Context) (_ []domain.AccidentReport, err error) {
	defer obs.Time(ctx, "postgres.LoadReports")(&err)

	if s.DB == nil {
		return nil, errors.New("sql report repository: DB is nil")
	}

	return queryReports(ctx, s.DB)
}

func (s *SQLReportRepository) AppendReport(ctx context.Context, r domain.AccidentReport) (err error) {
	defer obs.Time(ctx, "postgres.AppendReport")(&err)

	if s.DB == nil {
		return errors.New("sql report repository: DB is nil")
	}

	q := `
	INSERT INTO accident_reports (report_id, vehicle_number, location, damage_cost)
	VALUES ($1, $2, $3, $4);
	`
	if _, err := s.DB.ExecContext(ctx, q, r.ReportID, r.VehicleNumber, r.Location, r.DamageCost); err != nil {
		return fmt.Errorf("append report %q: %w", r.ReportID, err)
	}

	return nil
}

// Insert seed reports into Postgres, skipping report ids that already exist.
func SeedPostgresReports(ctx context.Context, db *sql.DB, reports []domain.AccidentReport) error {
	return seedReports(ctx, db, `
	INSERT INTO accident_reports (report_id, vehicle_number, location, damage_cost)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (report_id) DO NOTHING;
	`, reports)
}
