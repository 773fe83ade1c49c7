package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/db"
)

func newSqliteRepo(t *testing.T) *SqliteReportRepository {
	t.Helper()
	conn, err := db.OpenSqlite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSqliteSchema(context.Background(), conn))
	return NewSqliteReportRepository(conn)
}

func TestSqliteReportRepositoryPreservesInsertionOrder(t *testing.T) {
	repo := newSqliteRepo(t)
	ctx := context.Background()

	want := []domain.AccidentReport{
		{ReportID: "Z9", VehicleNumber: "V1", Location: "North", DamageCost: 10},
		{ReportID: "A1", VehicleNumber: "V2", Location: "South", DamageCost: 900},
		{ReportID: "M5", VehicleNumber: "V3", Location: "East", DamageCost: 55.5},
	}
	for _, r := range want {
		require.NoError(t, repo.AppendReport(ctx, r))
	}

	got, err := repo.LoadReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSqliteReportRepositoryRejectsDuplicateID(t *testing.T) {
	repo := newSqliteRepo(t)
	ctx := context.Background()

	r := domain.AccidentReport{ReportID: "R1", VehicleNumber: "V", Location: "L", DamageCost: 1}
	require.NoError(t, repo.AppendReport(ctx, r))
	assert.Error(t, repo.AppendReport(ctx, r))
}

func TestSeedSqliteReportsIsIdempotent(t *testing.T) {
	repo := newSqliteRepo(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"report_id": "R1", "vehicle_number": "V1", "location": "Depot", "damage_cost": 120},
		{"report_id": "R2", "vehicle_number": "V2", "location": "Harbor", "damage_cost": 80}
	]`), 0o644))

	seeds, err := ReadReportSeeds(path)
	require.NoError(t, err)
	require.NoError(t, SeedSqliteReports(ctx, repo.DB, seeds))
	require.NoError(t, SeedSqliteReports(ctx, repo.DB, seeds))

	got, err := repo.LoadReports(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReadReportSeedsRejectsInvalidItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"report_id": "R1", "damage_cost": 0}]`), 0o644))

	_, err := ReadReportSeeds(path)
	assert.ErrorIs(t, err, domain.ErrInvalidDamageCost)
}
