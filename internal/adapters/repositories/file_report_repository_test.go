package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-telemetry-service/internal/domain"
)

func TestFileReportRepositoryMissingFileIsEmpty(t *testing.T) {
	repo := NewFileReportRepository(filepath.Join(t.TempDir(), "accidents.txt"))

	got, err := repo.LoadReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileReportRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accidents.txt")
	repo := NewFileReportRepository(path)
	ctx := context.Background()

	want := []domain.AccidentReport{
		{ReportID: "R1", VehicleNumber: "KA01AB1234", Location: "MG Road", DamageCost: 15000},
		{ReportID: "R2", VehicleNumber: "TN09CD5678", Location: "Anna Salai, Chennai", DamageCost: 2500.75},
	}
	for _, r := range want {
		require.NoError(t, repo.AppendReport(ctx, r))
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "R1,KA01AB1234,MG Road,15000\nR2,TN09CD5678,\"Anna Salai, Chennai\",2500.75\n", string(raw))

	got, err := repo.LoadReports(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileReportRepositorySkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accidents.txt")
	body := "R1,V1,Depot,100\n" +
		"garbage line\n" +
		"R2,V2,Harbor,not-a-number\n" +
		"R3,V3,Quarry,-5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	got, err := NewFileReportRepository(path).LoadReports(context.Background())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "R1", got[0].ReportID)
	// Domain validation is the catalog's job; the log keeps what it was given.
	assert.Equal(t, "R3", got[1].ReportID)
	assert.Equal(t, -5.0, got[1].DamageCost)
}
