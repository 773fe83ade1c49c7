package ports

import (
	"context"
	"trip-telemetry-service/internal/domain"
)

// Port: an append-only store of accident reports.
type ReportRepository interface {
	// Return every stored report in insertion order.
	LoadReports(ctx context.Context) ([]domain.AccidentReport, error)
	// Persist one report at the end of the store.
	AppendReport(ctx context.Context, r domain.AccidentReport) error
}
