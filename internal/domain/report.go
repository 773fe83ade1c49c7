package domain

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDamageCost = errors.New("damage cost must be positive")
	ErrMissingReportID   = errors.New("report id must be non-empty")
)

// Represents a single accident report in the catalog.
// Severity is measured by damage cost only.
type AccidentReport struct {
	ReportID      string
	VehicleNumber string
	Location      string
	DamageCost    float64
}

// NewAccidentReport validates and builds a report.
func NewAccidentReport(id, vehicleNumber, location string, damageCost float64) (AccidentReport, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AccidentReport{}, ErrMissingReportID
	}
	if damageCost <= 0 {
		return AccidentReport{}, ErrInvalidDamageCost
	}

	return AccidentReport{
		ReportID:      id,
		VehicleNumber: strings.TrimSpace(vehicleNumber),
		Location:      strings.TrimSpace(location),
		DamageCost:    damageCost,
	}, nil
}

// Validate re-checks the invariants enforced by NewAccidentReport.
func (r AccidentReport) Validate() error {
	_, err := NewAccidentReport(r.ReportID, r.VehicleNumber, r.Location, r.DamageCost)
	return err
}

// MoreSevere reports whether r caused strictly more damage than other.
func (r AccidentReport) MoreSevere(other AccidentReport) bool {
	return r.DamageCost > other.DamageCost
}
