package domain

import (
	"errors"
	"testing"
)

func TestNewAccidentReport(t *testing.T) {
	r, err := NewAccidentReport(" R1 ", "KA01AB1234", " Ring Road ", 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ReportID != "R1" {
		t.Errorf("ReportID = %q, want %q", r.ReportID, "R1")
	}
	if r.Location != "Ring Road" {
		t.Errorf("Location = %q, want %q", r.Location, "Ring Road")
	}

	if _, err := NewAccidentReport("R2", "X", "Y", 0); !errors.Is(err, ErrInvalidDamageCost) {
		t.Fatalf("zero cost: err = %v, want ErrInvalidDamageCost", err)
	}
	if _, err := NewAccidentReport("R3", "X", "Y", -10); !errors.Is(err, ErrInvalidDamageCost) {
		t.Fatalf("negative cost: err = %v, want ErrInvalidDamageCost", err)
	}
	if _, err := NewAccidentReport("  ", "X", "Y", 10); !errors.Is(err, ErrMissingReportID) {
		t.Fatalf("blank id: err = %v, want ErrMissingReportID", err)
	}
}

func TestAccidentReportMoreSevere(t *testing.T) {
	minor := AccidentReport{ReportID: "A", DamageCost: 100}
	major := AccidentReport{ReportID: "B", DamageCost: 900}

	if !major.MoreSevere(minor) {
		t.Errorf("expected B to be more severe than A")
	}
	if minor.MoreSevere(major) {
		t.Errorf("expected A not to be more severe than B")
	}
	if minor.MoreSevere(minor) {
		t.Errorf("a report must not be more severe than itself")
	}
}
