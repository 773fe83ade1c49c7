package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/ports"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrDuplicateReport = errors.New("report id already exists")
)

// Outcome of comparing the severity of two reports.
type Outcome int

const (
	SameSeverity Outcome = iota
	FirstMoreSevere
	SecondMoreSevere
)

func (o Outcome) String() string {
	switch o {
	case FirstMoreSevere:
		return "first"
	case SecondMoreSevere:
		return "second"
	default:
		return "equal"
	}
}

type Comparison struct {
	First   domain.AccidentReport
	Second  domain.AccidentReport
	Outcome Outcome
}

// ReportCatalog is the in-memory list of accident reports backed by an
// append-only repository. It is safe for concurrent use.
type ReportCatalog struct {
	repo ports.ReportRepository

	mu      sync.RWMutex
	reports []domain.AccidentReport
}

func NewReportCatalog(repo ports.ReportRepository) *ReportCatalog {
	return &ReportCatalog{repo: repo}
}

// Load replaces the in-memory list with the repository contents. Records that
// violate report invariants, and repeated ids after the first, are skipped.
func (c *ReportCatalog) Load(ctx context.Context) error {
	stored, err := c.repo.LoadReports(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(stored))
	reports := make([]domain.AccidentReport, 0, len(stored))
	for _, r := range stored {
		if err := r.Validate(); err != nil {
			log.WithField("report_id", r.ReportID).WithError(err).Warn("skipping invalid report")
			continue
		}
		if _, ok := seen[r.ReportID]; ok {
			log.WithField("report_id", r.ReportID).Warn("skipping repeated report id")
			continue
		}
		seen[r.ReportID] = struct{}{}
		reports = append(reports, r)
	}

	c.mu.Lock()
	c.reports = reports
	c.mu.Unlock()

	return nil
}

// Add validates r, persists it and appends it to the list.
func (c *ReportCatalog) Add(ctx context.Context, r domain.AccidentReport) (domain.AccidentReport, error) {
	r, err := domain.NewAccidentReport(r.ReportID, r.VehicleNumber, r.Location, r.DamageCost)
	if err != nil {
		return domain.AccidentReport{}, fmt.Errorf("add report: %w", err)
	}

	// Held across the repository write so two adds of one id cannot both pass
	// the duplicate check.
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(r.ReportID) >= 0 {
		return domain.AccidentReport{}, fmt.Errorf("add report %q: %w", r.ReportID, ErrDuplicateReport)
	}
	if err := c.repo.AppendReport(ctx, r); err != nil {
		return domain.AccidentReport{}, fmt.Errorf("add report: %w", err)
	}
	c.reports = append(c.reports, r)

	return r, nil
}

// List returns a copy of the reports in their current order.
func (c *ReportCatalog) List() []domain.AccidentReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.reports)
}

// Compare reports which of two reports caused more damage.
func (c *ReportCatalog) Compare(firstID, secondID string) (Comparison, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, j := c.indexOf(firstID), c.indexOf(secondID)
	if i < 0 {
		return Comparison{}, fmt.Errorf("compare reports: %q: %w", firstID, ErrReportNotFound)
	}
	if j < 0 {
		return Comparison{}, fmt.Errorf("compare reports: %q: %w", secondID, ErrReportNotFound)
	}

	cmp := Comparison{First: c.reports[i], Second: c.reports[j]}
	switch {
	case cmp.First.MoreSevere(cmp.Second):
		cmp.Outcome = FirstMoreSevere
	case cmp.Second.MoreSevere(cmp.First):
		cmp.Outcome = SecondMoreSevere
	default:
		cmp.Outcome = SameSeverity
	}
	return cmp, nil
}

// Sort orders the list by damage cost, highest first. Equal costs keep their
// relative order. The repository is not rewritten.
func (c *ReportCatalog) Sort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	slices.SortStableFunc(c.reports, bySeverity)
}

func (c *ReportCatalog) indexOf(id string) int {
	return slices.IndexFunc(c.reports, func(r domain.AccidentReport) bool { return r.ReportID == id })
}

func bySeverity(a, b domain.AccidentReport) int {
	switch {
	case a.DamageCost > b.DamageCost:
		return -1
	case a.DamageCost < b.DamageCost:
		return 1
	}
	return 0
}
