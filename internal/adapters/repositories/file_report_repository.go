package repositories

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/obs"
)

// FileReportRepository keeps reports in an append-only text log, one
// `id,vehicle,location,cost` line per report.
type FileReportRepository struct {
	Path string

	mu sync.Mutex
}

func NewFileReportRepository(path string) *FileReportRepository {
	return &FileReportRepository{Path: path}
}

// Return every well-formed line of the log. A missing file is an empty log;
// malformed lines are skipped.
func (f *FileReportRepository) LoadReports(ctx context.Context) (_ []domain.AccidentReport, err error) {
	defer obs.Time(ctx, "file.LoadReports")(&err)

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.AccidentReport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load reports: open %q: %w", f.Path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 4
	r.LazyQuotes = true

	reports := make([]domain.AccidentReport, 0, 64)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			log.WithFields(log.Fields{"path": f.Path, "line": pe.Line}).WithError(pe.Err).Warn("skipping malformed report line")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load reports: read %q: %w", f.Path, err)
		}

		cost, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if err != nil {
			line, _ := r.FieldPos(3)
			log.WithFields(log.Fields{"path": f.Path, "line": line}).WithError(err).Warn("skipping report with unreadable cost")
			continue
		}

		reports = append(reports, domain.AccidentReport{
			ReportID:      rec[0],
			VehicleNumber: rec[1],
			Location:      rec[2],
			DamageCost:    cost,
		})
	}

	return reports, nil
}

// Append one line to the log, creating the file if needed.
func (f *FileReportRepository) AppendReport(ctx context.Context, rep domain.AccidentReport) (err error) {
	defer obs.Time(ctx, "file.AppendReport")(&err)

	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("append report: open %q: %w", f.Path, err)
	}

	w := csv.NewWriter(file)
	werr := w.Write([]string{
		rep.ReportID,
		rep.VehicleNumber,
		rep.Location,
		strconv.FormatFloat(rep.DamageCost, 'f', -1, 64),
	})
	if werr == nil {
		w.Flush()
		werr = w.Error()
	}

	if cerr := file.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("append report %q: %w", rep.ReportID, werr)
	}

	return nil
}
