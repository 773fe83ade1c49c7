package handlers

import (
	"errors"
	"net/http"
	"strings"

	"trip-telemetry-service/internal/api/dto"
	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/obs"
	"trip-telemetry-service/internal/services"
)

// ReportHandler exposes the accident report catalog.
type ReportHandler struct {
	Catalog *services.ReportCatalog
}

// Reports lists reports on GET (sorted by damage with ?sort=damage) and adds
// one on POST.
func (h *ReportHandler) Reports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.add(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *ReportHandler) list(w http.ResponseWriter, r *http.Request) {
	switch sortBy := r.URL.Query().Get("sort"); sortBy {
	case "":
	case "damage":
		h.Catalog.Sort()
	default:
		writeError(w, r, http.StatusBadRequest, "sort must be \"damage\"")
		return
	}

	reports := h.Catalog.List()
	res := dto.ListReportsResponse{Reports: make([]dto.ReportResponse, 0, len(reports))}
	for _, rep := range reports {
		res.Reports = append(res.Reports, toReportResponse(rep))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ReportHandler) add(w http.ResponseWriter, r *http.Request) {
	var req dto.ReportRequest
	if err := decodeBody(r, &req, false); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	added, err := h.Catalog.Add(r.Context(), domain.AccidentReport{
		ReportID:      req.ReportID,
		VehicleNumber: req.VehicleNumber,
		Location:      req.Location,
		DamageCost:    req.DamageCost,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidDamageCost), errors.Is(err, domain.ErrMissingReportID):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrDuplicateReport):
		writeError(w, r, http.StatusConflict, err.Error())
		return
	case err != nil:
		obs.Logger(r.Context()).WithError(err).Error("add report failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, toReportResponse(added))
}

// Compare reports which of ?first= and ?second= is more severe.
func (h *ReportHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	first, second := strings.TrimSpace(q.Get("first")), strings.TrimSpace(q.Get("second"))
	if first == "" || second == "" {
		writeError(w, r, http.StatusBadRequest, "first and second are required")
		return
	}

	cmp, err := h.Catalog.Compare(first, second)
	if errors.Is(err, services.ErrReportNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Error("compare reports failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CompareResponse{
		First:      toReportResponse(cmp.First),
		Second:     toReportResponse(cmp.Second),
		MoreSevere: cmp.Outcome.String(),
	})
}

func toReportResponse(r domain.AccidentReport) dto.ReportResponse {
	return dto.ReportResponse{
		ReportID:      r.ReportID,
		VehicleNumber: r.VehicleNumber,
		Location:      r.Location,
		DamageCost:    r.DamageCost,
	}
}
