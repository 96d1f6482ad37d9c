package analytics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kidcare/afterhours/internal/shared/errors"
)

// Handler provides HTTP handlers for the analytics reports
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the analytics routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dashboard", h.GetDashboard)
	r.Get("/usage", h.GetUsage)
	r.Get("/call-reduction", h.GetCallReduction)

	return r
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context())
	if err != nil {
		errors.WriteError(w, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) GetUsage(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", DefaultUsageDays)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	report, err := h.service.UsageReport(r.Context(), days)
	if err != nil {
		errors.WriteError(w, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) GetCallReduction(w http.ResponseWriter, r *http.Request) {
	months, err := queryInt(r, "months", DefaultCallReductionMonths)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	report, err := h.service.CallReductionReport(r.Context(), months)
	if err != nil {
		errors.WriteError(w, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, report)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Validation("invalid query parameter", map[string]string{key: "must be an integer"})
	}
	return n, nil
}
