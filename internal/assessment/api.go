package assessment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/middleware"
	"github.com/kidcare/afterhours/internal/shared/types"
)

// Handler provides HTTP handlers for assessments
type Handler struct {
	service *Service
}

// NewHandler creates a new assessment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the assessment routes. limit wraps the write route.
func (h *Handler) Routes(limit ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(limit...).Post("/", h.CreateAssessment)
	r.Get("/{assessmentID}", h.GetAssessment)

	return r
}

// CreateAssessment classifies and stores a completed walkthrough
func (h *Handler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, errors.BadRequest("invalid request body"))
		return
	}

	meta := RequestMeta{
		UserAgent: r.UserAgent(),
		IPAddress: middleware.ClientIP(r),
	}

	a, err := h.service.Create(r.Context(), req, meta)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusCreated, a)
}

// GetAssessment returns a stored assessment
func (h *Handler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "assessmentID"))
	if err != nil {
		errors.WriteError(w, errors.BadRequest("invalid assessment ID"))
		return
	}

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, a)
}

// Classify runs the urgency engine over a response set without storing it
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, errors.BadRequest("invalid request body"))
		return
	}

	result, err := h.service.Classify(r.Context(), req)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, result)
}
