package protocol

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/events"
	"github.com/kidcare/afterhours/internal/shared/metrics"
	"github.com/kidcare/afterhours/internal/triage"
)

// Handler provides HTTP handlers for the protocol store
type Handler struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
}

// NewHandler creates a new protocol handler. publisher may be nil.
func NewHandler(repo Repository, publisher events.Publisher, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, publisher: publisher, logger: logger}
}

// Routes registers the protocol routes. adminGuard wraps the write route.
func (h *Handler) Routes(adminGuard ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListProtocols)
	r.Get("/{symptom}/{ageGroup}", h.GetProtocol)
	r.With(adminGuard...).Post("/", h.RegisterProtocol)

	return r
}

// ListProtocols lists every registered protocol
func (h *Handler) ListProtocols(w http.ResponseWriter, r *http.Request) {
	protocols, err := h.repo.List(r.Context())
	if err != nil {
		errors.WriteError(w, err)
		return
	}
	if protocols == nil {
		protocols = []triage.Protocol{}
	}

	errors.WriteJSON(w, http.StatusOK, map[string]any{
		"data":  protocols,
		"total": len(protocols),
	})
}

// GetProtocol returns the protocol for a symptom and age group
func (h *Handler) GetProtocol(w http.ResponseWriter, r *http.Request) {
	symptom, ageGroup, err := ParsePair(chi.URLParam(r, "symptom"), chi.URLParam(r, "ageGroup"))
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	p, ok, err := h.repo.Get(r.Context(), symptom, ageGroup)
	if err != nil {
		errors.WriteError(w, err)
		return
	}
	metrics.RecordProtocolLookup(ok)
	if !ok {
		errors.WriteError(w, errors.NoGuidance(string(symptom), string(ageGroup)))
		return
	}

	errors.WriteJSON(w, http.StatusOK, p)
}

// RegisterProtocol inserts or replaces a protocol
func (h *Handler) RegisterProtocol(w http.ResponseWriter, r *http.Request) {
	var p triage.Protocol
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		errors.WriteError(w, errors.BadRequest("invalid request body"))
		return
	}

	if err := h.repo.Register(r.Context(), p); err != nil {
		errors.WriteError(w, err)
		return
	}
	metrics.RecordProtocolRegistered()

	if h.publisher != nil {
		event := events.NewEvent(events.TypeProtocolRegistered, "protocol", map[string]string{
			"key":      p.Key(),
			"symptom":  string(p.Symptom),
			"ageGroup": string(p.AgeGroup),
		})
		err := h.publisher.Publish(r.Context(), event)
		metrics.RecordEventPublished(event.Type, err)
		if err != nil {
			h.logger.Warn("failed to publish protocol event", "key", p.Key(), "error", err)
		}
	}

	errors.WriteJSON(w, http.StatusCreated, p)
}

// ListAgeGroups returns parent-facing details for every age group
func (h *Handler) ListAgeGroups(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, http.StatusOK, map[string]any{
		"data": triage.AllAgeGroupInfo(),
	})
}

// ParsePair validates a symptom and age group taken from a request. Unknown
// values are a validation error rather than a missing protocol.
func ParsePair(symptom, ageGroup string) (triage.Symptom, triage.AgeGroup, error) {
	details := map[string]string{}
	s, err := triage.ParseSymptom(symptom)
	if err != nil {
		details["symptom"] = err.Error()
	}
	a, err := triage.ParseAgeGroup(ageGroup)
	if err != nil {
		details["ageGroup"] = err.Error()
	}
	if len(details) > 0 {
		return "", "", errors.Validation("invalid symptom or age group", details)
	}
	return s, a, nil
}
