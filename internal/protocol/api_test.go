package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kidcare/afterhours/internal/shared/auth"
	"github.com/kidcare/afterhours/internal/shared/config"
	"github.com/kidcare/afterhours/internal/shared/events"
	"github.com/kidcare/afterhours/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authCfg = config.AuthConfig{JWTSecret: "test", Issuer: "afterhours", TokenTTL: time.Hour}

func newTestServer(t *testing.T) (*httptest.Server, *events.Recorder) {
	t.Helper()

	repo := NewMemoryRepository()
	_, err := Seed(context.Background(), repo, ReferenceProtocols())
	require.NoError(t, err)

	rec := events.NewRecorder()
	h := NewHandler(repo, rec, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Mount("/protocols", h.Routes(auth.Middleware(authCfg), auth.RequireRoles(auth.RoleAdmin)))
	r.Get("/age-groups", h.ListAgeGroups)
	r.Get("/dosage", h.GetDosage)
	r.Get("/temperature", h.GetTemperature)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, rec
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestGetProtocol(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/protocols/fever/newborn")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p triage.Protocol
	decode(t, resp, &p)
	assert.Equal(t, triage.SymptomFever, p.Symptom)
	assert.Equal(t, "fever_temp", p.Questions[0].ID)
}

func TestGetProtocolNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/protocols/injury/toddler")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "no guidance available for this combination", body["error"])
	assert.Equal(t, "PROTOCOL_NOT_FOUND", body["code"])
}

func TestGetProtocolInvalidEnum(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/protocols/Fever/teen")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decode(t, resp, &body)
	details := body["details"].(map[string]any)
	assert.Contains(t, details, "symptom")
	assert.Contains(t, details, "ageGroup")
}

func TestListProtocols(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/protocols")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data  []triage.Protocol `json:"data"`
		Total int               `json:"total"`
	}
	decode(t, resp, &body)
	assert.Equal(t, 20, body.Total)
	assert.Len(t, body.Data, 20)
}

func TestRegisterProtocolRequiresAdmin(t *testing.T) {
	srv, _ := newTestServer(t)
	payload, _ := json.Marshal(coughChild("Is breathing hard?"))

	resp, err := http.Post(srv.URL+"/protocols", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterProtocolReplaces(t *testing.T) {
	srv, rec := newTestServer(t)
	token, err := auth.IssueToken(authCfg, "clinical-lead", []string{auth.RoleAdmin}, time.Now())
	require.NoError(t, err)

	payload, _ := json.Marshal(coughChild("Is breathing hard?"))
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/protocols", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/protocols/cough/child")
	require.NoError(t, err)
	var p triage.Protocol
	decode(t, resp, &p)
	require.Len(t, p.Questions, 1)
	assert.Equal(t, "Is breathing hard?", p.Questions[0].Text)

	published := rec.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeProtocolRegistered, published[0].Type)
}

func TestRegisterProtocolValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	token, err := auth.IssueToken(authCfg, "clinical-lead", []string{auth.RoleAdmin}, time.Now())
	require.NoError(t, err)

	bad := coughChild("q")
	bad.Questions = append(bad.Questions, triage.Question{ID: "duration", Text: "How long?", Kind: triage.KindMultipleChoice})
	payload, _ := json.Marshal(bad)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/protocols", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAgeGroups(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/age-groups")
	require.NoError(t, err)

	var body struct {
		Data []triage.AgeGroupDetails `json:"data"`
	}
	decode(t, resp, &body)
	require.Len(t, body.Data, 4)
	assert.Equal(t, "Newborn", body.Data[0].Label)
}

func TestGetDosage(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/dosage?weight=44.1&unit=lbs&medication=acetaminophen")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dose triage.Dose
	decode(t, resp, &dose)
	assert.InDelta(t, 20.0, dose.WeightKg, 1e-9)
	assert.InDelta(t, 200.0, dose.DoseMg, 1e-9)
	assert.Equal(t, "200.0mg every 4-6 hours", dose.Text)
}

func TestGetDosageDefaultsToPounds(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/dosage?weight=44.1&medication=ibuprofen")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dose triage.Dose
	decode(t, resp, &dose)
	assert.Equal(t, "100.0mg every 6-8 hours (6+ months only)", dose.Text)
}

func TestGetDosageInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, query := range []string{
		"weight=abc&medication=ibuprofen",
		"weight=0&medication=ibuprofen",
		"weight=20&unit=stone&medication=ibuprofen",
		"weight=20&medication=aspirin",
	} {
		t.Run(query, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/dosage?" + query)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body map[string]any
			decode(t, resp, &body)
			assert.Equal(t, "VALIDATION_ERROR", body["code"])
		})
	}
}

func TestGetTemperature(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		query string
		wantF float64
		wantC float64
	}{
		{"value=100.4", 100.4, 38},
		{"value=104&unit=F", 104, 40},
		{"value=39&unit=C", 102.2, 39},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/temperature?" + tt.query)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var temp triage.Temperature
			decode(t, resp, &temp)
			assert.InDelta(t, tt.wantF, temp.Fahrenheit, 1e-9)
			assert.InDelta(t, tt.wantC, temp.Celsius, 1e-9)
		})
	}
}

func TestGetTemperatureInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, query := range []string{"value=hot", "value=300&unit=K"} {
		t.Run(query, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/temperature?" + query)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
