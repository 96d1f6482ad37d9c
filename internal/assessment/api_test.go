package assessment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kidcare/afterhours/internal/shared/middleware"
	"github.com/kidcare/afterhours/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, limiter *middleware.IPRateLimiter) (http.Handler, *Service) {
	t.Helper()
	svc, _ := newService(t, &fakeAnalytics{}, nil)
	h := NewHandler(svc)

	r := chi.NewRouter()
	if limiter != nil {
		r.Mount("/assessments", h.Routes(limiter.Middleware))
	} else {
		r.Mount("/assessments", h.Routes())
	}
	r.Post("/classify", h.Classify)
	return r, svc
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "triage-test/1.0")
	req.RemoteAddr = "198.51.100.4:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndFetchAssessment(t *testing.T) {
	h, svc := newRouter(t, nil)

	rec := post(t, h, "/assessments", `{
		"ageGroup": "infant",
		"symptoms": ["fever"],
		"responses": [
			{"questionId": "fever_temp", "value": 99.5},
			{"questionId": "behavior", "value": "Normal"}
		],
		"sessionId": "abc",
		"completionTimeSeconds": 61
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	svc.Wait()

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "home_care", created["recommendation"])
	assert.Equal(t, "low", created["urgencyLevel"])
	assert.Equal(t, "triage-test/1.0", created["userAgent"])
	assert.NotContains(t, created, "ipAddress")

	get := httptest.NewRequest(http.MethodGet, "/assessments/"+created["id"].(string), nil)
	getRec := httptest.NewRecorder()
	h.ServeHTTP(getRec, get)
	require.Equal(t, http.StatusOK, getRec.Code)

	var fetched Assessment
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &fetched))
	assert.Equal(t, triage.RecommendationHomeCare, fetched.Recommendation)
	assert.True(t, fetched.Responses.Value("fever_temp").AtLeast(99.5))
}

func TestCreateAssessmentErrors(t *testing.T) {
	h, _ := newRouter(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"ageGroup":`, http.StatusBadRequest},
		{"object as value", `{"ageGroup":"child","symptoms":["fever"],"responses":[{"questionId":"behavior","value":{"x":1}}]}`, http.StatusBadRequest},
		{"invalid enum", `{"ageGroup":"teen","symptoms":["fever"]}`, http.StatusBadRequest},
		{"no protocol", `{"ageGroup":"child","symptoms":["sore_throat"]}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/assessments", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestGetAssessmentBadID(t *testing.T) {
	h, _ := newRouter(t, nil)

	for path, status := range map[string]int{
		"/assessments/42": http.StatusBadRequest,
		"/assessments/3f2504e0-4f89-11d3-9a0c-0305e82c3301": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, rec.Code, path)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	h, _ := newRouter(t, nil)

	rec := post(t, h, "/classify", `{
		"symptom": "rash",
		"ageGroup": "toddler",
		"responses": [{"questionId": "spreading", "value": "Rapidly spreading"}]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result triage.Classification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, triage.UrgencyEmergency, result.Urgency)
	assert.Equal(t, "rash.rapid_spread", result.Rule)
}

func TestCreateAssessmentRateLimited(t *testing.T) {
	h, svc := newRouter(t, middleware.NewIPRateLimiter(1, 1))
	body := `{"ageGroup":"child","symptoms":["cough"],"responses":[]}`

	first := post(t, h, "/assessments", body)
	second := post(t, h, "/assessments", body)
	svc.Wait()

	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
