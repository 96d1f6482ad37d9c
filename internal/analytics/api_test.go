package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kidcare/afterhours/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsEndpoints(t *testing.T) {
	svc := newTestService(NewMemoryRepository())
	require.NoError(t, svc.RecordAssessment(context.Background(), stored(reportNow, triage.RecommendationEmergency, triage.SymptomFever)))
	router := NewHandler(svc).Routes()

	tests := []struct {
		path   string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{"/dashboard", http.StatusOK, func(t *testing.T, body map[string]any) {
			assert.Contains(t, body, "last30Days")
			assert.Contains(t, body, "last6Months")
			assert.Contains(t, body, "generated")
		}},
		{"/usage?days=7", http.StatusOK, func(t *testing.T, body map[string]any) {
			assert.Equal(t, "2024-06-08 to 2024-06-15", body["period"])
			assert.Equal(t, "0.0%", body["callReductionRate"])
		}},
		{"/call-reduction", http.StatusOK, func(t *testing.T, body map[string]any) {
			assert.Equal(t, "Last 12 months", body["timeframe"])
			impact := body["impactMetrics"].(map[string]any)
			assert.Equal(t, "100.0%", impact["emergencyDetectionRate"])
		}},
		{"/usage?days=abc", http.StatusBadRequest, nil},
		{"/call-reduction?months=0", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}
