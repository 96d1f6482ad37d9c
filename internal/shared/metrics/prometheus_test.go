package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/assessments/{assessmentID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/assessments/{assessmentID}", "404"))
	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/assessments/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/assessments/{assessmentID}", "404"))

	if after-before != 3 {
		t.Errorf("Expected 3 requests under one route label, got %v", after-before)
	}
}

func TestRecordHelpers(t *testing.T) {
	hits := testutil.ToFloat64(protocolLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(protocolLookups.WithLabelValues("miss"))
	RecordProtocolLookup(true)
	RecordProtocolLookup(false)
	RecordProtocolLookup(false)

	if got := testutil.ToFloat64(protocolLookups.WithLabelValues("hit")) - hits; got != 1 {
		t.Errorf("Expected 1 hit, got %v", got)
	}
	if got := testutil.ToFloat64(protocolLookups.WithLabelValues("miss")) - misses; got != 2 {
		t.Errorf("Expected 2 misses, got %v", got)
	}

	none := testutil.ToFloat64(classifications.WithLabelValues("low", "none"))
	RecordClassification("low", "")
	if got := testutil.ToFloat64(classifications.WithLabelValues("low", "none")) - none; got != 1 {
		t.Errorf("Expected unnamed rule to count as none, got %v", got)
	}

	failures := testutil.ToFloat64(analyticsUpdateFailures)
	RecordAnalyticsFailure()
	if got := testutil.ToFloat64(analyticsUpdateFailures) - failures; got != 1 {
		t.Errorf("Expected 1 analytics failure, got %v", got)
	}
}
