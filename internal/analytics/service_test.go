package analytics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kidcare/afterhours/internal/assessment"
	apperrors "github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/types"
	"github.com/kidcare/afterhours/internal/triage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger, WithClock(func() time.Time { return reportNow }))
}

func stored(created time.Time, rec triage.Recommendation, symptom triage.Symptom) *assessment.Assessment {
	return &assessment.Assessment{
		ID:             types.NewID(),
		AgeGroup:       triage.AgeGroupToddler,
		Symptoms:       []triage.Symptom{symptom},
		Recommendation: rec,
		CreatedAt:      created,
	}
}

func TestDeltaForUsesUTCKeys(t *testing.T) {
	// 23:30 in New York on March 31 is already April 1 in UTC
	est := time.FixedZone("EDT", -4*3600)
	a := stored(time.Date(2024, 3, 31, 23, 30, 0, 0, est), triage.RecommendationCallDoctor, triage.SymptomRash)

	d := DeltaFor(a)
	if d.Date != "2024-04-01" {
		t.Errorf("Expected date 2024-04-01, got %s", d.Date)
	}
	if d.Month != "2024-04" {
		t.Errorf("Expected month 2024-04, got %s", d.Month)
	}
	if d.Symptom != "rash" || d.AgeGroup != "toddler" {
		t.Errorf("Expected rash/toddler, got %s/%s", d.Symptom, d.AgeGroup)
	}

	a.Symptoms = nil
	if got := DeltaFor(a).Symptom; got != "unknown" {
		t.Errorf("Expected unknown symptom, got %s", got)
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		part, total int
		want        string
	}{
		{0, 0, "0%"},
		{1, 8, "12.5%"},
		{2, 3, "66.7%"},
		{5, 5, "100.0%"},
		{0, 4, "0.0%"},
	}
	for _, tt := range tests {
		if got := Rate(tt.part, tt.total); got != tt.want {
			t.Errorf("Rate(%d, %d): expected %s, got %s", tt.part, tt.total, tt.want, got)
		}
	}
}

func TestUsageReport(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository())

	records := []*assessment.Assessment{
		stored(reportNow.AddDate(0, 0, -1), triage.RecommendationHomeCare, triage.SymptomFever),
		stored(reportNow.AddDate(0, 0, -1), triage.RecommendationEmergency, triage.SymptomFever),
		stored(reportNow, triage.RecommendationCallDoctor, triage.SymptomCough),
		stored(reportNow.AddDate(0, 0, -30), triage.RecommendationHomeCare, triage.SymptomRash),
		stored(reportNow.AddDate(0, 0, -31), triage.RecommendationHomeCare, triage.SymptomRash),
	}
	for _, a := range records {
		require.NoError(t, svc.RecordAssessment(ctx, a))
	}

	report, err := svc.UsageReport(ctx, 30)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-16 to 2024-06-15", report.Period)
	assert.Equal(t, UsageSummary{
		TotalAssessments:          4,
		EmergencyRecommendations:  1,
		CallDoctorRecommendations: 1,
		HomeCareRecommendations:   2,
	}, report.Summary)
	assert.Len(t, report.DailyData, 3)
	assert.Equal(t, "50.0%", report.CallReductionRate)
}

func TestUsageReportEmpty(t *testing.T) {
	svc := newTestService(NewMemoryRepository())

	report, err := svc.UsageReport(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "0%", report.CallReductionRate)
	assert.NotNil(t, report.DailyData)
	assert.Empty(t, report.DailyData)
}

func TestCallReductionReport(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository())

	records := []*assessment.Assessment{
		stored(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), triage.RecommendationHomeCare, triage.SymptomFever),
		stored(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), triage.RecommendationEmergency, triage.SymptomFever),
		stored(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), triage.RecommendationHomeCare, triage.SymptomCough),
		stored(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), triage.RecommendationCallDoctor, triage.SymptomCough),
	}
	for _, a := range records {
		require.NoError(t, svc.RecordAssessment(ctx, a))
	}

	report, err := svc.CallReductionReport(ctx, 6)
	require.NoError(t, err)

	assert.Equal(t, "Last 6 months", report.Timeframe)
	assert.Equal(t, CallReductionSummary{
		TotalAssessments:               3,
		EstimatedCallsAvoided:          2,
		PotentialEmergenciesIdentified: 1,
	}, report.TotalSummary)
	require.Len(t, report.MonthlyData, 3)
	assert.Equal(t, "2024-01", report.MonthlyData[0].Month)
	assert.Equal(t, "66.7%", report.ImpactMetrics.CallReductionRate)
	assert.Equal(t, "33.3%", report.ImpactMetrics.EmergencyDetectionRate)
}

func TestReportWindowValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository())

	_, err := svc.UsageReport(ctx, 0)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.CallReductionReport(ctx, -1)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(NewMemoryRepository())
	require.NoError(t, svc.RecordAssessment(ctx, stored(reportNow, triage.RecommendationHomeCare, triage.SymptomFever)))

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.Last30Days.Summary.TotalAssessments)
	assert.Equal(t, "Last 6 months", dashboard.Last6Months.Timeframe)
	assert.Equal(t, reportNow, dashboard.Generated)
}

type failingRepository struct{ Repository }

func (failingRepository) Increment(ctx context.Context, d Delta) error {
	return errors.New("disk full")
}

func TestRecordAssessmentReturnsStoreError(t *testing.T) {
	svc := newTestService(failingRepository{NewMemoryRepository()})

	err := svc.RecordAssessment(context.Background(), stored(reportNow, triage.RecommendationHomeCare, triage.SymptomFever))
	if err == nil {
		t.Fatal("Expected error from failing store")
	}
}
