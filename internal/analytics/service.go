package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kidcare/afterhours/internal/assessment"
	"github.com/kidcare/afterhours/internal/shared/errors"
)

// Report window defaults
const (
	DefaultUsageDays           = 30
	DefaultCallReductionMonths = 12
	DashboardMonths            = 6

	maxUsageDays           = 366
	maxCallReductionMonths = 60
)

// Service aggregates stored assessments and builds reports over the counters.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the report clock
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{repo: repo, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeltaFor builds the counter change for a. Partition keys come from the
// assessment's own creation time in UTC.
func DeltaFor(a *assessment.Assessment) Delta {
	created := a.CreatedAt.UTC()
	symptom := string(a.PrimarySymptom())
	if symptom == "" {
		symptom = "unknown"
	}
	return Delta{
		Date:                  created.Format(DayLayout),
		Month:                 created.Format(MonthLayout),
		Recommendation:        a.Recommendation,
		Symptom:               symptom,
		AgeGroup:              string(a.AgeGroup),
		CompletionTimeSeconds: a.CompletionTimeSeconds,
	}
}

// RecordAssessment folds one stored assessment into the daily and monthly counters.
func (s *Service) RecordAssessment(ctx context.Context, a *assessment.Assessment) error {
	d := DeltaFor(a)
	if err := s.repo.Increment(ctx, d); err != nil {
		return err
	}
	s.logger.Debug("analytics updated", "assessment_id", a.ID, "date", d.Date, "recommendation", d.Recommendation)
	return nil
}

// UsageReport sums daily counters from days ago through today.
func (s *Service) UsageReport(ctx context.Context, days int) (*UsageReport, error) {
	if days <= 0 || days > maxUsageDays {
		return nil, errors.Validation("invalid report window", map[string]string{
			"days": fmt.Sprintf("must be between 1 and %d", maxUsageDays),
		})
	}

	today := s.now().UTC()
	start := today.AddDate(0, 0, -days).Format(DayLayout)
	end := today.Format(DayLayout)

	data, err := s.repo.DailyRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &UsageReport{
		Period:    fmt.Sprintf("%s to %s", start, end),
		DailyData: data,
	}
	if report.DailyData == nil {
		report.DailyData = []DailyUsage{}
	}
	for _, d := range data {
		report.Summary.TotalAssessments += d.TotalAssessments
		report.Summary.EmergencyRecommendations += d.EmergencyRecommendations
		report.Summary.CallDoctorRecommendations += d.CallDoctorRecommendations
		report.Summary.HomeCareRecommendations += d.HomeCareRecommendations
	}
	report.CallReductionRate = Rate(report.Summary.HomeCareRecommendations, report.Summary.TotalAssessments)
	return report, nil
}

// CallReductionReport sums monthly counters for the current month and the months-1 before it.
func (s *Service) CallReductionReport(ctx context.Context, months int) (*CallReductionReport, error) {
	if months <= 0 || months > maxCallReductionMonths {
		return nil, errors.Validation("invalid report window", map[string]string{
			"months": fmt.Sprintf("must be between 1 and %d", maxCallReductionMonths),
		})
	}

	now := s.now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := current.AddDate(0, -(months - 1), 0).Format(MonthLayout)
	end := current.Format(MonthLayout)

	data, err := s.repo.MonthlyRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	report := &CallReductionReport{
		Timeframe:   fmt.Sprintf("Last %d months", months),
		MonthlyData: data,
	}
	if report.MonthlyData == nil {
		report.MonthlyData = []MonthlyCallReduction{}
	}
	for _, m := range data {
		report.TotalSummary.TotalAssessments += m.TotalAssessments
		report.TotalSummary.EstimatedCallsAvoided += m.EstimatedCallsAvoided
		report.TotalSummary.PotentialEmergenciesIdentified += m.PotentialEmergenciesIdentified
	}
	total := report.TotalSummary
	report.ImpactMetrics = ImpactMetrics{
		CallReductionRate:      Rate(total.EstimatedCallsAvoided, total.TotalAssessments),
		EmergencyDetectionRate: Rate(total.PotentialEmergenciesIdentified, total.TotalAssessments),
	}
	return report, nil
}

// Dashboard builds the 30-day usage and 6-month call-reduction views.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	usage, err := s.UsageReport(ctx, DefaultUsageDays)
	if err != nil {
		return nil, err
	}
	calls, err := s.CallReductionReport(ctx, DashboardMonths)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Last30Days:  *usage,
		Last6Months: *calls,
		Generated:   s.now().UTC(),
	}, nil
}

var _ assessment.AnalyticsRecorder = (*Service)(nil)
