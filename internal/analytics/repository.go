package analytics

import (
	"context"
	"sort"
	"sync"

	"github.com/kidcare/afterhours/internal/triage"
)

// Repository persists the aggregate counters. Increment must be atomic per delta.
type Repository interface {
	Increment(ctx context.Context, d Delta) error
	// DailyRange returns days in [start, end] (inclusive, YYYY-MM-DD) that have data, oldest first.
	DailyRange(ctx context.Context, start, end string) ([]DailyUsage, error)
	// MonthlyRange returns months in [start, end] (inclusive, YYYY-MM) that have data, oldest first.
	MonthlyRange(ctx context.Context, start, end string) ([]MonthlyCallReduction, error)
}

// MemoryRepository keeps counters in process memory
type MemoryRepository struct {
	mu      sync.Mutex
	daily   map[string]*DailyUsage
	monthly map[string]*MonthlyCallReduction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		daily:   make(map[string]*DailyUsage),
		monthly: make(map[string]*MonthlyCallReduction),
	}
}

func (r *MemoryRepository) Increment(ctx context.Context, d Delta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day, ok := r.daily[d.Date]
	if !ok {
		day = &DailyUsage{Date: d.Date}
		r.daily[d.Date] = day
	}
	day.apply(d)

	month, ok := r.monthly[d.Month]
	if !ok {
		month = &MonthlyCallReduction{Month: d.Month}
		r.monthly[d.Month] = month
	}
	month.apply(d)
	return nil
}

func (r *MemoryRepository) DailyRange(ctx context.Context, start, end string) ([]DailyUsage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []DailyUsage
	for date, day := range r.daily {
		if date >= start && date <= end {
			out = append(out, day.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *MemoryRepository) MonthlyRange(ctx context.Context, start, end string) ([]MonthlyCallReduction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []MonthlyCallReduction
	for month, m := range r.monthly {
		if month >= start && month <= end {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

var _ Repository = (*MemoryRepository)(nil)

// rowIterator is the subset of pgx.Rows and *sql.Rows the scanners need.
type rowIterator interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDays(rows rowIterator) ([]DailyUsage, error) {
	var days []DailyUsage
	for rows.Next() {
		var d DailyUsage
		if err := rows.Scan(
			&d.Date, &d.TotalAssessments, &d.EmergencyRecommendations,
			&d.CallDoctorRecommendations, &d.HomeCareRecommendations,
			&d.completionTotal, &d.completionCount,
		); err != nil {
			return nil, err
		}
		d.TopSymptoms = map[string]int{}
		d.TopAgeGroups = map[string]int{}
		d.fillAverage()
		days = append(days, d)
	}
	return days, rows.Err()
}

// scanHistogram adds (date, key, count) rows into the matching day's map.
func scanHistogram(rows rowIterator, days []DailyUsage, pick func(*DailyUsage) map[string]int) error {
	index := make(map[string]*DailyUsage, len(days))
	for i := range days {
		index[days[i].Date] = &days[i]
	}
	for rows.Next() {
		var (
			date, key string
			count     int
		)
		if err := rows.Scan(&date, &key, &count); err != nil {
			return err
		}
		if d, ok := index[date]; ok {
			pick(d)[key] = count
		}
	}
	return rows.Err()
}

func scanMonths(rows rowIterator) ([]MonthlyCallReduction, error) {
	var months []MonthlyCallReduction
	for rows.Next() {
		var m MonthlyCallReduction
		if err := rows.Scan(&m.Month, &m.TotalAssessments, &m.EstimatedCallsAvoided, &m.PotentialEmergenciesIdentified); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

func symptomsOf(d *DailyUsage) map[string]int  { return d.TopSymptoms }
func ageGroupsOf(d *DailyUsage) map[string]int { return d.TopAgeGroups }

// columns returns the per-recommendation increments and completion-time increments for d.
func (d Delta) columns() (emergency, callDoctor, homeCare int, completionTotal int64, completionCount int) {
	switch d.Recommendation {
	case triage.RecommendationEmergency:
		emergency = 1
	case triage.RecommendationCallDoctor:
		callDoctor = 1
	case triage.RecommendationHomeCare:
		homeCare = 1
	}
	if d.CompletionTimeSeconds != nil {
		completionTotal = int64(*d.CompletionTimeSeconds)
		completionCount = 1
	}
	return
}
