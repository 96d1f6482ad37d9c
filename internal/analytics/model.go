package analytics

import (
	"fmt"
	"time"

	"github.com/kidcare/afterhours/internal/triage"
)

// Partition key layouts, always in UTC
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// Delta is the counter change produced by one stored assessment.
type Delta struct {
	Date                  string
	Month                 string
	Recommendation        triage.Recommendation
	Symptom               string
	AgeGroup              string
	CompletionTimeSeconds *int
}

// DailyUsage is the per-day counter row
type DailyUsage struct {
	Date                      string         `json:"date"`
	TotalAssessments          int            `json:"totalAssessments"`
	EmergencyRecommendations  int            `json:"emergencyRecommendations"`
	CallDoctorRecommendations int            `json:"callDoctorRecommendations"`
	HomeCareRecommendations   int            `json:"homeCareRecommendations"`
	TopSymptoms               map[string]int `json:"topSymptoms"`
	TopAgeGroups              map[string]int `json:"topAgeGroups"`
	AvgCompletionTime         *int           `json:"avgCompletionTime"`

	completionTotal int64
	completionCount int64
}

func (d *DailyUsage) apply(delta Delta) {
	d.TotalAssessments++
	switch delta.Recommendation {
	case triage.RecommendationEmergency:
		d.EmergencyRecommendations++
	case triage.RecommendationCallDoctor:
		d.CallDoctorRecommendations++
	case triage.RecommendationHomeCare:
		d.HomeCareRecommendations++
	}
	if d.TopSymptoms == nil {
		d.TopSymptoms = map[string]int{}
	}
	if d.TopAgeGroups == nil {
		d.TopAgeGroups = map[string]int{}
	}
	d.TopSymptoms[delta.Symptom]++
	d.TopAgeGroups[delta.AgeGroup]++
	if delta.CompletionTimeSeconds != nil {
		d.completionTotal += int64(*delta.CompletionTimeSeconds)
		d.completionCount++
	}
	d.fillAverage()
}

// fillAverage derives AvgCompletionTime from the running total and count.
func (d *DailyUsage) fillAverage() {
	if d.completionCount == 0 {
		d.AvgCompletionTime = nil
		return
	}
	avg := int((d.completionTotal + d.completionCount/2) / d.completionCount)
	d.AvgCompletionTime = &avg
}

func (d DailyUsage) clone() DailyUsage {
	out := d
	out.TopSymptoms = cloneCounts(d.TopSymptoms)
	out.TopAgeGroups = cloneCounts(d.TopAgeGroups)
	if d.AvgCompletionTime != nil {
		avg := *d.AvgCompletionTime
		out.AvgCompletionTime = &avg
	}
	return out
}

func cloneCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MonthlyCallReduction is the per-month counter row
type MonthlyCallReduction struct {
	Month                          string `json:"month"`
	TotalAssessments               int    `json:"totalAssessments"`
	EstimatedCallsAvoided          int    `json:"estimatedCallsAvoided"`
	PotentialEmergenciesIdentified int    `json:"potentialEmergenciesIdentified"`
}

func (m *MonthlyCallReduction) apply(delta Delta) {
	m.TotalAssessments++
	switch delta.Recommendation {
	case triage.RecommendationHomeCare:
		m.EstimatedCallsAvoided++
	case triage.RecommendationEmergency:
		m.PotentialEmergenciesIdentified++
	}
}

type UsageSummary struct {
	TotalAssessments          int `json:"totalAssessments"`
	EmergencyRecommendations  int `json:"emergencyRecommendations"`
	CallDoctorRecommendations int `json:"callDoctorRecommendations"`
	HomeCareRecommendations   int `json:"homeCareRecommendations"`
}

type UsageReport struct {
	Period            string       `json:"period"`
	Summary           UsageSummary `json:"summary"`
	DailyData         []DailyUsage `json:"dailyData"`
	CallReductionRate string       `json:"callReductionRate"`
}

type CallReductionSummary struct {
	TotalAssessments               int `json:"totalAssessments"`
	EstimatedCallsAvoided          int `json:"estimatedCallsAvoided"`
	PotentialEmergenciesIdentified int `json:"potentialEmergenciesIdentified"`
}

type ImpactMetrics struct {
	CallReductionRate      string `json:"callReductionRate"`
	EmergencyDetectionRate string `json:"emergencyDetectionRate"`
}

type CallReductionReport struct {
	Timeframe     string                 `json:"timeframe"`
	TotalSummary  CallReductionSummary   `json:"totalSummary"`
	MonthlyData   []MonthlyCallReduction `json:"monthlyData"`
	ImpactMetrics ImpactMetrics          `json:"impactMetrics"`
}

// Dashboard combines the default usage and call-reduction windows
type Dashboard struct {
	Last30Days  UsageReport         `json:"last30Days"`
	Last6Months CallReductionReport `json:"last6Months"`
	Generated   time.Time           `json:"generated"`
}

// Rate formats part/total as a percentage with one decimal, "0%" when total is 0.
func Rate(part, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}
