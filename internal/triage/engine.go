package triage

import "sort"

// Tier is a priority level of the classification table. Lower tiers are
// evaluated first.
type Tier int

const (
	TierEmergency Tier = iota
	TierCallDoctor
	TierHomeCare
)

// Reasoning lines written for each tier
const (
	ReasonEmergency  = "Emergency conditions detected requiring immediate medical attention"
	ReasonCallDoctor = "Symptoms warrant professional medical evaluation"
	ReasonHomeCare   = "Symptoms can likely be managed with home care"
)

func (t Tier) outcome() (Urgency, Recommendation, string) {
	switch t {
	case TierEmergency:
		return UrgencyEmergency, RecommendationEmergency, ReasonEmergency
	case TierCallDoctor:
		return UrgencyHigh, RecommendationCallDoctor, ReasonCallDoctor
	}
	return UrgencyLow, RecommendationHomeCare, ReasonHomeCare
}

// Input is what a rule predicate sees
type Input struct {
	Symptom   Symptom
	AgeGroup  AgeGroup
	Responses Responses
}

// Answer returns the first response for questionID, or the zero value
func (in Input) Answer(questionID string) ResponseValue {
	return in.Responses.Value(questionID)
}

// Rule is one named trigger in the classification table. Empty Symptom or
// AgeGroup means the rule applies to every symptom or age group.
type Rule struct {
	Name     string
	Tier     Tier
	Symptom  Symptom
	AgeGroup AgeGroup
	Reason   string
	Matches  func(Input) bool
}

func (r Rule) appliesTo(in Input) bool {
	if r.Symptom != "" && r.Symptom != in.Symptom {
		return false
	}
	if r.AgeGroup != "" && r.AgeGroup != in.AgeGroup {
		return false
	}
	return r.Matches != nil
}

// Classification is the engine's verdict
type Classification struct {
	Urgency        Urgency        `json:"urgency"`
	Recommendation Recommendation `json:"recommendation"`
	Reasoning      []string       `json:"reasoning"`
	Rule           string         `json:"rule,omitempty"`
}

// Engine evaluates an ordered rule table, first match wins
type Engine struct {
	rules []Rule
}

// NewEngine builds an engine over rules. Rules are grouped by tier, keeping
// their relative order within a tier.
func NewEngine(rules []Rule) *Engine {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Tier < ordered[j].Tier
	})
	return &Engine{rules: ordered}
}

// Rules returns the evaluation order
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Classify maps a response set to an urgency, a recommendation and the
// reasoning behind it. Missing or mistyped answers never match.
func (e *Engine) Classify(symptom Symptom, ageGroup AgeGroup, responses Responses) Classification {
	in := Input{Symptom: symptom, AgeGroup: ageGroup, Responses: responses}

	for _, rule := range e.rules {
		if !rule.appliesTo(in) || !rule.Matches(in) {
			continue
		}
		urgency, rec, line := rule.Tier.outcome()
		reasoning := []string{line}
		if rule.Reason != "" {
			reasoning = append(reasoning, rule.Reason)
		}
		return Classification{
			Urgency:        urgency,
			Recommendation: rec,
			Reasoning:      reasoning,
			Rule:           rule.Name,
		}
	}

	urgency, rec, line := TierHomeCare.outcome()
	return Classification{
		Urgency:        urgency,
		Recommendation: rec,
		Reasoning:      []string{line},
	}
}

var defaultEngine = NewEngine(DefaultRules())

// Classify runs the default rule table
func Classify(symptom Symptom, ageGroup AgeGroup, responses Responses) Classification {
	return defaultEngine.Classify(symptom, ageGroup, responses)
}

// DefaultEngine returns the engine built from DefaultRules
func DefaultEngine() *Engine {
	return defaultEngine
}
