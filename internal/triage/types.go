package triage

import "fmt"

// AgeGroup is the child's age bracket
type AgeGroup string

const (
	AgeGroupNewborn AgeGroup = "newborn"
	AgeGroupInfant  AgeGroup = "infant"
	AgeGroupToddler AgeGroup = "toddler"
	AgeGroupChild   AgeGroup = "child"
)

// AgeGroups returns every age group, youngest first
func AgeGroups() []AgeGroup {
	return []AgeGroup{AgeGroupNewborn, AgeGroupInfant, AgeGroupToddler, AgeGroupChild}
}

// Valid reports whether a is one of the fixed age groups
func (a AgeGroup) Valid() bool {
	switch a {
	case AgeGroupNewborn, AgeGroupInfant, AgeGroupToddler, AgeGroupChild:
		return true
	}
	return false
}

// ParseAgeGroup converts s to an AgeGroup. Matching is exact.
func ParseAgeGroup(s string) (AgeGroup, error) {
	a := AgeGroup(s)
	if !a.Valid() {
		return "", fmt.Errorf("invalid age group %q", s)
	}
	return a, nil
}

// Symptom is the presenting complaint
type Symptom string

const (
	SymptomFever            Symptom = "fever"
	SymptomRash             Symptom = "rash"
	SymptomCough            Symptom = "cough"
	SymptomEarPain          Symptom = "ear_pain"
	SymptomVomitingDiarrhea Symptom = "vomiting_diarrhea"
	SymptomInjury           Symptom = "injury"
	SymptomBreathing        Symptom = "breathing"
	SymptomSoreThroat       Symptom = "sore_throat"
)

// Symptoms returns every symptom
func Symptoms() []Symptom {
	return []Symptom{
		SymptomFever, SymptomRash, SymptomCough, SymptomEarPain,
		SymptomVomitingDiarrhea, SymptomInjury, SymptomBreathing, SymptomSoreThroat,
	}
}

// Valid reports whether s is one of the fixed symptoms
func (s Symptom) Valid() bool {
	switch s {
	case SymptomFever, SymptomRash, SymptomCough, SymptomEarPain,
		SymptomVomitingDiarrhea, SymptomInjury, SymptomBreathing, SymptomSoreThroat:
		return true
	}
	return false
}

// ParseSymptom converts s to a Symptom. Matching is exact.
func ParseSymptom(s string) (Symptom, error) {
	sym := Symptom(s)
	if !sym.Valid() {
		return "", fmt.Errorf("invalid symptom %q", s)
	}
	return sym, nil
}

// Urgency levels
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium" // reserved, never produced by the engine
	UrgencyHigh      Urgency = "high"
	UrgencyEmergency Urgency = "emergency"
)

// Valid reports whether u is a known urgency level
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
		return true
	}
	return false
}

// Recommendation is the action shown to the parent
type Recommendation string

const (
	RecommendationHomeCare   Recommendation = "home_care"
	RecommendationCallDoctor Recommendation = "call_doctor"
	RecommendationEmergency  Recommendation = "emergency"
)

// Valid reports whether r is a known recommendation
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationHomeCare, RecommendationCallDoctor, RecommendationEmergency:
		return true
	}
	return false
}

// QuestionKind is the input type of a question
type QuestionKind string

const (
	KindYesNo          QuestionKind = "yes_no"
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindNumber         QuestionKind = "number"
	KindText           QuestionKind = "text"
)

// Valid reports whether k is a known question kind
func (k QuestionKind) Valid() bool {
	switch k {
	case KindYesNo, KindMultipleChoice, KindNumber, KindText:
		return true
	}
	return false
}
