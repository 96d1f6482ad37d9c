package triage

import (
	"fmt"
	"strings"
)

// Critical marks a numeric answer at or above Threshold as worth a UI warning.
// The urgency engine does not read it.
type Critical struct {
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"`
}

// Question is one step in a protocol walkthrough
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Kind     QuestionKind `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Unit     string       `json:"unit,omitempty"`
	Critical *Critical    `json:"critical,omitempty"`
}

// Validate checks the question is well formed
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question id is required")
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question %s: text is required", q.ID)
	}
	if !q.Kind.Valid() {
		return fmt.Errorf("question %s: invalid type %q", q.ID, q.Kind)
	}
	if q.Kind == KindMultipleChoice && len(q.Options) == 0 {
		return fmt.Errorf("question %s: multiple_choice requires options", q.ID)
	}
	return nil
}

// Guidelines are display-only trigger lists shown next to a result
type Guidelines struct {
	Emergency  []string `json:"emergency"`
	CallDoctor []string `json:"call_doctor"`
	HomeCare   []string `json:"home_care"`
}

// Protocol is the question sequence and guideline text for one
// (symptom, age group) pair
type Protocol struct {
	Symptom    Symptom    `json:"symptom"`
	AgeGroup   AgeGroup   `json:"ageGroup"`
	Questions  []Question `json:"questions"`
	Guidelines Guidelines `json:"guidelines"`
}

// ProtocolKey is the store key for a pair, e.g. "fever-newborn"
func ProtocolKey(symptom Symptom, ageGroup AgeGroup) string {
	return string(symptom) + "-" + string(ageGroup)
}

// Key returns the protocol's store key
func (p Protocol) Key() string {
	return ProtocolKey(p.Symptom, p.AgeGroup)
}

// Question returns the question with the given id
func (p Protocol) Question(id string) (Question, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Validate checks enums, question shape and id uniqueness
func (p Protocol) Validate() error {
	if !p.Symptom.Valid() {
		return fmt.Errorf("invalid symptom %q", p.Symptom)
	}
	if !p.AgeGroup.Valid() {
		return fmt.Errorf("invalid age group %q", p.AgeGroup)
	}
	if len(p.Questions) == 0 {
		return fmt.Errorf("protocol %s has no questions", p.Key())
	}

	seen := make(map[string]bool, len(p.Questions))
	for _, q := range p.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("protocol %s: %w", p.Key(), err)
		}
		if seen[q.ID] {
			return fmt.Errorf("protocol %s: duplicate question id %s", p.Key(), q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

// Clone returns a deep copy so stored protocols cannot be changed through
// slices held by a caller.
func (p Protocol) Clone() Protocol {
	out := p
	out.Questions = make([]Question, len(p.Questions))
	for i, q := range p.Questions {
		q.Options = cloneStrings(q.Options)
		if q.Critical != nil {
			c := *q.Critical
			q.Critical = &c
		}
		out.Questions[i] = q
	}
	out.Guidelines = Guidelines{
		Emergency:  cloneStrings(p.Guidelines.Emergency),
		CallDoctor: cloneStrings(p.Guidelines.CallDoctor),
		HomeCare:   cloneStrings(p.Guidelines.HomeCare),
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
