package assessment

import (
	"fmt"
	"time"

	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/types"
	"github.com/kidcare/afterhours/internal/triage"
)

// Assessment is one completed walkthrough. It is never updated once stored.
type Assessment struct {
	ID             types.ID              `json:"id"`
	AgeGroup       triage.AgeGroup       `json:"ageGroup"`
	Symptoms       []triage.Symptom      `json:"symptoms"`
	Responses      triage.Responses      `json:"responses"`
	Recommendation triage.Recommendation `json:"recommendation"`
	UrgencyLevel   triage.Urgency        `json:"urgencyLevel"`
	Reasoning      []string              `json:"reasoning"`
	CreatedAt      time.Time             `json:"createdAt"`

	// Tracking metadata
	SessionID             string `json:"sessionId,omitempty"`
	UserAgent             string `json:"userAgent,omitempty"`
	IPAddress             string `json:"-"`
	CompletionTimeSeconds *int   `json:"completionTimeSeconds,omitempty"`
}

// PrimarySymptom is the symptom the walkthrough was run for
func (a *Assessment) PrimarySymptom() triage.Symptom {
	if len(a.Symptoms) == 0 {
		return ""
	}
	return a.Symptoms[0]
}

// Clone returns a deep copy that shares no slices or pointers with a
func (a *Assessment) Clone() Assessment {
	out := *a
	if a.Symptoms != nil {
		out.Symptoms = make([]triage.Symptom, len(a.Symptoms))
		copy(out.Symptoms, a.Symptoms)
	}
	if a.Responses != nil {
		out.Responses = make(triage.Responses, len(a.Responses))
		copy(out.Responses, a.Responses)
	}
	if a.Reasoning != nil {
		out.Reasoning = make([]string, len(a.Reasoning))
		copy(out.Reasoning, a.Reasoning)
	}
	if a.CompletionTimeSeconds != nil {
		completion := *a.CompletionTimeSeconds
		out.CompletionTimeSeconds = &completion
	}
	return out
}

// CreateRequest is the body of POST /assessments. Recommendation and
// UrgencyLevel may be sent by older clients; they are ignored and the
// server classifies the responses itself.
type CreateRequest struct {
	AgeGroup              string           `json:"ageGroup"`
	Symptoms              []string         `json:"symptoms"`
	Responses             triage.Responses `json:"responses"`
	SessionID             string           `json:"sessionId,omitempty"`
	CompletionTimeSeconds *int             `json:"completionTimeSeconds,omitempty"`
	Recommendation        string           `json:"recommendation,omitempty"`
	UrgencyLevel          string           `json:"urgencyLevel,omitempty"`
}

// Validate checks the enums and tracking fields and returns the parsed
// values.
func (r CreateRequest) Validate() (triage.AgeGroup, []triage.Symptom, error) {
	details := map[string]string{}

	ageGroup, err := triage.ParseAgeGroup(r.AgeGroup)
	if err != nil {
		details["ageGroup"] = err.Error()
	}

	var symptoms []triage.Symptom
	if len(r.Symptoms) == 0 {
		details["symptoms"] = "at least one symptom is required"
	}
	seen := make(map[triage.Symptom]bool, len(r.Symptoms))
	for i, s := range r.Symptoms {
		sym, err := triage.ParseSymptom(s)
		if err != nil {
			details[fmt.Sprintf("symptoms[%d]", i)] = err.Error()
			continue
		}
		if seen[sym] {
			details[fmt.Sprintf("symptoms[%d]", i)] = "duplicate symptom"
			continue
		}
		seen[sym] = true
		symptoms = append(symptoms, sym)
	}

	for i, resp := range r.Responses {
		if resp.QuestionID == "" {
			details[fmt.Sprintf("responses[%d].questionId", i)] = "question id is required"
		}
	}

	if r.CompletionTimeSeconds != nil && *r.CompletionTimeSeconds < 0 {
		details["completionTimeSeconds"] = "must not be negative"
	}
	if len(r.SessionID) > 128 {
		details["sessionId"] = "must be at most 128 characters"
	}

	if len(details) > 0 {
		return "", nil, errors.Validation("invalid assessment", details)
	}
	return ageGroup, symptoms, nil
}

// ClassifyRequest is the body of POST /classify
type ClassifyRequest struct {
	Symptom   string           `json:"symptom"`
	AgeGroup  string           `json:"ageGroup"`
	Responses triage.Responses `json:"responses"`
}

// RequestMeta carries tracking data taken from the HTTP request
type RequestMeta struct {
	UserAgent string
	IPAddress string
}
