package triage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the arm held by a ResponseValue
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueBool
	ValueNumber
	ValueText
)

func (k ValueKind) String() string {
	switch k {
	case ValueBool:
		return "bool"
	case ValueNumber:
		return "number"
	case ValueText:
		return "text"
	}
	return "none"
}

// ResponseValue is an answer normalized to one of Bool, Number or Text.
// The zero value holds nothing and matches no rule.
type ResponseValue struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
}

// Bool wraps a yes/no answer
func Bool(b bool) ResponseValue { return ResponseValue{kind: ValueBool, b: b} }

// Number wraps a numeric answer
func Number(n float64) ResponseValue { return ResponseValue{kind: ValueNumber, n: n} }

// Text wraps a free-text or multiple-choice answer
func Text(s string) ResponseValue { return ResponseValue{kind: ValueText, s: s} }

// Kind returns which arm is set
func (v ResponseValue) Kind() ValueKind { return v.kind }

// IsZero reports whether the value holds nothing
func (v ResponseValue) IsZero() bool { return v.kind == ValueNone }

// AsBool returns the boolean arm
func (v ResponseValue) AsBool() (bool, bool) {
	return v.b, v.kind == ValueBool
}

// AsNumber returns the value as a number. Text holding a decimal number
// (surrounding spaces allowed) converts; booleans do not.
func (v ResponseValue) AsNumber() (float64, bool) {
	switch v.kind {
	case ValueNumber:
		return v.n, true
	case ValueText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// AsText returns the text arm
func (v ResponseValue) AsText() (string, bool) {
	return v.s, v.kind == ValueText
}

// Equals reports an exact, case-sensitive match against a text answer
func (v ResponseValue) Equals(text string) bool {
	return v.kind == ValueText && v.s == text
}

// IsAffirmative is true for Bool(true) or Text("yes")
func (v ResponseValue) IsAffirmative() bool {
	return (v.kind == ValueBool && v.b) || v.Equals("yes")
}

// IsNegative is true for Bool(false) or Text("no")
func (v ResponseValue) IsNegative() bool {
	return (v.kind == ValueBool && !v.b) || v.Equals("no")
}

// AtLeast reports whether the numeric reading is >= threshold
func (v ResponseValue) AtLeast(threshold float64) bool {
	n, ok := v.AsNumber()
	return ok && n >= threshold
}

func (v ResponseValue) String() string {
	switch v.kind {
	case ValueBool:
		return strconv.FormatBool(v.b)
	case ValueNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case ValueText:
		return v.s
	}
	return ""
}

// MarshalJSON writes the held arm as a JSON bool, number or string
func (v ResponseValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueBool:
		return json.Marshal(v.b)
	case ValueNumber:
		return json.Marshal(v.n)
	case ValueText:
		return json.Marshal(v.s)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a JSON bool, number, string or null
func (v *ResponseValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = ResponseValue{}
		return nil
	}

	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '{', '[':
		return fmt.Errorf("response value must be a bool, number or string")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid response value: %w", err)
		}
		*v = Number(n)
	}
	return nil
}

// SymptomResponse is the answer to one question
type SymptomResponse struct {
	QuestionID string        `json:"questionId"`
	Value      ResponseValue `json:"value"`
}

// Responses is a response set in answer order
type Responses []SymptomResponse

// Lookup returns the first answer recorded for questionID
func (r Responses) Lookup(questionID string) (ResponseValue, bool) {
	for _, resp := range r {
		if resp.QuestionID == questionID {
			return resp.Value, true
		}
	}
	return ResponseValue{}, false
}

// Value returns the first answer for questionID, or the zero value
func (r Responses) Value(questionID string) ResponseValue {
	v, _ := r.Lookup(questionID)
	return v
}

// Normalize collapses repeated answers to one per question. A later answer
// overwrites an earlier one but keeps the earlier position.
func (r Responses) Normalize() Responses {
	out := make(Responses, 0, len(r))
	index := make(map[string]int, len(r))
	for _, resp := range r {
		if i, ok := index[resp.QuestionID]; ok {
			out[i].Value = resp.Value
			continue
		}
		index[resp.QuestionID] = len(out)
		out = append(out, resp)
	}
	return out
}
