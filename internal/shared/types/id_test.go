package types

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseIDNormalizes(t *testing.T) {
	id, err := ParseID("6BA7B810-9DAD-11D1-80B4-00C04FD430C8")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id.String() != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("Expected lower-case UUID, got %s", id)
	}

	if _, err := ParseID("42"); err == nil {
		t.Error("Expected error for non-UUID input")
	}
}

func TestNewDeterministicID(t *testing.T) {
	a := NewDeterministicID("session", "abc")
	b := NewDeterministicID("session", "abc")
	c := NewDeterministicID("session", "abd")

	if a != b {
		t.Errorf("Expected stable IDs, got %s and %s", a, b)
	}
	if a == c {
		t.Error("Expected different names to give different IDs")
	}
}

func TestScan(t *testing.T) {
	u := uuid.New()
	tests := []struct {
		name  string
		value any
		want  ID
	}{
		{"nil", nil, ""},
		{"string", u.String(), ID(u.String())},
		{"text bytes", []byte(u.String()), ID(u.String())},
		{"raw bytes", u[:], ID(u.String())},
		{"array", [16]byte(u), ID(u.String())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			if err := id.Scan(tt.value); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if id != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, id)
			}
		})
	}

	var id ID
	if err := id.Scan(42); err == nil {
		t.Error("Expected error scanning an int")
	}
}

func TestValue(t *testing.T) {
	v, err := ID("").Value()
	if err != nil || v != nil {
		t.Errorf("Expected nil value for zero ID, got %v (%v)", v, err)
	}
}
