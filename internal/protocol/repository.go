package protocol

import (
	"context"
	"fmt"

	"github.com/kidcare/afterhours/internal/triage"
)

// Repository stores one protocol per (symptom, age group) key. A missing
// key is reported with ok=false, not an error.
type Repository interface {
	Get(ctx context.Context, symptom triage.Symptom, ageGroup triage.AgeGroup) (triage.Protocol, bool, error)
	List(ctx context.Context) ([]triage.Protocol, error)
	// Register inserts p, replacing any protocol with the same key.
	Register(ctx context.Context, p triage.Protocol) error
}

// Seed registers protocols when repo is empty and reports how many were
// written. A store that already holds protocols is left alone.
func Seed(ctx context.Context, repo Repository, protocols []triage.Protocol) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing protocols: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, p := range protocols {
		if err := repo.Register(ctx, p); err != nil {
			return i, fmt.Errorf("failed to seed protocol %s: %w", p.Key(), err)
		}
	}
	return len(protocols), nil
}
