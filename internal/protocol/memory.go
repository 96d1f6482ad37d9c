package protocol

import (
	"context"
	"sync"

	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/triage"
)

// MemoryRepository keeps protocols in a map keyed by ProtocolKey. List
// returns them in first-registration order.
type MemoryRepository struct {
	mu        sync.RWMutex
	protocols map[string]triage.Protocol
	order     []string
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		protocols: make(map[string]triage.Protocol),
	}
}

func (r *MemoryRepository) Get(ctx context.Context, symptom triage.Symptom, ageGroup triage.AgeGroup) (triage.Protocol, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.protocols[triage.ProtocolKey(symptom, ageGroup)]
	if !ok {
		return triage.Protocol{}, false, nil
	}
	return p.Clone(), true, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]triage.Protocol, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]triage.Protocol, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.protocols[key].Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Register(ctx context.Context, p triage.Protocol) error {
	if err := p.Validate(); err != nil {
		return errors.Validation(err.Error(), nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := p.Key()
	if _, exists := r.protocols[key]; !exists {
		r.order = append(r.order, key)
	}
	r.protocols[key] = p.Clone()
	return nil
}
