package assessment

import (
	"context"
	"sync"

	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/shared/types"
)

// Repository persists assessments. Get returns an errors.NotFound AppError
// for unknown IDs.
type Repository interface {
	Create(ctx context.Context, a *Assessment) error
	Get(ctx context.Context, id types.ID) (*Assessment, error)
}

// MemoryRepository keeps assessments in process memory
type MemoryRepository struct {
	mu          sync.RWMutex
	assessments map[types.ID]Assessment
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{assessments: make(map[types.ID]Assessment)}
}

func (r *MemoryRepository) Create(ctx context.Context, a *Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assessments[a.ID]; exists {
		return errors.Conflict("assessment already exists")
	}
	r.assessments[a.ID] = a.Clone()
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id types.ID) (*Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assessments[id]
	if !ok {
		return nil, errors.NotFound("assessment", id.String())
	}
	clone := a.Clone()
	return &clone, nil
}
