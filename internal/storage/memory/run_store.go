package memory

import (
	"context"
	"sync"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

// SimulationRunStore is an in-memory implementation of
// storage.SimulationRunStore.
type SimulationRunStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.SimulationResult
	order []string // insertion order, newest last
}

// NewSimulationRunStore creates a new in-memory run store.
func NewSimulationRunStore() *SimulationRunStore {
	return &SimulationRunStore{
		data: make(map[string]*domain.SimulationResult),
	}
}

var _ storage.SimulationRunStore = (*SimulationRunStore)(nil)

// Insert adds a run result. Returns ErrDuplicateKey if run_id exists.
func (s *SimulationRunStore) Insert(_ context.Context, r *domain.SimulationResult) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *r
	s.data[r.RunID] = &cp
	s.order = append(s.order, r.RunID)
	return nil
}

// GetByID retrieves a run by ID. Returns ErrNotFound if not exists.
func (s *SimulationRunStore) GetByID(_ context.Context, runID string) (*domain.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// List retrieves up to limit most recent runs, newest first.
func (s *SimulationRunStore) List(_ context.Context, limit int) ([]*domain.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.SimulationResult, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.data[s.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}
