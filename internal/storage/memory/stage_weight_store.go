package memory

import (
	"context"
	"sync"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

// StageWeightStore is an in-memory implementation of
// storage.StageWeightStore.
type StageWeightStore struct {
	mu   sync.RWMutex
	data map[string]map[domain.Stage]float64
}

// NewStageWeightStore creates a new in-memory stage weight store.
func NewStageWeightStore() *StageWeightStore {
	return &StageWeightStore{
		data: make(map[string]map[domain.Stage]float64),
	}
}

var _ storage.StageWeightStore = (*StageWeightStore)(nil)

// Put replaces the stage weights for a fund.
func (s *StageWeightStore) Put(_ context.Context, fundID string, weights map[domain.Stage]float64) error {
	if fundID == "" || len(weights) == 0 {
		return storage.ErrInvalidInput
	}

	cp := make(map[domain.Stage]float64, len(weights))
	for k, v := range weights {
		cp[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[fundID] = cp
	return nil
}

// StageWeights returns a fund's weights. Returns ErrNotFound if the fund
// has none configured.
func (s *StageWeightStore) StageWeights(_ context.Context, fundID string) (map[domain.Stage]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weights, ok := s.data[fundID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := make(map[domain.Stage]float64, len(weights))
	for k, v := range weights {
		cp[k] = v
	}
	return cp, nil
}
