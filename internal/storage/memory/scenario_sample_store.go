package memory

import (
	"context"
	"sort"
	"sync"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

// ScenarioSampleStore is an in-memory implementation of
// storage.ScenarioSampleStore.
type ScenarioSampleStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.ScenarioSample // keyed by run_id
}

// NewScenarioSampleStore creates a new in-memory scenario sample store.
func NewScenarioSampleStore() *ScenarioSampleStore {
	return &ScenarioSampleStore{
		data: make(map[string][]*domain.ScenarioSample),
	}
}

var _ storage.ScenarioSampleStore = (*ScenarioSampleStore)(nil)

// InsertBulk adds all samples of a run. Fails the whole batch on any error.
func (s *ScenarioSampleStore) InsertBulk(_ context.Context, samples []*domain.ScenarioSample) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before writing anything.
	for _, sample := range samples {
		if sample == nil || sample.RunID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[sample.RunID]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for _, sample := range samples {
		cp := *sample
		s.data[sample.RunID] = append(s.data[sample.RunID], &cp)
	}
	return nil
}

// GetByRunID retrieves all samples for a run ordered by index ASC.
func (s *ScenarioSampleStore) GetByRunID(_ context.Context, runID string) ([]*domain.ScenarioSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	samples, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]*domain.ScenarioSample, len(samples))
	for i, sample := range samples {
		cp := *sample
		out[i] = &cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}
