package memory

import (
	"context"
	"sort"
	"sync"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

type reportKey struct {
	fundID    string
	periodEnd int64
}

// VarianceReportStore is an in-memory implementation of
// storage.VarianceReportStore.
type VarianceReportStore struct {
	mu   sync.RWMutex
	data map[reportKey]*domain.VarianceReport
}

// NewVarianceReportStore creates a new in-memory variance report store.
func NewVarianceReportStore() *VarianceReportStore {
	return &VarianceReportStore{
		data: make(map[reportKey]*domain.VarianceReport),
	}
}

var _ storage.VarianceReportStore = (*VarianceReportStore)(nil)

// Insert adds a report. Returns ErrDuplicateKey if (fund_id, period_end) exists.
func (s *VarianceReportStore) Insert(_ context.Context, r *domain.VarianceReport) error {
	if r == nil || r.FundID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := reportKey{fundID: r.FundID, periodEnd: r.PeriodEnd}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *r
	s.data[key] = &cp
	return nil
}

// LatestReports returns up to n most recent reports for a fund, newest first.
func (s *VarianceReportStore) LatestReports(_ context.Context, fundID string, n int) ([]*domain.VarianceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.VarianceReport
	for key, r := range s.data {
		if key.fundID != fundID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PeriodEnd > out[j].PeriodEnd })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}
