package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

func createTestReport(fundID string, periodEnd int64) *domain.VarianceReport {
	return &domain.VarianceReport{
		FundID:      fundID,
		PeriodEnd:   periodEnd,
		IRRVar:      0.0025,
		MultipleVar: 0.02,
		DPIShare:    0.55,
	}
}

func TestVarianceReportStore_InsertAndLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewVarianceReportStore(pool)

	for _, periodEnd := range []int64{1000, 3000, 2000} {
		require.NoError(t, store.Insert(ctx, createTestReport("fund-1", periodEnd)))
	}
	require.NoError(t, store.Insert(ctx, createTestReport("fund-2", 5000)))

	reports, err := store.LatestReports(ctx, "fund-1", 2)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Newest first regardless of insertion order; other funds excluded.
	assert.Equal(t, int64(3000), reports[0].PeriodEnd)
	assert.Equal(t, int64(2000), reports[1].PeriodEnd)
	assert.Equal(t, "fund-1", reports[0].FundID)
	assert.InDelta(t, 0.0025, reports[0].IRRVar, 1e-12)
	assert.InDelta(t, 0.55, reports[0].DPIShare, 1e-12)
}

func TestVarianceReportStore_InsertDuplicatePeriod(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewVarianceReportStore(pool)

	require.NoError(t, store.Insert(ctx, createTestReport("fund-1", 1000)))

	err := store.Insert(ctx, createTestReport("fund-1", 1000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Same period for a different fund is a distinct key.
	assert.NoError(t, store.Insert(ctx, createTestReport("fund-2", 1000)))
}

func TestVarianceReportStore_LatestEmptyFund(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewVarianceReportStore(pool)

	reports, err := store.LatestReports(context.Background(), "no-such-fund", 10)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
