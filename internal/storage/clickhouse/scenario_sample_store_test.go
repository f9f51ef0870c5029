package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

func createTestSamples(runID string, n int) []*domain.ScenarioSample {
	samples := make([]*domain.ScenarioSample, n)
	for i := 0; i < n; i++ {
		samples[i] = &domain.ScenarioSample{
			RunID:           runID,
			Index:           i,
			IRR:             0.05 + float64(i)*0.001,
			Multiple:        1.5,
			DPI:             0.8,
			TVPI:            1.6,
			TotalValue:      80,
			ExitTimingYears: 6.5,
			FollowOnNeed:    5,
			Stage:           string(domain.StageSeed),
			Band:            string(domain.BandGood),
		}
	}
	return samples
}

func TestScenarioSampleStore_InsertBulkAndGetByRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScenarioSampleStore(conn)

	require.NoError(t, store.InsertBulk(ctx, createTestSamples("run-001", 100)))

	samples, err := store.GetByRunID(ctx, "run-001")
	require.NoError(t, err)
	require.Len(t, samples, 100)

	for i, s := range samples {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, "run-001", s.RunID)
	}
	assert.InDelta(t, 0.05, samples[0].IRR, 1e-12)
	assert.Equal(t, string(domain.StageSeed), samples[0].Stage)
	assert.Equal(t, string(domain.BandGood), samples[0].Band)
}

func TestScenarioSampleStore_InsertBulkDuplicateRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewScenarioSampleStore(conn)

	require.NoError(t, store.InsertBulk(ctx, createTestSamples("run-dup", 10)))

	err := store.InsertBulk(ctx, createTestSamples("run-dup", 10))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestScenarioSampleStore_InsertBulkEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScenarioSampleStore(conn)
	assert.NoError(t, store.InsertBulk(context.Background(), nil))
}

func TestScenarioSampleStore_InsertBulkInvalidSample(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScenarioSampleStore(conn)

	samples := createTestSamples("run-bad", 5)
	samples[2].RunID = ""

	err := store.InsertBulk(context.Background(), samples)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestScenarioSampleStore_GetByRunIDEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewScenarioSampleStore(conn)

	samples, err := store.GetByRunID(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, samples)
}
