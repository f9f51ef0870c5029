package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

func TestStageWeightStore_PutAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStageWeightStore(pool)

	weights := map[domain.Stage]float64{
		domain.StageSeed:    0.5,
		domain.StageSeriesA: 0.3,
		domain.StageSeriesB: 0.2,
	}
	require.NoError(t, store.Put(ctx, "fund-1", weights))

	retrieved, err := store.StageWeights(ctx, "fund-1")
	require.NoError(t, err)
	assert.Equal(t, weights, retrieved)
}

func TestStageWeightStore_PutReplacesWholeSet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewStageWeightStore(pool)

	require.NoError(t, store.Put(ctx, "fund-1", map[domain.Stage]float64{
		domain.StageSeed:    0.5,
		domain.StageSeriesA: 0.5,
	}))

	replacement := map[domain.Stage]float64{domain.StagePreSeed: 1.0}
	require.NoError(t, store.Put(ctx, "fund-1", replacement))

	retrieved, err := store.StageWeights(ctx, "fund-1")
	require.NoError(t, err)

	// Stale stages from the previous set must be gone.
	assert.Equal(t, replacement, retrieved)
}

func TestStageWeightStore_GetNotConfigured(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStageWeightStore(pool)

	_, err := store.StageWeights(context.Background(), "no-such-fund")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStageWeightStore_PutInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStageWeightStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, "", map[domain.Stage]float64{domain.StageSeed: 1.0}), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Put(ctx, "fund-1", nil), storage.ErrInvalidInput)
}
