package postgres

import (
	"context"
	"fmt"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/observability"
	"venture-fund-lab/internal/storage"
)

// StageWeightStore implements storage.StageWeightStore using PostgreSQL.
// One row per (fund, stage); Put replaces the whole set atomically so a
// reader never sees a half-updated weight map.
type StageWeightStore struct {
	pool *Pool
}

// NewStageWeightStore creates a new StageWeightStore.
func NewStageWeightStore(pool *Pool) *StageWeightStore {
	return &StageWeightStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StageWeightStore = (*StageWeightStore)(nil)

// Put replaces the stage weights for a fund.
func (s *StageWeightStore) Put(ctx context.Context, fundID string, weights map[domain.Stage]float64) (err error) {
	done := observability.StartDBQuery("postgres", "stage_weights_put")
	defer func() { done(err) }()

	if fundID == "" || len(weights) == 0 {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM fund_stage_weights WHERE fund_id = $1`, fundID); err != nil {
		return fmt.Errorf("clear stage weights: %w", err)
	}

	query := `
		INSERT INTO fund_stage_weights (fund_id, stage, weight)
		VALUES ($1, $2, $3)
	`
	for stage, weight := range weights {
		if _, err := tx.Exec(ctx, query, fundID, string(stage), weight); err != nil {
			return fmt.Errorf("insert stage weight %s: %w", stage, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// StageWeights returns a fund's weights. Returns ErrNotFound if the fund
// has none configured.
func (s *StageWeightStore) StageWeights(ctx context.Context, fundID string) (weights map[domain.Stage]float64, err error) {
	done := observability.StartDBQuery("postgres", "stage_weights_get")
	defer func() { done(err) }()

	query := `
		SELECT stage, weight
		FROM fund_stage_weights
		WHERE fund_id = $1
	`

	rows, err := s.pool.Query(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("get stage weights by fund id: %w", err)
	}
	defer rows.Close()

	weights = make(map[domain.Stage]float64)
	for rows.Next() {
		var (
			stage  string
			weight float64
		)
		if err := rows.Scan(&stage, &weight); err != nil {
			return nil, fmt.Errorf("scan stage weight row: %w", err)
		}
		weights[domain.Stage(stage)] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage weight rows: %w", err)
	}

	if len(weights) == 0 {
		return nil, storage.ErrNotFound
	}
	return weights, nil
}
