package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/observability"
	"venture-fund-lab/internal/storage"
)

// SimulationRunStore implements storage.SimulationRunStore using PostgreSQL.
// Config, distributions and risk are stored as JSONB: they are written and
// read whole, never queried field by field.
type SimulationRunStore struct {
	pool *Pool
}

// NewSimulationRunStore creates a new SimulationRunStore.
func NewSimulationRunStore(pool *Pool) *SimulationRunStore {
	return &SimulationRunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SimulationRunStore = (*SimulationRunStore)(nil)

// Insert adds a run result. Returns ErrDuplicateKey if run_id exists.
func (s *SimulationRunStore) Insert(ctx context.Context, r *domain.SimulationResult) (err error) {
	done := observability.StartDBQuery("postgres", "run_insert")
	defer func() { done(err) }()

	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	configJSON, err := json.Marshal(r.Config)
	if err != nil {
		return fmt.Errorf("marshal run config: %w", err)
	}
	distsJSON, err := json.Marshal(r.Distributions)
	if err != nil {
		return fmt.Errorf("marshal run distributions: %w", err)
	}
	riskJSON, err := json.Marshal(r.Risk)
	if err != nil {
		return fmt.Errorf("marshal run risk metrics: %w", err)
	}

	query := `
		INSERT INTO simulation_runs (
			run_id, config, distributions, risk,
			scenario_count, seed_used, execution_time_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.pool.Exec(ctx, query,
		r.RunID, configJSON, distsJSON, riskJSON,
		r.ScenarioCount, r.SeedUsed, r.ExecutionTimeMs,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert simulation run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by ID. Returns ErrNotFound if not exists.
func (s *SimulationRunStore) GetByID(ctx context.Context, runID string) (result *domain.SimulationResult, err error) {
	done := observability.StartDBQuery("postgres", "run_get")
	defer func() { done(err) }()

	query := `
		SELECT run_id, config, distributions, risk,
		       scenario_count, seed_used, execution_time_ms
		FROM simulation_runs
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	r, err := scanSimulationRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get simulation run by id: %w", err)
	}
	return r, nil
}

// List retrieves up to limit most recent runs, newest first.
func (s *SimulationRunStore) List(ctx context.Context, limit int) (results []*domain.SimulationResult, err error) {
	done := observability.StartDBQuery("postgres", "run_list")
	defer func() { done(err) }()

	query := `
		SELECT run_id, config, distributions, risk,
		       scenario_count, seed_used, execution_time_ms
		FROM simulation_runs
		ORDER BY created_at DESC, run_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list simulation runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r, err := scanSimulationRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan simulation run row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate simulation run rows: %w", err)
	}
	return results, nil
}

// scanSimulationRun scans a single row into a SimulationResult.
func scanSimulationRun(row pgx.Row) (*domain.SimulationResult, error) {
	var (
		r          domain.SimulationResult
		configJSON []byte
		distsJSON  []byte
		riskJSON   []byte
	)

	err := row.Scan(
		&r.RunID, &configJSON, &distsJSON, &riskJSON,
		&r.ScenarioCount, &r.SeedUsed, &r.ExecutionTimeMs,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(configJSON, &r.Config); err != nil {
		return nil, fmt.Errorf("unmarshal run config: %w", err)
	}
	if err := json.Unmarshal(distsJSON, &r.Distributions); err != nil {
		return nil, fmt.Errorf("unmarshal run distributions: %w", err)
	}
	if err := json.Unmarshal(riskJSON, &r.Risk); err != nil {
		return nil, fmt.Errorf("unmarshal run risk metrics: %w", err)
	}

	return &r, nil
}
