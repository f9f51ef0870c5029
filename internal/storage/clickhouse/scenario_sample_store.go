package clickhouse

import (
	"context"
	"fmt"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/observability"
	"venture-fund-lab/internal/storage"
)

// ScenarioSampleStore implements storage.ScenarioSampleStore using
// ClickHouse. Samples are append-only, high volume, and always written as
// one batch per run, which is the access pattern MergeTree is built for.
type ScenarioSampleStore struct {
	conn *Conn
}

// NewScenarioSampleStore creates a new ScenarioSampleStore.
func NewScenarioSampleStore(conn *Conn) *ScenarioSampleStore {
	return &ScenarioSampleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScenarioSampleStore = (*ScenarioSampleStore)(nil)

// InsertBulk adds all samples of a run. Fails the whole batch on any error.
// MergeTree does not enforce uniqueness, so the run itself is rejected if
// its run_id already has rows.
func (s *ScenarioSampleStore) InsertBulk(ctx context.Context, samples []*domain.ScenarioSample) (err error) {
	done := observability.StartDBQuery("clickhouse", "samples_insert_bulk")
	defer func() { done(err) }()

	if len(samples) == 0 {
		return nil
	}

	for _, sample := range samples {
		if sample == nil || sample.RunID == "" || sample.Index < 0 {
			return storage.ErrInvalidInput
		}
	}

	runID := samples[0].RunID
	exists, err := s.runExists(ctx, runID)
	if err != nil {
		return fmt.Errorf("check run exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO scenario_samples (
			run_id, idx, irr, multiple, dpi, tvpi,
			total_value, exit_timing_years, follow_on_need, stage, band
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sample := range samples {
		err = batch.Append(
			sample.RunID, uint32(sample.Index),
			sample.IRR, sample.Multiple, sample.DPI, sample.TVPI,
			sample.TotalValue, sample.ExitTimingYears, sample.FollowOnNeed,
			sample.Stage, sample.Band,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunID retrieves all samples for a run ordered by index ASC.
func (s *ScenarioSampleStore) GetByRunID(ctx context.Context, runID string) (samples []*domain.ScenarioSample, err error) {
	done := observability.StartDBQuery("clickhouse", "samples_get")
	defer func() { done(err) }()

	query := `
		SELECT run_id, idx, irr, multiple, dpi, tvpi,
		       total_value, exit_timing_years, follow_on_need, stage, band
		FROM scenario_samples
		WHERE run_id = ?
		ORDER BY idx ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query samples by run id: %w", err)
	}
	defer rows.Close()

	return scanScenarioSamples(rows)
}

// runExists checks whether any samples are already stored for a run.
func (s *ScenarioSampleStore) runExists(ctx context.Context, runID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM scenario_samples WHERE run_id = ?`, runID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanScenarioSamples scans multiple rows.
func scanScenarioSamples(rows chRows) ([]*domain.ScenarioSample, error) {
	var samples []*domain.ScenarioSample

	for rows.Next() {
		var (
			sample domain.ScenarioSample
			idx    uint32
		)

		err := rows.Scan(
			&sample.RunID, &idx, &sample.IRR, &sample.Multiple, &sample.DPI, &sample.TVPI,
			&sample.TotalValue, &sample.ExitTimingYears, &sample.FollowOnNeed,
			&sample.Stage, &sample.Band,
		)
		if err != nil {
			return nil, fmt.Errorf("scan scenario sample row: %w", err)
		}

		sample.Index = int(idx)
		samples = append(samples, &sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario sample rows: %w", err)
	}

	return samples, nil
}
