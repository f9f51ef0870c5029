package storage

import (
	"context"

	"venture-fund-lab/internal/domain"
)

// SimulationRunStore persists completed simulation results.
type SimulationRunStore interface {
	// Insert adds a run result. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *domain.SimulationResult) error

	// GetByID retrieves a run by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.SimulationResult, error)

	// List retrieves up to limit most recent runs, newest first.
	List(ctx context.Context, limit int) ([]*domain.SimulationResult, error)
}

// ScenarioSampleStore persists per-scenario samples. High volume: a run at
// the upper bound writes 50,000 rows, so bulk insert is the only write path.
type ScenarioSampleStore interface {
	// InsertBulk adds all samples of a run. Fails the whole batch on any error.
	InsertBulk(ctx context.Context, samples []*domain.ScenarioSample) error

	// GetByRunID retrieves all samples for a run ordered by index ASC.
	GetByRunID(ctx context.Context, runID string) ([]*domain.ScenarioSample, error)
}

// VarianceReportStore persists historical variance reports per fund.
// Satisfies calibration.VarianceSource.
type VarianceReportStore interface {
	// Insert adds a report. Returns ErrDuplicateKey if (fund_id, period_end) exists.
	Insert(ctx context.Context, r *domain.VarianceReport) error

	// LatestReports returns up to n most recent reports for a fund, newest first.
	LatestReports(ctx context.Context, fundID string, n int) ([]*domain.VarianceReport, error)
}

// StageWeightStore persists configured stage weights per fund.
// Satisfies calibration.StageWeightSource.
type StageWeightStore interface {
	// Put replaces the stage weights for a fund.
	Put(ctx context.Context, fundID string, weights map[domain.Stage]float64) error

	// StageWeights returns a fund's weights. Returns ErrNotFound if the
	// fund has none configured.
	StageWeights(ctx context.Context, fundID string) (map[domain.Stage]float64, error)
}
