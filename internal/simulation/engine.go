// Package simulation is the engine behind the public simulation surface.
// It validates the config, calibrates distribution parameters, fans
// scenario generation out over batches, aggregates the results into
// distribution and risk summaries, and persists the run. The engine holds
// no mutable state across runs, so one instance serves concurrent callers.
package simulation

import (
	"context"
	"fmt"
	"log"
	"time"

	"venture-fund-lab/internal/calibration"
	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/reserve"
	"venture-fund-lab/internal/returns"
	"venture-fund-lab/internal/risk"
	"venture-fund-lab/internal/runid"
	"venture-fund-lab/internal/scenario"
	"venture-fund-lab/internal/stats"
	"venture-fund-lab/internal/storage"
	"venture-fund-lab/internal/validate"
)

// candidateSeedStride spaces per-candidate base seeds in a reserve grid
// search far enough apart that batch seeds of neighboring candidates never
// collide.
const candidateSeedStride = 1_000_003

// Engine runs simulations end to end.
type Engine struct {
	// Collaborators
	calibrator   *calibration.Calibrator
	runStore     storage.SimulationRunStore
	sampleStore  storage.ScenarioSampleStore
	weightSource calibration.StageWeightSource

	fundID     string
	onProgress func(completed, total int)
	verbose    bool
}

// Options for creating an Engine. Only a calibrator is required for pure
// in-process use; nil stores disable persistence.
type Options struct {
	Calibrator   *calibration.Calibrator
	RunStore     storage.SimulationRunStore
	SampleStore  storage.ScenarioSampleStore
	WeightSource calibration.StageWeightSource

	// FundID selects the calibration history and default stage weights.
	FundID string

	// OnProgress, when set, is invoked after each completed batch with the
	// cumulative scenario count. Calls are serialized: the callback never
	// runs concurrently with itself and counts are non-decreasing.
	OnProgress func(completed, total int)

	Verbose bool
}

// New creates an Engine. Panics if the compiled return profile tables are
// inconsistent; that is a build defect, not a runtime condition.
func New(opts Options) *Engine {
	if err := returns.VerifyProfiles(); err != nil {
		panic(fmt.Sprintf("return profiles: %v", err))
	}
	cal := opts.Calibrator
	if cal == nil {
		cal = calibration.NewCalibrator(nil)
	}
	return &Engine{
		calibrator:   cal,
		runStore:     opts.RunStore,
		sampleStore:  opts.SampleStore,
		weightSource: opts.WeightSource,
		fundID:       opts.FundID,
		onProgress:   opts.OnProgress,
		verbose:      opts.Verbose,
	}
}

// Simulate executes one full run. The same config with the same seed yields
// a byte-identical result, including the run ID.
func (e *Engine) Simulate(ctx context.Context, cfg domain.SimulationConfig) (*domain.SimulationResult, error) {
	start := time.Now()

	cfg, err := e.resolveWeights(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := validate.Config(cfg); err != nil {
		return nil, err
	}

	seedUsed := resolveSeed(cfg)
	e.log("run start: %d scenarios, horizon %dy, seed %d", cfg.ScenarioCount, cfg.TimeHorizonYears, seedUsed)

	params, err := e.calibrator.Params(ctx, e.fundID)
	if err != nil {
		return nil, fmt.Errorf("calibrate: %w", err)
	}

	scenarios, err := e.runBatches(ctx, seedUsed, inputsFor(cfg), params, cfg.ScenarioCount)
	if err != nil {
		return nil, fmt.Errorf("generate scenarios: %w", err)
	}

	dists, err := aggregateDistributions(scenarios)
	if err != nil {
		return nil, fmt.Errorf("aggregate distributions: %w", err)
	}

	riskMetrics, err := risk.Compute(scenarios)
	if err != nil {
		return nil, fmt.Errorf("compute risk metrics: %w", err)
	}

	result := &domain.SimulationResult{
		RunID:           runid.Compute(cfg, seedUsed),
		Config:          cfg,
		Distributions:   dists,
		Risk:            riskMetrics,
		ScenarioCount:   len(scenarios),
		SeedUsed:        seedUsed,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}

	if err := e.persist(ctx, result, scenarios); err != nil {
		return nil, err
	}

	e.log("run %s done in %dms", result.RunID, result.ExecutionTimeMs)
	return result, nil
}

// OptimizeReserves runs the full simulation once per candidate reserve
// ratio and selects the ratio maximizing the risk-adjusted objective. A nil
// candidate grid uses the default 10%..50% grid. Candidates run
// sequentially; each already fans out internally.
func (e *Engine) OptimizeReserves(ctx context.Context, cfg domain.SimulationConfig, ratios []float64) (domain.ReserveOptimizationResult, error) {
	cfg, err := e.resolveWeights(ctx, cfg)
	if err != nil {
		return domain.ReserveOptimizationResult{}, err
	}
	if err := validate.Config(cfg); err != nil {
		return domain.ReserveOptimizationResult{}, err
	}
	if ratios == nil {
		ratios = domain.DefaultReserveRatios
	}
	if err := validate.ReserveRatios(ratios); err != nil {
		return domain.ReserveOptimizationResult{}, err
	}

	seedUsed := resolveSeed(cfg)
	e.log("reserve optimization: %d candidates, %d scenarios each, seed %d", len(ratios), cfg.ScenarioCount, seedUsed)

	params, err := e.calibrator.Params(ctx, e.fundID)
	if err != nil {
		return domain.ReserveOptimizationResult{}, fmt.Errorf("calibrate: %w", err)
	}

	run := func(i int, ratio float64) ([]domain.Scenario, error) {
		candidateCfg := cfg
		candidateCfg.ReserveRatio = ratio
		adjusted := calibration.ReserveAdjusted(params, ratio)
		baseSeed := seedUsed + int64(i)*candidateSeedStride
		return e.runBatches(ctx, baseSeed, inputsFor(candidateCfg), adjusted, cfg.ScenarioCount)
	}

	result, err := reserve.Optimize(ratios, run)
	if err != nil {
		return domain.ReserveOptimizationResult{}, err
	}

	e.log("reserve optimization done: optimal ratio %.2f, improvement %+.4f", result.OptimalRatio, result.Improvement)
	return result, nil
}

// resolveWeights fills in fund-configured stage weights when the config
// carries none. Explicit weights in the config always win.
func (e *Engine) resolveWeights(ctx context.Context, cfg domain.SimulationConfig) (domain.SimulationConfig, error) {
	if cfg.StageWeights != nil || e.weightSource == nil || e.fundID == "" {
		return cfg, nil
	}
	weights, err := e.weightSource.StageWeights(ctx, e.fundID)
	if err != nil {
		return cfg, fmt.Errorf("load stage weights for %q: %w", e.fundID, err)
	}
	cfg.StageWeights = weights
	return cfg, nil
}

func (e *Engine) persist(ctx context.Context, result *domain.SimulationResult, scenarios []domain.Scenario) error {
	if e.runStore != nil {
		if err := e.runStore.Insert(ctx, result); err != nil {
			return fmt.Errorf("persist run %s: %w", result.RunID, err)
		}
	}
	if e.sampleStore != nil {
		samples := make([]*domain.ScenarioSample, len(scenarios))
		for i, s := range scenarios {
			samples[i] = &domain.ScenarioSample{
				RunID:           result.RunID,
				Index:           i,
				IRR:             s.IRR,
				Multiple:        s.Multiple,
				DPI:             s.DPI,
				TVPI:            s.TVPI,
				TotalValue:      s.TotalValue,
				ExitTimingYears: s.ExitTimingYears,
				FollowOnNeed:    s.FollowOnNeed,
				Stage:           string(s.Stage),
				Band:            string(s.Band),
			}
		}
		if err := e.sampleStore.InsertBulk(ctx, samples); err != nil {
			return fmt.Errorf("persist samples for run %s: %w", result.RunID, err)
		}
	}
	return nil
}

// resolveSeed returns the configured seed or derives one from the wall
// clock. Either way the returned value is echoed in the result so any run
// can be replayed exactly.
func resolveSeed(cfg domain.SimulationConfig) int64 {
	if cfg.RandomSeed != nil {
		return *cfg.RandomSeed
	}
	return time.Now().UnixNano()
}

func inputsFor(cfg domain.SimulationConfig) scenario.Inputs {
	return scenario.Inputs{
		StageWeights:    cfg.StageWeights,
		DeployedCapital: cfg.DeployedCapital,
		HorizonYears:    cfg.TimeHorizonYears,
		ReserveRatio:    cfg.ReserveRatio,
	}
}

// aggregateDistributions reduces the scenario set into the six per-metric
// distributions.
func aggregateDistributions(scenarios []domain.Scenario) (domain.Distributions, error) {
	n := len(scenarios)
	irrs := make([]float64, n)
	multiples := make([]float64, n)
	dpis := make([]float64, n)
	tvpis := make([]float64, n)
	totals := make([]float64, n)
	exits := make([]float64, n)
	for i, s := range scenarios {
		irrs[i] = s.IRR
		multiples[i] = s.Multiple
		dpis[i] = s.DPI
		tvpis[i] = s.TVPI
		totals[i] = s.TotalValue
		exits[i] = s.ExitTimingYears
	}

	var dists domain.Distributions
	var err error
	if dists.IRR, err = stats.Aggregate(irrs); err != nil {
		return domain.Distributions{}, err
	}
	if dists.Multiple, err = stats.Aggregate(multiples); err != nil {
		return domain.Distributions{}, err
	}
	if dists.DPI, err = stats.Aggregate(dpis); err != nil {
		return domain.Distributions{}, err
	}
	if dists.TVPI, err = stats.Aggregate(tvpis); err != nil {
		return domain.Distributions{}, err
	}
	if dists.TotalValue, err = stats.Aggregate(totals); err != nil {
		return domain.Distributions{}, err
	}
	if dists.ExitTiming, err = stats.Aggregate(exits); err != nil {
		return domain.Distributions{}, err
	}
	return dists, nil
}

func (e *Engine) reportProgress(completed, total int) {
	if e.onProgress != nil {
		e.onProgress(completed, total)
	}
}

func (e *Engine) log(format string, args ...interface{}) {
	if e.verbose {
		log.Printf("[engine] "+format, args...)
	}
}
