package reporting

import (
	"context"
	"time"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage"
)

// Generator produces reports from run results.
type Generator struct {
	runStore storage.SimulationRunStore
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. The run store may be nil
// when reports are built from in-process results only.
func NewGenerator(runStore storage.SimulationRunStore) *Generator {
	return &Generator{
		runStore: runStore,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads a stored run and builds its report.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	result, err := g.runStore.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return g.FromResult(result, nil), nil
}

// FromResult builds a report directly from a result, with an optional
// reserve optimization outcome.
func (g *Generator) FromResult(result *domain.SimulationResult, reserveResult *domain.ReserveOptimizationResult) *Report {
	report := &Report{
		GeneratedAt:     g.now(),
		RunID:           result.RunID,
		SeedUsed:        result.SeedUsed,
		ScenarioCount:   result.ScenarioCount,
		ExecutionTimeMs: result.ExecutionTimeMs,
		Config:          configSummary(result.Config),
		Metrics:         metricRows(result.Distributions),
		Risk: RiskSection{
			VaR95:             result.Risk.VaR95,
			VaR99:             result.Risk.VaR99,
			CVaR95:            result.Risk.CVaR95,
			CVaR99:            result.Risk.CVaR99,
			ProbabilityOfLoss: result.Risk.ProbabilityOfLoss,
			SharpeRatio:       result.Risk.SharpeRatio,
			MaxDrawdown:       result.Risk.MaxDrawdown,
		},
	}

	if reserveResult != nil {
		report.Reserve = reserveSection(reserveResult)
	}
	return report
}

func configSummary(cfg domain.SimulationConfig) ConfigSummary {
	summary := ConfigSummary{
		TimeHorizonYears: cfg.TimeHorizonYears,
		PortfolioSize:    cfg.PortfolioSize,
		DeployedCapital:  cfg.DeployedCapital,
		ReserveRatio:     cfg.ReserveRatio,
	}
	// Fixed stage order keeps report output stable across runs.
	for _, s := range domain.AllStages {
		if w, ok := cfg.StageWeights[s]; ok {
			summary.StageWeights = append(summary.StageWeights, StageWeightRow{
				Stage:  string(s),
				Weight: w,
			})
		}
	}
	return summary
}

func metricRows(dists domain.Distributions) []MetricRow {
	rows := []struct {
		name string
		dist domain.PerformanceDistribution
	}{
		{"IRR", dists.IRR},
		{"Multiple", dists.Multiple},
		{"DPI", dists.DPI},
		{"TVPI", dists.TVPI},
		{"Total Value", dists.TotalValue},
		{"Exit Timing", dists.ExitTiming},
	}

	out := make([]MetricRow, len(rows))
	for i, r := range rows {
		out[i] = MetricRow{
			Name:   r.name,
			Mean:   r.dist.Mean,
			StdDev: r.dist.StdDev,
			P5:     r.dist.Percentiles.P5,
			P25:    r.dist.Percentiles.P25,
			P50:    r.dist.Percentiles.P50,
			P75:    r.dist.Percentiles.P75,
			P95:    r.dist.Percentiles.P95,
			Min:    r.dist.Min,
			Max:    r.dist.Max,
		}
	}
	return out
}

func reserveSection(result *domain.ReserveOptimizationResult) *ReserveSection {
	section := &ReserveSection{
		OptimalRatio: result.OptimalRatio,
		Improvement:  result.Improvement,
	}
	for i, ratio := range result.CandidateRatios {
		section.Candidates = append(section.Candidates, ReserveCandidateRow{
			Ratio:     ratio,
			Objective: result.ObjectiveByRatio[i],
			Optimal:   ratio == result.OptimalRatio,
		})
	}
	return section
}
