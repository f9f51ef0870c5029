// Package reserve runs the reserve-ratio grid search. Candidates are
// mutually independent re-runs of the simulation pipeline; the optimizer
// itself only scores them.
package reserve

import (
	"errors"
	"fmt"
	"sort"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/risk"
	"venture-fund-lab/internal/stats"
)

// ErrNoCandidates is returned when the candidate ratio grid is empty.
var ErrNoCandidates = errors.New("no candidate ratios")

// cvarPenalty weighs tail losses in the risk-adjusted objective.
const cvarPenalty = 0.5

// RunFunc executes the full generate/aggregate pipeline for one candidate
// ratio and returns the scenarios. Implementations must seed each
// candidate deterministically so the grid search is reproducible.
type RunFunc func(candidateIndex int, ratio float64) ([]domain.Scenario, error)

// Optimize scores each candidate ratio and selects the maximizer of the
// risk-adjusted objective mean(IRR) - 0.5*CVaR95(IRR). Candidates are
// evaluated in ascending ratio order regardless of the order passed in,
// so improvement is always reported against the lowest candidate ratio
// and ties keep the lower ratio.
func Optimize(candidates []float64, run RunFunc) (domain.ReserveOptimizationResult, error) {
	if len(candidates) == 0 {
		return domain.ReserveOptimizationResult{}, ErrNoCandidates
	}

	ratios := append([]float64(nil), candidates...)
	sort.Float64s(ratios)

	objectives := make([]float64, len(ratios))
	bestIdx := 0
	for i, ratio := range ratios {
		scenarios, err := run(i, ratio)
		if err != nil {
			return domain.ReserveOptimizationResult{}, fmt.Errorf("candidate ratio %.2f: %w", ratio, err)
		}

		obj, err := Objective(scenarios)
		if err != nil {
			return domain.ReserveOptimizationResult{}, fmt.Errorf("candidate ratio %.2f: %w", ratio, err)
		}
		objectives[i] = obj

		if obj > objectives[bestIdx] {
			bestIdx = i
		}
	}

	out := domain.ReserveOptimizationResult{
		CandidateRatios:  ratios,
		ObjectiveByRatio: objectives,
		OptimalRatio:     ratios[bestIdx],
		Improvement:      objectives[bestIdx] - objectives[0],
	}
	return out, nil
}

// Objective scores one candidate's scenario set.
func Objective(scenarios []domain.Scenario) (float64, error) {
	metrics, err := risk.Compute(scenarios)
	if err != nil {
		return 0, err
	}

	irrs := make([]float64, len(scenarios))
	for i, s := range scenarios {
		irrs[i] = s.IRR
	}

	return stats.Mean(irrs) - cvarPenalty*metrics.CVaR95, nil
}
