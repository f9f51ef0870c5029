// Package risk derives tail-risk metrics from generated scenarios.
package risk

import (
	"errors"
	"math"
	"sort"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/stats"
)

// ErrNoScenarios is returned when metrics are requested over an empty
// scenario set.
var ErrNoScenarios = errors.New("no scenarios for risk metrics")

// sharpeStdDevFloor is the relative cutoff below which an IRR stddev is
// treated as zero when computing the Sharpe ratio.
const sharpeStdDevFloor = 1e-12

// Compute reduces a scenario set to its risk metrics.
//
// VaR(p) is the p-th percentile of the loss distribution (-irr, positive
// means loss); CVaR(p) is the mean of the losses at or beyond VaR(p).
// Both are floored at 0: a run whose worst case is still a gain carries
// no value at risk.
func Compute(scenarios []domain.Scenario) (domain.RiskMetrics, error) {
	n := len(scenarios)
	if n == 0 {
		return domain.RiskMetrics{}, ErrNoScenarios
	}

	irrs := make([]float64, n)
	losses := make([]float64, n)
	totalValues := make([]float64, n)
	lossCount := 0
	for i, s := range scenarios {
		irrs[i] = s.IRR
		losses[i] = -s.IRR
		totalValues[i] = s.TotalValue
		if s.IRR < 0 || s.Multiple < 1 {
			lossCount++
		}
	}

	sort.Float64s(losses)

	var95, cvar95 := varAndCVaR(losses, 95)
	var99, cvar99 := varAndCVaR(losses, 99)

	mean := stats.Mean(irrs)
	stdDev := stats.StdDev(irrs, mean)
	sharpe := 0.0
	// A constant IRR distribution leaves ~1e-17 of float noise in the
	// sample stddev, not an exact zero. Anything below the floor
	// (relative to the mean's magnitude) is degenerate and floors the
	// ratio at 0.
	if stdDev > sharpeStdDevFloor*math.Max(1, math.Abs(mean)) {
		sharpe = mean / stdDev
	}

	return domain.RiskMetrics{
		VaR95:             var95,
		VaR99:             var99,
		CVaR95:            cvar95,
		CVaR99:            cvar99,
		ProbabilityOfLoss: float64(lossCount) / float64(n),
		SharpeRatio:       sharpe,
		MaxDrawdown:       maxDrawdown(totalValues),
	}, nil
}

// varAndCVaR reads VaR at percentile p of the ascending loss distribution
// and averages the tail at or beyond it.
func varAndCVaR(sortedLosses []float64, p float64) (float64, float64) {
	v := stats.Percentile(sortedLosses, p)

	tailSum, tailCount := 0.0, 0
	for i := len(sortedLosses) - 1; i >= 0; i-- {
		if sortedLosses[i] < v {
			break
		}
		tailSum += sortedLosses[i]
		tailCount++
	}

	cvar := 0.0
	if tailCount > 0 {
		cvar = tailSum / float64(tailCount)
	}

	if v < 0 {
		v = 0
	}
	if cvar < 0 {
		cvar = 0
	}
	return v, cvar
}

// maxDrawdown is the worst peak-to-trough of the demeaned cumulative path
// over the sorted scenario values, normalized by the total value. Sorting
// makes the path (and therefore the metric) independent of batch
// concatenation order.
func maxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := stats.Mean(sorted)
	total := mean * float64(len(sorted))

	cumulative, peak, maxDD := 0.0, 0.0, 0.0
	for _, v := range sorted {
		cumulative += v - mean
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDD {
			maxDD = dd
		}
	}

	if total <= 0 {
		return 0
	}
	return maxDD / total
}
