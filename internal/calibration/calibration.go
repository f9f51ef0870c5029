// Package calibration derives scenario distribution params from historical
// variance reports. Sources are read-only collaborator contracts keyed by
// fund identifier; with fewer than three reports on record the fixed
// industry defaults apply.
package calibration

import (
	"context"
	"fmt"
	"math"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/stats"
)

// MinReports is the minimum history length before calibrating from data.
const MinReports = 3

// DefaultReportWindow is how many recent reports a lookup requests.
const DefaultReportWindow = 12

// IndustryDefaults are the fixed fallback params, pinned to published
// venture benchmarks.
var IndustryDefaults = domain.DistributionParams{
	IRRVolatility:      0.05,
	MultipleVolatility: 0.15,
	DPIMean:            0.6,
	DPIVolatility:      0.2,
}

// VarianceSource returns up to n most-recent variance reports for a fund,
// newest first. A synchronous lookup; implementations live in storage.
type VarianceSource interface {
	LatestReports(ctx context.Context, fundID string, n int) ([]*domain.VarianceReport, error)
}

// StageWeightSource returns a fund's configured stage weights.
type StageWeightSource interface {
	StageWeights(ctx context.Context, fundID string) (map[domain.Stage]float64, error)
}

// Calibrator resolves distribution params per fund.
type Calibrator struct {
	source VarianceSource
}

// NewCalibrator creates a calibrator over a variance source. A nil source
// always yields the industry defaults.
func NewCalibrator(source VarianceSource) *Calibrator {
	return &Calibrator{source: source}
}

// Params derives distribution params for a fund from its report history.
// Fewer than MinReports on record falls back to IndustryDefaults; that
// fallback is part of the documented contract, not a silent default.
func (c *Calibrator) Params(ctx context.Context, fundID string) (domain.DistributionParams, error) {
	if c.source == nil {
		return IndustryDefaults, nil
	}

	reports, err := c.source.LatestReports(ctx, fundID, DefaultReportWindow)
	if err != nil {
		return domain.DistributionParams{}, fmt.Errorf("load variance reports for %q: %w", fundID, err)
	}
	if len(reports) < MinReports {
		return IndustryDefaults, nil
	}

	irrVars := make([]float64, len(reports))
	multVars := make([]float64, len(reports))
	dpiShares := make([]float64, len(reports))
	for i, r := range reports {
		irrVars[i] = r.IRRVar
		multVars[i] = r.MultipleVar
		dpiShares[i] = r.DPIShare
	}

	dpiMean := stats.Mean(dpiShares)
	return domain.DistributionParams{
		IRRVolatility:      math.Sqrt(stats.Mean(irrVars)),
		MultipleVolatility: math.Sqrt(stats.Mean(multVars)),
		DPIMean:            dpiMean,
		DPIVolatility:      stats.StdDev(dpiShares, dpiMean),
	}, nil
}

// ReserveAdjusted re-parameterizes follow-on weighting for a candidate
// reserve ratio: held reserves defend ownership through down rounds, which
// damps multiple volatility roughly linearly in the ratio.
func ReserveAdjusted(params domain.DistributionParams, reserveRatio float64) domain.DistributionParams {
	adjusted := params
	adjusted.MultipleVolatility = params.MultipleVolatility * (1 - 0.5*reserveRatio)
	return adjusted
}
