// Package returns holds the per-stage return distribution model and the
// exit timing model. Profiles are calibration data pinned to published
// venture benchmarks; they are fixed configuration, never derived at
// runtime.
package returns

import (
	"fmt"

	"venture-fund-lab/internal/domain"
)

// PowerLawAlpha is the tail exponent used for home-run and unicorn bands.
// Venture outcome tails are empirically close to the 80/20 Pareto
// (alpha ~ 1.16).
const PowerLawAlpha = 1.16

// profileTolerance bounds the allowed drift of a profile's band
// probability sum from 1.0.
const profileTolerance = 1e-9

func profile(s domain.Stage, failureUpper float64, probs [5]float64, bounds [5][2]float64) domain.StageReturnProfile {
	p := domain.StageReturnProfile{Stage: s, FailureRate: probs[0]}
	for i, band := range domain.AllBands {
		p.Bands[i] = domain.ReturnBand{
			Band:           band,
			LowerMultiple:  bounds[i][0],
			UpperMultiple:  bounds[i][1],
			Probability:    probs[i],
			PowerLawSample: band == domain.BandHomeRun || band == domain.BandUnicorn,
		}
	}
	p.Bands[0].UpperMultiple = failureUpper
	return p
}

// profiles holds the calibrated return distribution per stage.
// Failure rates run from ~70% at pre-seed down to ~20% at series-c-plus;
// upper multiples compress as stages mature.
var profiles = map[domain.Stage]domain.StageReturnProfile{
	domain.StagePreSeed: profile(domain.StagePreSeed, 0.5,
		[5]float64{0.70, 0.15, 0.09, 0.05, 0.01},
		[5][2]float64{{0, 0.5}, {1, 3}, {3, 10}, {10, 50}, {50, 1000}}),

	domain.StageSeed: profile(domain.StageSeed, 0.5,
		[5]float64{0.65, 0.18, 0.10, 0.055, 0.015},
		[5][2]float64{{0, 0.5}, {1, 3}, {3, 10}, {10, 50}, {50, 500}}),

	domain.StageSeriesA: profile(domain.StageSeriesA, 0.6,
		[5]float64{0.50, 0.25, 0.15, 0.08, 0.02},
		[5][2]float64{{0, 0.6}, {1, 3}, {3, 8}, {8, 30}, {30, 250}}),

	domain.StageSeriesB: profile(domain.StageSeriesB, 0.7,
		[5]float64{0.40, 0.30, 0.19, 0.09, 0.02},
		[5][2]float64{{0, 0.7}, {1, 2.5}, {2.5, 6}, {6, 20}, {20, 120}}),

	domain.StageSeriesC: profile(domain.StageSeriesC, 0.8,
		[5]float64{0.30, 0.35, 0.22, 0.11, 0.02},
		[5][2]float64{{0, 0.8}, {1, 2}, {2, 5}, {5, 15}, {15, 80}}),

	domain.StageSeriesCPlus: profile(domain.StageSeriesCPlus, 0.85,
		[5]float64{0.20, 0.40, 0.26, 0.12, 0.02},
		[5][2]float64{{0, 0.85}, {1, 2}, {2, 4}, {4, 12}, {12, 50}}),
}

// VerifyProfiles checks every profile's band probabilities sum to 1.0
// within tolerance and the failure rate matches the failure band. Run by
// tests and at engine construction so a bad calibration edit fails loudly
// instead of skewing distributions.
func VerifyProfiles() error {
	for _, s := range domain.AllStages {
		p, ok := profiles[s]
		if !ok {
			return fmt.Errorf("stage %q has no return profile", s)
		}
		sum := 0.0
		for _, b := range p.Bands {
			if b.LowerMultiple > b.UpperMultiple {
				return fmt.Errorf("stage %q band %q: lower %v > upper %v", s, b.Band, b.LowerMultiple, b.UpperMultiple)
			}
			sum += b.Probability
		}
		if diff := sum - 1.0; diff > profileTolerance || diff < -profileTolerance {
			return fmt.Errorf("stage %q band probabilities sum to %v, want 1.0", s, sum)
		}
		if p.FailureRate != p.Bands[0].Probability {
			return fmt.Errorf("stage %q failure rate %v does not match failure band %v", s, p.FailureRate, p.Bands[0].Probability)
		}
	}
	return nil
}

// Profile returns the fixed return profile for a canonical stage.
func Profile(s domain.Stage) (domain.StageReturnProfile, error) {
	p, ok := profiles[s]
	if !ok {
		return domain.StageReturnProfile{}, fmt.Errorf("no return profile for stage %q", s)
	}
	return p, nil
}

// baseTiming is the expected holding period per stage in years,
// monotonically decreasing from earliest to latest stage.
var baseTiming = map[domain.Stage]float64{
	domain.StagePreSeed:     8.0,
	domain.StageSeed:        7.0,
	domain.StageSeriesA:     6.0,
	domain.StageSeriesB:     5.0,
	domain.StageSeriesC:     4.0,
	domain.StageSeriesCPlus: 3.0,
}

// bandTimingMult scales holding period by outcome band: failures resolve
// fast, unicorns are held long.
var bandTimingMult = map[domain.Band]float64{
	domain.BandFailure: 0.6,
	domain.BandModest:  0.9,
	domain.BandGood:    1.0,
	domain.BandHomeRun: 1.2,
	domain.BandUnicorn: 1.4,
}
