// Package scenario turns distribution draws into portfolio-level outcomes.
package scenario

import (
	"fmt"
	"math"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/returns"
)

// Time-decay constants: rate^max(0, horizon-5), modeling rising valuation
// uncertainty at long horizons. Beyond ten years the decay steepens.
const (
	decayRate        = 0.97
	decayRateLong    = 0.95
	decayGraceYears  = 5
	longHorizonYears = 10
)

// followOnMult scales per-scenario follow-on need by outcome band:
// winners pull reserves, failures mostly do not.
var followOnMult = map[domain.Band]float64{
	domain.BandFailure: 0.25,
	domain.BandModest:  0.75,
	domain.BandGood:    1.0,
	domain.BandHomeRun: 1.25,
	domain.BandUnicorn: 1.5,
}

// Inputs holds the immutable run configuration a generator draws against.
type Inputs struct {
	StageWeights    map[domain.Stage]float64
	DeployedCapital float64
	HorizonYears    int
	ReserveRatio    float64
}

// Generator produces one Scenario per Generate call. It has no side
// effects beyond consuming draws from its sampler, and the draw order is
// fixed: stage pick, return sample, exit timing, then the multiple / IRR /
// DPI volatility normals. Reordering draws silently breaks same-seed
// reproducibility.
type Generator struct {
	sampler *returns.Sampler
	params  domain.DistributionParams
}

// NewGenerator creates a generator over a sampler and calibrated params.
func NewGenerator(sampler *returns.Sampler, params domain.DistributionParams) *Generator {
	return &Generator{sampler: sampler, params: params}
}

// Generate draws one portfolio outcome.
func (g *Generator) Generate(in Inputs) (domain.Scenario, error) {
	stg, err := g.pickStage(in.StageWeights)
	if err != nil {
		return domain.Scenario{}, err
	}

	ret, err := g.sampler.SampleReturn(stg)
	if err != nil {
		return domain.Scenario{}, err
	}

	exit, err := g.sampler.SampleExitTiming(stg, ret.Band)
	if err != nil {
		return domain.Scenario{}, err
	}

	multNoise := g.sampler.Normal(0, g.params.MultipleVolatility)
	irrNoise := g.sampler.Normal(0, g.params.IRRVolatility)
	dpiShare := g.sampler.Normal(g.params.DPIMean, g.params.DPIVolatility)

	return assemble(in, ret, exit.Years, multNoise, irrNoise, dpiShare), nil
}

// assemble computes the scenario from its draws. Pure; split from Generate
// so edge paths (forced zero multiple) are directly testable.
func assemble(in Inputs, ret domain.ReturnSample, exitYears, multNoise, irrNoise, dpiShare float64) domain.Scenario {
	multiple := ret.Multiple * (1 + multNoise)
	if multiple < 0 {
		multiple = 0
	}

	// Closed-form IRR over the holding period. A non-positive multiple
	// yields the exact total-loss sentinel rather than a fractional power
	// of a non-positive base.
	var irr float64
	if multiple <= 0 {
		irr = domain.TotalLossIRR
	} else {
		irr = math.Pow(multiple, 1/exitYears) - 1 + irrNoise
		if irr < domain.TotalLossIRR {
			irr = domain.TotalLossIRR
		}
	}

	horizon := float64(in.HorizonYears)
	rate := decayRate
	if in.HorizonYears > longHorizonYears {
		rate = decayRateLong
	}
	decay := math.Pow(rate, math.Max(0, horizon-decayGraceYears))

	compound := math.Pow(1+irr, horizon)

	totalValue := in.DeployedCapital * multiple * compound * decay
	if totalValue < 0 {
		totalValue = 0
	}

	tvpi := 0.0
	if in.DeployedCapital > 0 {
		tvpi = totalValue / in.DeployedCapital
	}

	if dpiShare < 0 {
		dpiShare = 0
	} else if dpiShare > 1 {
		dpiShare = 1
	}
	dpi := tvpi * dpiShare

	followOn := in.DeployedCapital * in.ReserveRatio * followOnMult[ret.Band]

	return domain.Scenario{
		IRR:             irr,
		Multiple:        multiple,
		DPI:             dpi,
		TVPI:            tvpi,
		TotalValue:      totalValue,
		ExitTimingYears: exitYears,
		FollowOnNeed:    followOn,
		Stage:           ret.Stage,
		Band:            ret.Band,
	}
}

// pickStage selects a stage by one uniform draw against the cumulative
// weights, iterating AllStages in fixed order.
func (g *Generator) pickStage(weights map[domain.Stage]float64) (domain.Stage, error) {
	u := g.sampler.Uniform()

	cumulative := 0.0
	var last domain.Stage
	for _, s := range domain.AllStages {
		w := weights[s]
		if w <= 0 {
			continue
		}
		last = s
		cumulative += w
		if u <= cumulative {
			return s, nil
		}
	}
	// Weight-sum drift below u lands in the last weighted stage.
	if last != "" {
		return last, nil
	}
	return "", fmt.Errorf("no positive stage weights")
}
