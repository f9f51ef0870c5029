package returns

import (
	"fmt"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/randsrc"
)

// Sampler draws return and exit-timing samples for canonical stages.
// It consumes draws from its Source in a fixed order, which is what makes
// same-seed runs byte-identical; never reorder the draw sequence.
type Sampler struct {
	src *randsrc.Source
}

// NewSampler creates a sampler over the given source.
func NewSampler(src *randsrc.Source) *Sampler {
	return &Sampler{src: src}
}

// SampleReturn draws one outcome multiple for a stage.
// One uniform selects the band by cumulative-probability walk in fixed
// band order; a second draw places the multiple within the band: uniform
// for failure/modest/good, bounded power law for home-run/unicorn.
func (s *Sampler) SampleReturn(stage domain.Stage) (domain.ReturnSample, error) {
	p, err := Profile(stage)
	if err != nil {
		return domain.ReturnSample{}, err
	}

	u := s.src.Uniform()

	cumulative := 0.0
	band := p.Bands[len(p.Bands)-1] // rounding drift lands in the last band
	for _, b := range p.Bands {
		cumulative += b.Probability
		if u <= cumulative {
			band = b
			break
		}
	}

	var multiple float64
	if band.PowerLawSample {
		multiple = s.src.PowerLaw(band.LowerMultiple, band.UpperMultiple, PowerLawAlpha)
	} else {
		multiple = band.LowerMultiple + s.src.Uniform()*(band.UpperMultiple-band.LowerMultiple)
	}
	if multiple < 0 {
		multiple = 0
	}

	return domain.ReturnSample{Multiple: multiple, Band: band.Band, Stage: stage}, nil
}

// SampleExitTiming draws the holding period in years for a stage/band
// pair: base[stage] * mult[band] + noise, noise uniform in [-1, +1],
// clamped to a minimum of 1 year. Consumes exactly one uniform.
func (s *Sampler) SampleExitTiming(stage domain.Stage, band domain.Band) (domain.ExitTimingSample, error) {
	base, ok := baseTiming[stage]
	if !ok {
		return domain.ExitTimingSample{}, fmt.Errorf("no base timing for stage %q", stage)
	}
	mult, ok := bandTimingMult[band]
	if !ok {
		return domain.ExitTimingSample{}, fmt.Errorf("no timing multiplier for band %q", band)
	}

	noise := 2*s.src.Uniform() - 1
	years := base*mult + noise
	if years < 1 {
		years = 1
	}

	return domain.ExitTimingSample{Years: years, Stage: stage, Band: band}, nil
}

// Normal exposes the underlying source's normal draw so the scenario
// generator keeps a single fixed draw stream.
func (s *Sampler) Normal(mean, stdDev float64) float64 {
	return s.src.Normal(mean, stdDev)
}

// Uniform exposes the underlying source's uniform draw.
func (s *Sampler) Uniform() float64 {
	return s.src.Uniform()
}
