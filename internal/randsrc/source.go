// Package randsrc provides the deterministic random source driving all
// scenario sampling. Same seed means the identical infinite draw sequence
// regardless of host, timing or parallelism: each concurrent unit owns its
// own Source and no Source is ever shared.
package randsrc

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSeed is returned when a Source is seeded with a negative value.
var ErrInvalidSeed = errors.New("invalid seed: must be non-negative")

// LCG parameters (Numerical Recipes). Period 2^32.
const (
	lcgA = 1664525
	lcgC = 1013904223
	lcgM = 1 << 32
)

// Source is a seeded linear congruential generator with uniform, normal
// and power-law draws. Not safe for concurrent use; concurrent units each
// take their own instance seeded from baseSeed + index.
type Source struct {
	state uint64
}

// New creates a Source from a non-negative seed.
func New(seed int64) (*Source, error) {
	if seed < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeed, seed)
	}
	return &Source{state: uint64(seed) % lcgM}, nil
}

// Seed resets the generator state from a non-negative seed.
func (s *Source) Seed(seed int64) error {
	if seed < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSeed, seed)
	}
	s.state = uint64(seed) % lcgM
	return nil
}

// Uniform returns the next draw in [0, 1).
func (s *Source) Uniform() float64 {
	s.state = (lcgA*s.state + lcgC) % lcgM
	return float64(s.state) / float64(lcgM)
}

// Normal returns a normally distributed draw via Box-Muller.
// Consumes exactly two uniforms.
func (s *Source) Normal(mean, stdDev float64) float64 {
	u1 := s.Uniform()
	u2 := s.Uniform()
	// ln(0) is -Inf; the LCG can emit an exact zero once per period.
	if u1 == 0 {
		u1 = 1.0 / lcgM
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stdDev*z
}

// PowerLaw returns a draw from a bounded Pareto distribution on
// [min, max] with tail exponent alpha, via the inverse CDF. Consumes
// exactly one uniform. The result is clamped to max against floating
// point drift at u -> 1.
func (s *Source) PowerLaw(min, max, alpha float64) float64 {
	u := s.Uniform()

	// alpha = 1 degenerates the general inverse CDF; the closed form is
	// the log-uniform draw min * (max/min)^u.
	if alpha == 1 {
		v := min * math.Pow(max/min, u)
		if v > max {
			return max
		}
		return v
	}

	exp := alpha - 1
	v := min * math.Pow(1-u*(1-math.Pow(min/max, exp)), -1/exp)
	if v > max {
		return max
	}
	return v
}
