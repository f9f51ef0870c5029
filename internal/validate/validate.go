// Package validate is the fail-fast gate at every public engine entry
// point. Checks run in three tiers, structure then finiteness then range,
// and the first failure is surfaced with field name and offending value.
// Nothing is ever auto-corrected or clamped here.
package validate

import (
	"errors"
	"fmt"
	"math"

	"venture-fund-lab/internal/domain"
)

// ErrValidation marks every validation failure so callers can separate
// "fix your input" from system failures with errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldError reports one invalid field with its value.
type FieldError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("validation failed: field %q = %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap ties FieldError to ErrValidation.
func (e *FieldError) Unwrap() error {
	return ErrValidation
}

func fail(field string, value interface{}, reason string) error {
	return &FieldError{Field: field, Value: value, Reason: reason}
}

// Config validates a simulation config. Must pass before any sampling
// happens.
func Config(cfg domain.SimulationConfig) error {
	// Tier 1: structure.
	if cfg.StageWeights == nil {
		return fail("stageWeights", nil, "required")
	}
	if len(cfg.StageWeights) == 0 {
		return fail("stageWeights", cfg.StageWeights, "at least one stage weight required")
	}
	for s := range cfg.StageWeights {
		if !s.Valid() {
			return fail("stageWeights", string(s), "not a canonical stage")
		}
	}

	// Tier 2: finiteness.
	if err := finite("deployedCapital", cfg.DeployedCapital); err != nil {
		return err
	}
	if err := finite("reserveRatio", cfg.ReserveRatio); err != nil {
		return err
	}
	for s, w := range cfg.StageWeights {
		if err := finite(fmt.Sprintf("stageWeights[%s]", s), w); err != nil {
			return err
		}
	}

	// Tier 3: range.
	if cfg.ScenarioCount < domain.MinScenarioCount || cfg.ScenarioCount > domain.MaxScenarioCount {
		return fail("scenarioCount", cfg.ScenarioCount,
			fmt.Sprintf("must be in [%d, %d]", domain.MinScenarioCount, domain.MaxScenarioCount))
	}
	if cfg.TimeHorizonYears < domain.MinTimeHorizonYears || cfg.TimeHorizonYears > domain.MaxTimeHorizonYears {
		return fail("timeHorizonYears", cfg.TimeHorizonYears,
			fmt.Sprintf("must be in [%d, %d]", domain.MinTimeHorizonYears, domain.MaxTimeHorizonYears))
	}
	if cfg.PortfolioSize <= 0 {
		return fail("portfolioSize", cfg.PortfolioSize, "must be positive")
	}
	if cfg.DeployedCapital <= 0 {
		return fail("deployedCapital", cfg.DeployedCapital, "must be positive")
	}
	if cfg.ReserveRatio < 0 || cfg.ReserveRatio >= 1 {
		return fail("reserveRatio", cfg.ReserveRatio, "must be in [0, 1)")
	}
	if cfg.RandomSeed != nil && *cfg.RandomSeed < 0 {
		return fail("randomSeed", *cfg.RandomSeed, "must be non-negative")
	}

	sum := 0.0
	for s, w := range cfg.StageWeights {
		if w < 0 || w > 1 {
			return fail(fmt.Sprintf("stageWeights[%s]", s), w, "must be in [0, 1]")
		}
		sum += w
	}
	if math.Abs(sum-1.0) > domain.StageWeightSumEpsilon {
		return fail("stageWeights", sum, "weights must sum to 1.0")
	}

	return nil
}

// ReserveRatios validates a candidate ratio grid for the optimizer.
func ReserveRatios(ratios []float64) error {
	if len(ratios) == 0 {
		return fail("candidateRatios", ratios, "at least one candidate ratio required")
	}
	for i, r := range ratios {
		field := fmt.Sprintf("candidateRatios[%d]", i)
		if err := finite(field, r); err != nil {
			return err
		}
		if r <= 0 || r >= 1 {
			return fail(field, r, "must be in (0, 1)")
		}
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) {
		return fail(field, v, "must not be NaN")
	}
	if math.IsInf(v, 0) {
		return fail(field, v, "must be finite")
	}
	return nil
}
