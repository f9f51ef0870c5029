package validate

import (
	"errors"
	"math"
	"testing"

	"venture-fund-lab/internal/domain"
)

func validConfig() domain.SimulationConfig {
	return domain.SimulationConfig{
		ScenarioCount:    10000,
		TimeHorizonYears: 8,
		PortfolioSize:    25,
		StageWeights:     map[domain.Stage]float64{domain.StageSeed: 1.0},
		DeployedCapital:  50,
	}
}

func TestConfig_Valid(t *testing.T) {
	if err := Config(validConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestConfig_ScenarioCountBoundaries(t *testing.T) {
	for _, tc := range []struct {
		count int
		ok    bool
	}{
		{99, false},
		{100, true},
		{50000, true},
		{51000, false},
	} {
		cfg := validConfig()
		cfg.ScenarioCount = tc.count
		err := Config(cfg)
		if tc.ok && err != nil {
			t.Errorf("scenarioCount=%d: unexpected error %v", tc.count, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("scenarioCount=%d: expected validation error", tc.count)
		}
	}
}

func TestConfig_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.SimulationConfig)
	}{
		{"nil weights", func(c *domain.SimulationConfig) { c.StageWeights = nil }},
		{"empty weights", func(c *domain.SimulationConfig) { c.StageWeights = map[domain.Stage]float64{} }},
		{"non-canonical stage", func(c *domain.SimulationConfig) {
			c.StageWeights = map[domain.Stage]float64{domain.Stage("series-x"): 1.0}
		}},
		{"NaN capital", func(c *domain.SimulationConfig) { c.DeployedCapital = math.NaN() }},
		{"Inf weight", func(c *domain.SimulationConfig) {
			c.StageWeights[domain.StageSeed] = math.Inf(1)
		}},
		{"horizon high", func(c *domain.SimulationConfig) { c.TimeHorizonYears = 16 }},
		{"horizon low", func(c *domain.SimulationConfig) { c.TimeHorizonYears = 0 }},
		{"zero portfolio", func(c *domain.SimulationConfig) { c.PortfolioSize = 0 }},
		{"zero capital", func(c *domain.SimulationConfig) { c.DeployedCapital = 0 }},
		{"negative seed", func(c *domain.SimulationConfig) { s := int64(-5); c.RandomSeed = &s }},
		{"weights sum short", func(c *domain.SimulationConfig) {
			c.StageWeights = map[domain.Stage]float64{domain.StageSeed: 0.5, domain.StageSeriesA: 0.4}
		}},
		{"negative weight", func(c *domain.SimulationConfig) {
			c.StageWeights = map[domain.Stage]float64{domain.StageSeed: 1.5, domain.StageSeriesA: -0.5}
		}},
		{"reserve ratio one", func(c *domain.SimulationConfig) { c.ReserveRatio = 1.0 }},
	}

	for _, tc := range cases {
		cfg := validConfig()
		tc.mutate(&cfg)
		err := Config(cfg)
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: error %v does not wrap ErrValidation", tc.name, err)
		}
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Errorf("%s: error %v is not a FieldError", tc.name, err)
		} else if fe.Field == "" {
			t.Errorf("%s: field error missing field name", tc.name)
		}
	}
}

func TestReserveRatios(t *testing.T) {
	if err := ReserveRatios(domain.DefaultReserveRatios); err != nil {
		t.Fatalf("default grid rejected: %v", err)
	}
	for _, bad := range [][]float64{nil, {}, {0}, {1}, {-0.1}, {0.2, math.NaN()}} {
		if err := ReserveRatios(bad); err == nil {
			t.Errorf("ratios %v: expected validation error", bad)
		}
	}
}
