package runid

import (
	"testing"

	"venture-fund-lab/internal/domain"
)

func config() domain.SimulationConfig {
	return domain.SimulationConfig{
		ScenarioCount:    10000,
		TimeHorizonYears: 8,
		PortfolioSize:    25,
		StageWeights: map[domain.Stage]float64{
			domain.StageSeed:    0.6,
			domain.StageSeriesA: 0.4,
		},
		DeployedCapital: 50,
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute(config(), 12345)
	b := Compute(config(), 12345)
	if a != b {
		t.Fatalf("same config produced different IDs: %s vs %s", a, b)
	}
	if a == "" {
		t.Fatal("empty run ID")
	}
}

func TestCompute_SeedChangesID(t *testing.T) {
	if Compute(config(), 1) == Compute(config(), 2) {
		t.Fatal("different seeds produced the same ID")
	}
}

func TestCompute_ConfigChangesID(t *testing.T) {
	base := Compute(config(), 1)

	cfg := config()
	cfg.ScenarioCount = 20000
	if Compute(cfg, 1) == base {
		t.Fatal("scenario count change did not change ID")
	}

	cfg = config()
	cfg.StageWeights[domain.StageSeed] = 0.5
	cfg.StageWeights[domain.StageSeriesA] = 0.5
	if Compute(cfg, 1) == base {
		t.Fatal("stage weight change did not change ID")
	}
}
