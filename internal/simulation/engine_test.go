package simulation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/storage/memory"
	"venture-fund-lab/internal/validate"
)

func testConfig(seed int64) domain.SimulationConfig {
	return domain.SimulationConfig{
		ScenarioCount:    10000,
		TimeHorizonYears: 8,
		PortfolioSize:    25,
		StageWeights:     map[domain.Stage]float64{domain.StageSeed: 1.0},
		DeployedCapital:  50,
		RandomSeed:       &seed,
	}
}

func TestSimulate_SameSeedSameResult(t *testing.T) {
	engine := New(Options{})
	cfg := testConfig(12345)

	first, err := engine.Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if first.RunID != second.RunID {
		t.Errorf("run IDs differ: %s vs %s", first.RunID, second.RunID)
	}
	if first.SeedUsed != 12345 || second.SeedUsed != 12345 {
		t.Errorf("seed not echoed: %d / %d", first.SeedUsed, second.SeedUsed)
	}
	if !reflect.DeepEqual(first.Distributions, second.Distributions) {
		t.Error("distributions differ between identical runs")
	}
	if !reflect.DeepEqual(first.Risk, second.Risk) {
		t.Error("risk metrics differ between identical runs")
	}
}

func TestSimulate_DifferentSeedsDiverge(t *testing.T) {
	engine := New(Options{})

	first, err := engine.Simulate(context.Background(), testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Simulate(context.Background(), testConfig(2))
	if err != nil {
		t.Fatal(err)
	}

	if first.Distributions.IRR.Percentiles.P50 == second.Distributions.IRR.Percentiles.P50 {
		t.Error("expected different seeds to produce different medians")
	}
	if first.RunID == second.RunID {
		t.Error("expected different seeds to produce different run IDs")
	}
}

func TestSimulate_NilSeedDerivesOne(t *testing.T) {
	engine := New(Options{})
	cfg := testConfig(0)
	cfg.RandomSeed = nil
	cfg.ScenarioCount = 200

	result, err := engine.Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if result.SeedUsed == 0 {
		t.Error("expected a derived seed to be echoed")
	}
}

func TestSimulate_ValidationRunsFirst(t *testing.T) {
	engine := New(Options{})
	cfg := testConfig(1)
	cfg.ScenarioCount = 99

	_, err := engine.Simulate(context.Background(), cfg)
	if !errors.Is(err, validate.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSimulate_PersistsRunAndSamples(t *testing.T) {
	runStore := memory.NewSimulationRunStore()
	sampleStore := memory.NewScenarioSampleStore()
	engine := New(Options{RunStore: runStore, SampleStore: sampleStore})

	cfg := testConfig(7)
	cfg.ScenarioCount = 500

	result, err := engine.Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	stored, err := runStore.GetByID(context.Background(), result.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.SeedUsed != 7 {
		t.Errorf("stored seed = %d, want 7", stored.SeedUsed)
	}

	samples, err := sampleStore.GetByRunID(context.Background(), result.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 500 {
		t.Fatalf("stored %d samples, want 500", len(samples))
	}
	for i, s := range samples {
		if s.Index != i {
			t.Fatalf("sample %d has index %d, want ascending order", i, s.Index)
		}
	}
}

func TestSimulate_WeightsFromFundConfig(t *testing.T) {
	weightStore := memory.NewStageWeightStore()
	weights := map[domain.Stage]float64{domain.StageSeriesA: 0.6, domain.StageSeriesB: 0.4}
	if err := weightStore.Put(context.Background(), "fund-1", weights); err != nil {
		t.Fatal(err)
	}

	engine := New(Options{WeightSource: weightStore, FundID: "fund-1"})
	cfg := testConfig(9)
	cfg.ScenarioCount = 300
	cfg.StageWeights = nil

	result, err := engine.Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(result.Config.StageWeights, weights) {
		t.Errorf("resolved weights = %v, want fund config %v", result.Config.StageWeights, weights)
	}
}

func TestSimulate_ProgressReachesTotal(t *testing.T) {
	// Callbacks are serialized, so an unsynchronized observer is valid
	// and must see non-decreasing counts ending at the total.
	var seen []int
	engine := New(Options{OnProgress: func(completed, total int) {
		if completed > total {
			t.Errorf("progress %d exceeds total %d", completed, total)
		}
		seen = append(seen, completed)
	}})

	cfg := testConfig(3)
	cfg.ScenarioCount = 2500

	if _, err := engine.Simulate(context.Background(), cfg); err != nil {
		t.Fatal(err)
	}
	if len(seen) == 0 || seen[len(seen)-1] != 2500 {
		t.Fatalf("final progress = %v, want 2500", seen)
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Errorf("progress went backwards: %v", seen)
		}
	}
}

func TestSimulate_CancelledContext(t *testing.T) {
	engine := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Simulate(ctx, testConfig(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOptimizeReserves_DefaultGridDeterministic(t *testing.T) {
	engine := New(Options{})
	cfg := testConfig(42)
	cfg.ScenarioCount = 1000

	first, err := engine.OptimizeReserves(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.OptimizeReserves(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(first.CandidateRatios) != 9 {
		t.Fatalf("default grid has %d candidates, want 9", len(first.CandidateRatios))
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("optimization not deterministic for a fixed seed")
	}
	if first.OptimalRatio < 0.10 || first.OptimalRatio > 0.50 {
		t.Errorf("optimal ratio %v outside candidate grid", first.OptimalRatio)
	}
}

func TestOptimizeReserves_InvalidRatioRejected(t *testing.T) {
	engine := New(Options{})
	cfg := testConfig(1)
	cfg.ScenarioCount = 200

	_, err := engine.OptimizeReserves(context.Background(), cfg, []float64{0.2, 1.5})
	if !errors.Is(err, validate.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
