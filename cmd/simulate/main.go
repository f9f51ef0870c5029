// Package main provides a one-shot simulation CLI. Runs a single
// configuration, prints a summary, and optionally writes Markdown/CSV
// reports and persists the run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"venture-fund-lab/internal/calibration"
	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/reporting"
	"venture-fund-lab/internal/simulation"
	"venture-fund-lab/internal/stage"
	"venture-fund-lab/internal/storage"
	"venture-fund-lab/internal/storage/migrations"
	pgstore "venture-fund-lab/internal/storage/postgres"
)

func main() {
	// Simulation parameters
	scenarioCount := flag.Int("scenarios", 10000, "Number of scenarios to generate")
	horizonYears := flag.Int("horizon", 10, "Time horizon in years")
	portfolioSize := flag.Int("portfolio-size", 25, "Number of portfolio companies")
	stageWeights := flag.String("stage-weights", "seed=0.6,series-a=0.4", "Comma-separated stage=weight pairs")
	deployedCapital := flag.Float64("capital", 100, "Deployed capital")
	seed := flag.Int64("seed", -1, "Random seed (negative: derive from clock)")
	reserveRatio := flag.Float64("reserve-ratio", 0, "Follow-on reserve ratio")

	// Reserve optimization
	optimize := flag.Bool("optimize-reserves", false, "Run the reserve-ratio grid search after the base run")

	// Storage
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional)")
	fundID := flag.String("fund-id", "default", "Fund identifier for calibration lookups")
	persist := flag.Bool("persist", false, "Persist the run result")

	// Output
	outputDir := flag.String("output-dir", "", "Directory for Markdown/CSV reports (empty: stdout summary only)")
	outputJSON := flag.Bool("json", false, "Print the full result as JSON")
	verbose := flag.Bool("verbose", false, "Verbose engine logging")

	flag.Parse()

	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	weights, err := parseStageWeights(*stageWeights)
	if err != nil {
		logger.Fatalf("Invalid --stage-weights: %v", err)
	}

	cfg := domain.SimulationConfig{
		ScenarioCount:    *scenarioCount,
		TimeHorizonYears: *horizonYears,
		PortfolioSize:    *portfolioSize,
		StageWeights:     weights,
		DeployedCapital:  *deployedCapital,
		ReserveRatio:     *reserveRatio,
	}
	if *seed >= 0 {
		cfg.RandomSeed = seed
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Stores are optional for a one-shot run.
	var (
		runStore      storage.SimulationRunStore
		varianceStore storage.VarianceReportStore
	)
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("postgres migrations: %v", err)
		}

		varianceStore = pgstore.NewVarianceReportStore(pool)
		if *persist {
			runStore = pgstore.NewSimulationRunStore(pool)
		}
	} else if *persist {
		logger.Fatal("--persist requires --postgres-dsn")
	}

	engine := simulation.New(simulation.Options{
		Calibrator: calibration.NewCalibrator(varianceStore),
		RunStore:   runStore,
		FundID:     *fundID,
		Verbose:    *verbose,
	})

	logger.Printf("Running simulation: %d scenarios, %dy horizon", cfg.ScenarioCount, cfg.TimeHorizonYears)

	result, err := engine.Simulate(ctx, cfg)
	if err != nil {
		logger.Fatalf("simulation failed: %v", err)
	}

	var reserveResult *domain.ReserveOptimizationResult
	if *optimize {
		logger.Print("Running reserve optimization...")
		r, err := engine.OptimizeReserves(ctx, cfg, nil)
		if err != nil {
			logger.Fatalf("reserve optimization failed: %v", err)
		}
		reserveResult = &r
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		if reserveResult != nil {
			output, _ := json.MarshalIndent(reserveResult, "", "  ")
			fmt.Println(string(output))
		}
	} else {
		printSummary(result, reserveResult)
	}

	if *outputDir != "" {
		if err := writeReports(*outputDir, result, reserveResult); err != nil {
			logger.Fatalf("write reports: %v", err)
		}
		logger.Printf("Reports written to %s/", *outputDir)
	}
}

// parseStageWeights parses "label=weight,label=weight" into canonical stage
// weights. Labels go through the normalizer, so "Series A" and "series-a"
// both work.
func parseStageWeights(raw string) (map[domain.Stage]float64, error) {
	weights := make(map[domain.Stage]float64)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed pair %q", pair)
		}

		canonical, err := stage.Normalize(parts[0])
		if err != nil {
			return nil, err
		}

		var w float64
		if _, err := fmt.Sscanf(strings.TrimSpace(parts[1]), "%g", &w); err != nil {
			return nil, fmt.Errorf("weight for %q: %w", parts[0], err)
		}
		weights[canonical] += w
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("no stage weights given")
	}
	return weights, nil
}

// printSummary outputs a human-readable result summary.
func printSummary(r *domain.SimulationResult, reserve *domain.ReserveOptimizationResult) {
	fmt.Println()
	fmt.Println("=== Simulation Result ===")
	fmt.Printf("Run ID:         %s\n", r.RunID)
	fmt.Printf("Seed:           %d\n", r.SeedUsed)
	fmt.Printf("Scenarios:      %d\n", r.ScenarioCount)
	fmt.Printf("Took:           %dms\n", r.ExecutionTimeMs)
	fmt.Println()

	fmt.Println("IRR:")
	fmt.Printf("  Mean:         %.4f\n", r.Distributions.IRR.Mean)
	fmt.Printf("  Median:       %.4f\n", r.Distributions.IRR.Percentiles.P50)
	fmt.Printf("  P5 / P95:     %.4f / %.4f\n", r.Distributions.IRR.Percentiles.P5, r.Distributions.IRR.Percentiles.P95)
	fmt.Println()

	fmt.Println("Multiple:")
	fmt.Printf("  Mean:         %.4f\n", r.Distributions.Multiple.Mean)
	fmt.Printf("  Median:       %.4f\n", r.Distributions.Multiple.Percentiles.P50)
	fmt.Println()

	fmt.Println("Risk:")
	fmt.Printf("  VaR 95:       %.4f\n", r.Risk.VaR95)
	fmt.Printf("  CVaR 95:      %.4f\n", r.Risk.CVaR95)
	fmt.Printf("  P(loss):      %.4f\n", r.Risk.ProbabilityOfLoss)
	fmt.Printf("  Sharpe:       %.4f\n", r.Risk.SharpeRatio)

	if reserve != nil {
		fmt.Println()
		fmt.Println("Reserve Optimization:")
		fmt.Printf("  Optimal:      %.2f\n", reserve.OptimalRatio)
		fmt.Printf("  Improvement:  %+.4f\n", reserve.Improvement)
	}
}

// writeReports renders Markdown and CSV reports into dir.
func writeReports(dir string, result *domain.SimulationResult, reserve *domain.ReserveOptimizationResult) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	report := reporting.NewGenerator(nil).FromResult(result, reserve)

	mdPath := filepath.Join(dir, fmt.Sprintf("run_%s.md", result.RunID))
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0644); err != nil {
		return err
	}

	csvPath := filepath.Join(dir, fmt.Sprintf("run_%s.csv", result.RunID))
	return os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Metrics)), 0644)
}
