package reporting

import "time"

// Report is the renderable summary of one simulation run.
type Report struct {
	// Metadata
	GeneratedAt     time.Time
	RunID           string
	SeedUsed        int64
	ScenarioCount   int
	ExecutionTimeMs int64

	// Run configuration
	Config ConfigSummary

	// Per-metric distribution rows (fixed order: IRR, Multiple, DPI, TVPI,
	// Total Value, Exit Timing)
	Metrics []MetricRow

	// Risk metrics
	Risk RiskSection

	// Reserve optimization, present only when the run included one.
	Reserve *ReserveSection
}

// ConfigSummary is the flattened run configuration.
type ConfigSummary struct {
	TimeHorizonYears int
	PortfolioSize    int
	DeployedCapital  float64
	ReserveRatio     float64
	StageWeights     []StageWeightRow // sorted by stage order
}

// StageWeightRow is one stage weight entry.
type StageWeightRow struct {
	Stage  string
	Weight float64
}

// MetricRow is one row in the distributions table.
type MetricRow struct {
	Name   string
	Mean   float64
	StdDev float64
	P5     float64
	P25    float64
	P50    float64
	P75    float64
	P95    float64
	Min    float64
	Max    float64
}

// RiskSection holds the run's downside metrics.
type RiskSection struct {
	VaR95             float64
	VaR99             float64
	CVaR95            float64
	CVaR99            float64
	ProbabilityOfLoss float64
	SharpeRatio       float64
	MaxDrawdown       float64
}

// ReserveSection holds the reserve grid-search outcome.
type ReserveSection struct {
	OptimalRatio float64
	Improvement  float64
	Candidates   []ReserveCandidateRow
}

// ReserveCandidateRow is one candidate in the reserve grid.
type ReserveCandidateRow struct {
	Ratio     float64
	Objective float64
	Optimal   bool
}
