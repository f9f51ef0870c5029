package domain

// SimulationResult serializes one completed simulation run: per-metric
// distributions, risk metrics and execution metadata. The engine holds no
// state across runs; everything a caller needs is here.
type SimulationResult struct {
	RunID string `json:"run_id"`

	Config        SimulationConfig `json:"config"`
	Distributions Distributions    `json:"distributions"`
	Risk          RiskMetrics      `json:"risk"`

	ExecutionTimeMs int64 `json:"execution_time_ms"`
	ScenarioCount   int   `json:"scenario_count"`
	SeedUsed        int64 `json:"seed_used"`
}

// ScenarioSample is the persisted form of one scenario, keyed by its run.
// High-volume data: a run at the upper bound writes 50,000 rows.
type ScenarioSample struct {
	RunID           string  `json:"run_id"`
	Index           int     `json:"index"`
	IRR             float64 `json:"irr"`
	Multiple        float64 `json:"multiple"`
	DPI             float64 `json:"dpi"`
	TVPI            float64 `json:"tvpi"`
	TotalValue      float64 `json:"total_value"`
	ExitTimingYears float64 `json:"exit_timing_years"`
	FollowOnNeed    float64 `json:"follow_on_need"`
	Stage           string  `json:"stage"`
	Band            string  `json:"band"`
}
