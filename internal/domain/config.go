package domain

// Bounds for SimulationConfig fields. Validation rejects anything outside;
// values are never silently clamped.
const (
	MinScenarioCount = 100
	MaxScenarioCount = 50000

	MinTimeHorizonYears = 1
	MaxTimeHorizonYears = 15

	// StageWeightSumEpsilon is the tolerance when checking that stage
	// weights sum to 1.0.
	StageWeightSumEpsilon = 1e-6
)

// SimulationConfig is the input for one simulation run.
// All fields are primitive and serializable so any RPC/HTTP layer can
// front the engine without translation.
type SimulationConfig struct {
	ScenarioCount    int               `json:"scenario_count"`
	TimeHorizonYears int               `json:"time_horizon_years"`
	PortfolioSize    int               `json:"portfolio_size"`
	StageWeights     map[Stage]float64 `json:"stage_weights"`
	DeployedCapital  float64           `json:"deployed_capital"`
	RandomSeed       *int64            `json:"random_seed,omitempty"` // nil: derived from wall clock, echoed as SeedUsed
	ReserveRatio     float64           `json:"reserve_ratio,omitempty"`
}

// DistributionParams holds the volatility parameters the scenario generator
// draws against. Derived from calibration (historical variance reports or
// industry defaults), never hard-coded at call sites.
type DistributionParams struct {
	IRRVolatility      float64 `json:"irr_volatility"`
	MultipleVolatility float64 `json:"multiple_volatility"`
	DPIMean            float64 `json:"dpi_mean"` // expected distributed share of TVPI
	DPIVolatility      float64 `json:"dpi_volatility"`
}
