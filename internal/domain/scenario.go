package domain

// Scenario is one simulated, self-consistent portfolio outcome.
// Immutable once generated; owned by its producing batch until
// aggregation consumes it.
//
// IRR may be exactly -1.0 (the total-loss sentinel) or anything above;
// DPI, TVPI and TotalValue are clamped to >= 0 and ExitTimingYears to >= 1.
type Scenario struct {
	IRR             float64 `json:"irr"`
	Multiple        float64 `json:"multiple"`
	DPI             float64 `json:"dpi"`
	TVPI            float64 `json:"tvpi"`
	TotalValue      float64 `json:"total_value"`
	ExitTimingYears float64 `json:"exit_timing_years"`
	FollowOnNeed    float64 `json:"follow_on_need"`

	// Provenance of the draw, kept for band/stage attribution in reports.
	Stage Stage `json:"stage"`
	Band  Band  `json:"band"`
}

// TotalLossIRR is the sentinel IRR for a scenario whose multiple is <= 0.
// It is an intentional local recovery, not an error: callers must treat it
// as a valid sample.
const TotalLossIRR = -1.0
