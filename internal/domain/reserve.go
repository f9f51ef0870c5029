package domain

// ReserveOptimizationResult is the outcome of a reserve-ratio grid search.
// A pure function of the re-run distributions: same config and seed yield
// byte-identical results.
type ReserveOptimizationResult struct {
	CandidateRatios []float64 `json:"candidate_ratios"`

	// ObjectiveByRatio aligns 1:1 with CandidateRatios.
	ObjectiveByRatio []float64 `json:"objective_by_ratio"`

	OptimalRatio float64 `json:"optimal_ratio"`

	// Improvement is the optimal objective minus the objective at the
	// lowest candidate ratio.
	Improvement float64 `json:"improvement"`
}

// DefaultReserveRatios is the default candidate grid: 10% to 50% in
// 5-point steps (9 candidates).
var DefaultReserveRatios = []float64{0.10, 0.15, 0.20, 0.25, 0.30, 0.35, 0.40, 0.45, 0.50}
