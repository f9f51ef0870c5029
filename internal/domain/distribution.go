package domain

// Percentiles holds the fixed percentile cuts reported per metric.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P95 float64 `json:"p95"`
}

// ConfidenceInterval is a symmetric mean +/- k*sigma interval.
// These are a documented normal approximation, not an exact-coverage
// guarantee: actual venture returns are heavily skewed.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// PerformanceDistribution is the deterministic reduction of one metric's
// scenario samples. Never mutated after aggregation.
type PerformanceDistribution struct {
	SortedValues []float64          `json:"-"`
	Percentiles  Percentiles        `json:"percentiles"`
	Mean         float64            `json:"mean"`
	StdDev       float64            `json:"std_dev"`
	Min          float64            `json:"min"`
	Max          float64            `json:"max"`
	CI68         ConfidenceInterval `json:"ci68"`
	CI95         ConfidenceInterval `json:"ci95"`
}

// Distributions groups the per-metric performance distributions of a run.
type Distributions struct {
	IRR        PerformanceDistribution `json:"irr"`
	Multiple   PerformanceDistribution `json:"multiple"`
	DPI        PerformanceDistribution `json:"dpi"`
	TVPI       PerformanceDistribution `json:"tvpi"`
	TotalValue PerformanceDistribution `json:"total_value"`
	ExitTiming PerformanceDistribution `json:"exit_timing"`
}
