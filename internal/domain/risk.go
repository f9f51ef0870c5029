package domain

// RiskMetrics holds the tail-risk reduction of a scenario set.
// VaR/CVaR are expressed as positive loss magnitudes on the IRR
// distribution (0.12 means a 12% loss).
type RiskMetrics struct {
	VaR95 float64 `json:"var95"`
	VaR99 float64 `json:"var99"`

	CVaR95 float64 `json:"cvar95"`
	CVaR99 float64 `json:"cvar99"`

	// ProbabilityOfLoss is the fraction of scenarios with irr < 0 or
	// multiple < 1.
	ProbabilityOfLoss float64 `json:"probability_of_loss"`

	// SharpeRatio is the Sharpe-style mean(irr)/stddev(irr) ratio
	// (no risk-free subtraction).
	SharpeRatio float64 `json:"sharpe_ratio"`

	// MaxDrawdown is the worst peak-to-trough over the sorted
	// cumulative-value path.
	MaxDrawdown float64 `json:"max_drawdown"`
}
