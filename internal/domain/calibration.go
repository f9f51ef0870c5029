package domain

// VarianceReport is one historical observation of a fund's realized
// volatility, used to calibrate scenario distribution params.
type VarianceReport struct {
	FundID      string  `json:"fund_id"`
	PeriodEnd   int64   `json:"period_end"` // unix ms
	IRRVar      float64 `json:"irr_var"`
	MultipleVar float64 `json:"multiple_var"`
	DPIShare    float64 `json:"dpi_share"` // realized distributed share of TVPI
}
