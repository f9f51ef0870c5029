package domain

// Band identifies one of the five outcome bands of a stage return profile.
type Band string

// Outcome band constants, in cumulative-walk order.
const (
	BandFailure Band = "failure"
	BandModest  Band = "modest"
	BandGood    Band = "good"
	BandHomeRun Band = "home-run"
	BandUnicorn Band = "unicorn"
)

// AllBands lists the bands in the fixed order the return model walks them.
var AllBands = []Band{BandFailure, BandModest, BandGood, BandHomeRun, BandUnicorn}

// ReturnBand is one probability-weighted partition of outcome multiples.
type ReturnBand struct {
	Band           Band
	LowerMultiple  float64
	UpperMultiple  float64
	Probability    float64
	PowerLawSample bool // home-run/unicorn bands sample the heavy tail
}

// StageReturnProfile holds the empirically calibrated return distribution
// for one stage. Bands are walked in slice order; probabilities sum to 1.0.
// Profiles are fixed configuration data and must never be mutated.
type StageReturnProfile struct {
	Stage       Stage
	FailureRate float64
	Bands       [5]ReturnBand
}

// ReturnSample is one draw from a stage return profile.
type ReturnSample struct {
	Multiple float64 // >= 0
	Band     Band
	Stage    Stage
}

// ExitTimingSample is one holding-period draw, clamped to >= 1 year.
type ExitTimingSample struct {
	Years float64
	Stage Stage
	Band  Band
}
