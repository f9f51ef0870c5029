package domain

// Stage is a canonical investment-stage tag.
// The set is closed: adding a stage is a reviewed, compiled change,
// never a runtime string. Distribution tables are indexed by Stage.
type Stage string

// Canonical stage constants, ordered earliest to latest.
const (
	StagePreSeed     Stage = "pre-seed"
	StageSeed        Stage = "seed"
	StageSeriesA     Stage = "series-a"
	StageSeriesB     Stage = "series-b"
	StageSeriesC     Stage = "series-c"
	StageSeriesCPlus Stage = "series-c-plus"
)

// AllStages lists every canonical stage earliest-first.
// Iteration over stage weights always follows this order so that
// draw sequences are identical across runs with the same seed.
var AllStages = []Stage{
	StagePreSeed,
	StageSeed,
	StageSeriesA,
	StageSeriesB,
	StageSeriesC,
	StageSeriesCPlus,
}

// Valid reports whether s is a member of the canonical set.
func (s Stage) Valid() bool {
	switch s {
	case StagePreSeed, StageSeed, StageSeriesA, StageSeriesB, StageSeriesC, StageSeriesCPlus:
		return true
	}
	return false
}
