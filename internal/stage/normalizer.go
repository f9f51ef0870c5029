// Package stage maps free-form investment-stage labels onto the closed
// canonical set. Normalization is fail-closed: an unrecognized label is an
// explicit error, never a default stage. A permissive character-stripping
// version of this code once mapped "series-c+" to an unmatched string that
// silently defaulted to "seed", erasing that stage from every downstream
// distribution; everything here exists to keep that from recurring.
package stage

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"venture-fund-lab/internal/domain"
)

// ErrUnknownStage is returned when a label does not resolve to a canonical
// stage. Callers must propagate it; mapping it to a default stage upstream
// of capital decisions is a defect.
var ErrUnknownStage = errors.New("unknown stage")

// aliases maps canonical keys (see canonicalKey) to stages. The '+' sign is
// part of the allowed alphabet precisely so "series-c+" resolves instead of
// degrading into an unmatched string.
var aliases = map[string]domain.Stage{
	"preseed": domain.StagePreSeed,
	"angel":   domain.StagePreSeed,

	"seed": domain.StageSeed,

	"seriesa": domain.StageSeriesA,
	"seriesb": domain.StageSeriesB,
	"seriesc": domain.StageSeriesC,

	"seriesc+":     domain.StageSeriesCPlus,
	"seriescplus":  domain.StageSeriesCPlus,
	"seriescplus+": domain.StageSeriesCPlus,
	"seriesd":      domain.StageSeriesCPlus,
	"seriese":      domain.StageSeriesCPlus,
	"growth":       domain.StageSeriesCPlus,
	"latestage":    domain.StageSeriesCPlus,
}

// Normalize resolves a free-form label to its canonical stage.
// Pipeline: Unicode canonical decomposition, lowercase, whitespace
// collapse, restriction to [a-z0-9+], alias lookup.
func Normalize(label string) (domain.Stage, error) {
	key := canonicalKey(label)
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, label)
	}

	s, ok := aliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, label)
	}
	return s, nil
}

// canonicalKey reduces a label to the restricted [a-z0-9+] alphabet used
// as the alias-table key.
func canonicalKey(label string) string {
	decomposed := norm.NFD.String(label)
	lowered := strings.ToLower(decomposed)
	collapsed := strings.Join(strings.Fields(lowered), " ")

	var b strings.Builder
	b.Grow(len(collapsed))
	for _, r := range collapsed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '+':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '_', r == '.', r == '/':
			// separators carry no information once the alphabet is fixed
		}
	}
	return b.String()
}
