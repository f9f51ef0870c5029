package stage

import (
	"errors"
	"testing"

	"venture-fund-lab/internal/domain"
)

func TestNormalize_CanonicalAndAliasForms(t *testing.T) {
	cases := []struct {
		label string
		want  domain.Stage
	}{
		{"pre-seed", domain.StagePreSeed},
		{"Pre Seed", domain.StagePreSeed},
		{"PRE_SEED", domain.StagePreSeed},
		{"angel", domain.StagePreSeed},
		{"seed", domain.StageSeed},
		{"  Seed  ", domain.StageSeed},
		{"Series-A", domain.StageSeriesA},
		{"SERIES A", domain.StageSeriesA},
		{"series_a", domain.StageSeriesA},
		{"Series B", domain.StageSeriesB},
		{"series-c", domain.StageSeriesC},
		{"Series C+", domain.StageSeriesCPlus},
		{"series-c-plus", domain.StageSeriesCPlus},
		{"Series D", domain.StageSeriesCPlus},
		{"growth", domain.StageSeriesCPlus},
		{"Late Stage", domain.StageSeriesCPlus},
		{"Séries A", domain.StageSeriesA}, // accented: decomposition strips the mark
	}

	for _, tc := range cases {
		got, err := Normalize(tc.label)
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error %v", tc.label, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestNormalize_FailsClosed(t *testing.T) {
	for _, label := range []string{"series-x", "ipo", "", "   ", "stage 7", "séries-q"} {
		got, err := Normalize(label)
		if err == nil {
			t.Errorf("Normalize(%q) = %q, want error", label, got)
			continue
		}
		if !errors.Is(err, ErrUnknownStage) {
			t.Errorf("Normalize(%q): error %v is not ErrUnknownStage", label, err)
		}
	}
}

// TestNormalize_SeriesCPlusRegression pins the historical defect: under
// naive character stripping "series-c+" became an unmatched string and was
// silently replaced with "seed". It must resolve to series-c-plus, and
// never to any other Ok value.
func TestNormalize_SeriesCPlusRegression(t *testing.T) {
	for _, label := range []string{"series-c+", "Series C+", "SERIES-C+", "series c +"} {
		got, err := Normalize(label)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", label, err)
		}
		if got != domain.StageSeriesCPlus {
			t.Fatalf("Normalize(%q) = %q, want %q", label, got, domain.StageSeriesCPlus)
		}
		if got == domain.StageSeed {
			t.Fatalf("Normalize(%q) silently defaulted to seed", label)
		}
	}
}
