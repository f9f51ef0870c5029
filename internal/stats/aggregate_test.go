package stats

import (
	"math"
	"testing"
)

func TestAggregate_Empty(t *testing.T) {
	if _, err := Aggregate(nil); err == nil {
		t.Fatal("expected ErrNoSamples")
	}
}

func TestAggregate_SingleValue(t *testing.T) {
	d, err := Aggregate([]float64{3.5})
	if err != nil {
		t.Fatal(err)
	}
	if d.Mean != 3.5 || d.Min != 3.5 || d.Max != 3.5 || d.Percentiles.P50 != 3.5 {
		t.Fatalf("single-value aggregation wrong: %+v", d)
	}
	if d.StdDev != 0 {
		t.Fatalf("stddev of one sample = %v, want 0", d.StdDev)
	}
}

func TestAggregate_KnownSet(t *testing.T) {
	// 11 values 0..10: nearest-rank percentiles land on exact indices.
	values := []float64{10, 0, 5, 2, 8, 1, 9, 3, 7, 4, 6}

	d, err := Aggregate(values)
	if err != nil {
		t.Fatal(err)
	}

	if d.Percentiles.P5 != 1 { // round(0.05*10) = 1
		t.Errorf("p5 = %v, want 1", d.Percentiles.P5)
	}
	if d.Percentiles.P25 != 3 { // round(0.25*10) = 3
		t.Errorf("p25 = %v, want 3", d.Percentiles.P25)
	}
	if d.Percentiles.P50 != 5 {
		t.Errorf("p50 = %v, want 5", d.Percentiles.P50)
	}
	if d.Percentiles.P75 != 8 { // round(0.75*10) = 8
		t.Errorf("p75 = %v, want 8", d.Percentiles.P75)
	}
	if d.Percentiles.P95 != 10 { // round(0.95*10) = 10
		t.Errorf("p95 = %v, want 10", d.Percentiles.P95)
	}

	if d.Mean != 5 {
		t.Errorf("mean = %v, want 5", d.Mean)
	}
	// Sample variance of 0..10 is 11.
	if math.Abs(d.StdDev-math.Sqrt(11)) > 1e-12 {
		t.Errorf("stddev = %v, want sqrt(11)", d.StdDev)
	}
	if d.Min != 0 || d.Max != 10 {
		t.Errorf("min/max = %v/%v, want 0/10", d.Min, d.Max)
	}

	if d.CI68.Lower != d.Mean-d.StdDev || d.CI68.Upper != d.Mean+d.StdDev {
		t.Errorf("ci68 wrong: %+v", d.CI68)
	}
	if d.CI95.Lower != d.Mean-2*d.StdDev || d.CI95.Upper != d.Mean+2*d.StdDev {
		t.Errorf("ci95 wrong: %+v", d.CI95)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	if _, err := Aggregate(values); err != nil {
		t.Fatal(err)
	}
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Fatalf("input mutated: %v", values)
	}
}

func TestPercentile_NearestRank(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	// n-1 = 3: p50 -> round(1.5) = 2 -> 30 (round half away from zero).
	if got := Percentile(sorted, 50); got != 30 {
		t.Errorf("p50 = %v, want 30", got)
	}
	if got := Percentile(sorted, 0); got != 10 {
		t.Errorf("p0 = %v, want 10", got)
	}
	if got := Percentile(sorted, 100); got != 40 {
		t.Errorf("p100 = %v, want 40", got)
	}
}
