package effect

import (
	"context"
	"math"
	"testing"

	"groupwise/adapters/rng"
	"groupwise/domain/core"
	"groupwise/domain/sample"
	"groupwise/internal/resample"
)

func twoGroups(t *testing.T, a, b []float64) sample.Sample {
	t.Helper()
	s, err := sample.FromGroups(map[string][]float64{"a": a, "b": b}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("FromGroups failed: %v", err)
	}
	return s
}

func TestOmegaSquared_KnownValue(t *testing.T) {
	s, _ := sample.FromGroups(map[string][]float64{
		"a": {1, 2, 3, 4, 5},
		"b": {2, 3, 4, 5, 6},
		"c": {3, 4, 5, 6, 7},
	}, []string{"a", "b", "c"})
	fit, err := sample.Fit(s)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	es, err := OmegaSquared(fit, DefaultOmegaPolicy)
	if err != nil {
		t.Fatalf("OmegaSquared failed: %v", err)
	}
	// SSb=10, SSw=30, MSw=2.5: (10 - 2*2.5) / (40 + 2.5).
	if math.Abs(es.Estimate-5/42.5) > 1e-10 {
		t.Errorf("Estimate = %v, expected %v", es.Estimate, 5/42.5)
	}
	if es.Band != "medium" {
		t.Errorf("Band = %q, expected medium under field2013", es.Band)
	}
}

func TestOmegaSquared_ClipsAtZero(t *testing.T) {
	s, _ := sample.FromGroups(map[string][]float64{
		"a": {1, 2, 3, 4, 5},
		"b": {1, 2, 3, 4, 5},
	}, []string{"a", "b"})
	fit, _ := sample.Fit(s)

	es, err := OmegaSquared(fit, DefaultOmegaPolicy)
	if err != nil {
		t.Fatalf("OmegaSquared failed: %v", err)
	}
	if es.Estimate != 0 {
		t.Errorf("Estimate = %v, expected clip at 0", es.Estimate)
	}
	if es.Band != "negligible" {
		t.Errorf("Band = %q, expected negligible", es.Band)
	}
}

func TestCohenD_KnownValue(t *testing.T) {
	s := twoGroups(t, []float64{1, 2, 3, 4, 5}, []float64{3, 4, 5, 6, 7})

	es, err := CohenD(s, DefaultDPolicy)
	if err != nil {
		t.Fatalf("CohenD failed: %v", err)
	}
	want := -2 / math.Sqrt(2.5)
	if math.Abs(es.Estimate-want) > 1e-10 {
		t.Errorf("d = %v, expected %v", es.Estimate, want)
	}
	if es.Band != "large" {
		t.Errorf("Band = %q, expected large for |d|=1.26", es.Band)
	}
}

func TestOmegaSquared_ConsistentWithCohenD(t *testing.T) {
	s := twoGroups(t, []float64{1, 2, 3, 4, 5}, []float64{3, 4, 5, 6, 7})
	fit, err := sample.Fit(s)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	omega, err := OmegaSquared(fit, DefaultOmegaPolicy)
	if err != nil {
		t.Fatalf("OmegaSquared failed: %v", err)
	}
	d, err := CohenD(s, DefaultDPolicy)
	if err != nil {
		t.Fatalf("CohenD failed: %v", err)
	}

	// For two groups, omega^2 = (t^2 - 1) / (t^2 + N - 1) with the pooled
	// t recovered from d: t = d * sqrt(n1*n2/N).
	n1, n2 := 5.0, 5.0
	tStat := d.Estimate * math.Sqrt(n1*n2/(n1+n2))
	want := (tStat*tStat - 1) / (tStat*tStat + n1 + n2 - 1)
	if math.Abs(omega.Estimate-want) > 1e-10 {
		t.Errorf("Omega^2 = %v inconsistent with d-derived %v", omega.Estimate, want)
	}
}

func TestCohenD_Antisymmetric(t *testing.T) {
	ab := twoGroups(t, []float64{1, 2, 3, 4, 5}, []float64{3, 4, 5, 6, 7})
	ba, _ := sample.FromGroups(map[string][]float64{
		"a": {1, 2, 3, 4, 5},
		"b": {3, 4, 5, 6, 7},
	}, []string{"b", "a"})

	d1, err := CohenD(ab, DefaultDPolicy)
	if err != nil {
		t.Fatalf("CohenD failed: %v", err)
	}
	d2, err := CohenD(ba, DefaultDPolicy)
	if err != nil {
		t.Fatalf("CohenD reversed failed: %v", err)
	}
	if math.Abs(d1.Estimate+d2.Estimate) > 1e-10 {
		t.Errorf("d(A,B)=%v and d(B,A)=%v are not antisymmetric", d1.Estimate, d2.Estimate)
	}
}

func TestCohenD_DegenerateGroups(t *testing.T) {
	s := twoGroups(t, []float64{5, 5, 5}, []float64{5, 5, 5})
	if _, err := CohenD(s, DefaultDPolicy); !core.IsDegenerateGroups(err) {
		t.Errorf("Expected degenerate groups error, got %v", err)
	}
}

func TestRobustD_SignAndInterval(t *testing.T) {
	pool := resample.NewPool(rng.NewSeededAdapter(), 2)
	s := twoGroups(t,
		[]float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	)

	es, err := RobustD(context.Background(), pool, s, RobustDConfig{Resamples: 400, Seed: 5})
	if err != nil {
		t.Fatalf("RobustD failed: %v", err)
	}
	if es.Measure != "akp_delta" {
		t.Errorf("Measure = %q", es.Measure)
	}
	if es.Estimate <= 0 {
		t.Errorf("Estimate = %v, expected positive for a shifted-up first group", es.Estimate)
	}
	if es.CI == nil {
		t.Fatal("Expected a bootstrap interval")
	}
	if es.CI.Lower > es.Estimate || es.CI.Upper < es.Estimate {
		t.Errorf("Interval [%v, %v] should cover the estimate %v",
			es.CI.Lower, es.CI.Upper, es.Estimate)
	}
	if es.CI.Level != 0.95 {
		t.Errorf("Level = %v, expected default 0.95", es.CI.Level)
	}
}

func TestRobustD_DeterministicForSeed(t *testing.T) {
	s := twoGroups(t, []float64{1, 2, 3, 4, 5, 6}, []float64{4, 5, 6, 7, 8, 9})
	cfg := RobustDConfig{Resamples: 200, Seed: 12}

	first, err := RobustD(context.Background(), resample.NewPool(rng.NewSeededAdapter(), 1), s, cfg)
	if err != nil {
		t.Fatalf("RobustD failed: %v", err)
	}
	second, err := RobustD(context.Background(), resample.NewPool(rng.NewSeededAdapter(), 4), s, cfg)
	if err != nil {
		t.Fatalf("Second RobustD failed: %v", err)
	}
	if first.CI.Lower != second.CI.Lower || first.CI.Upper != second.CI.Upper {
		t.Errorf("Worker count changed the interval: [%v,%v] vs [%v,%v]",
			first.CI.Lower, first.CI.Upper, second.CI.Lower, second.CI.Upper)
	}
}
