package describe

import (
	"math"
	"testing"

	"groupwise/domain/core"
	"groupwise/domain/sample"
)

func buildSample(t *testing.T, byGroup map[string][]float64, order []string) sample.Sample {
	t.Helper()
	s, err := sample.FromGroups(byGroup, order)
	if err != nil {
		t.Fatalf("FromGroups failed: %v", err)
	}
	return s
}

func TestSummarize_KnownMoments(t *testing.T) {
	s := buildSample(t, map[string][]float64{
		"a": {2, 4, 4, 4, 5, 5, 7, 9},
		"b": {10, 20, 30, 40},
	}, []string{"a", "b"})

	summaries, err := Summarize(s, DefaultTrim)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}

	a := summaries[0]
	if a.Group != "a" || a.N != 8 {
		t.Fatalf("First summary wrong identity: %+v", a)
	}
	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"mean", a.Mean, 5, 1e-10},
		{"median", a.Median, 4.5, 1e-10},
		{"variance", a.Variance, 32.0 / 7.0, 1e-10},
		{"sd", a.SD, math.Sqrt(32.0 / 7.0), 1e-10},
		{"skewness", a.Skewness, 0.81846, 1e-4},
		{"kurtosis", a.Kurtosis, 0.940625, 1e-4},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > c.tol {
			t.Errorf("Group a %s = %v, expected %v", c.name, c.got, c.want)
		}
	}

	b := summaries[1]
	if b.Group != "b" || math.Abs(b.Mean-25) > 1e-10 || math.Abs(b.Median-25) > 1e-10 {
		t.Errorf("Group b summary wrong: %+v", b)
	}
	if b.TrimmedProp != DefaultTrim {
		t.Errorf("TrimmedProp = %v, expected %v", b.TrimmedProp, DefaultTrim)
	}
}

func TestSummarize_TrimmedMeanDiscountsOutlier(t *testing.T) {
	s := buildSample(t, map[string][]float64{
		"a": {1, 2, 3, 4, 5, 6, 7, 8, 9, 100},
	}, []string{"a"})

	summaries, err := Summarize(s, 0.1)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	a := summaries[0]
	if math.Abs(a.Mean-14.5) > 1e-10 {
		t.Errorf("Mean = %v, expected 14.5", a.Mean)
	}
	if math.Abs(a.TrimmedMean-5.5) > 1e-10 {
		t.Errorf("Trimmed mean = %v, expected 5.5", a.TrimmedMean)
	}
}

func TestSummarize_Errors(t *testing.T) {
	single := buildSample(t, map[string][]float64{"a": {1}}, []string{"a"})
	if _, err := Summarize(single, DefaultTrim); !core.IsInsufficientData(err) {
		t.Errorf("Expected insufficient data error for n=1, got %v", err)
	}

	ok := buildSample(t, map[string][]float64{"a": {1, 2, 3}}, []string{"a"})
	if _, err := Summarize(ok, 0.6); !core.IsInvalidConfiguration(err) {
		t.Errorf("Expected configuration error for trim=0.6, got %v", err)
	}
}

func TestSummarize_ZeroMomentsBelowMinimumSizes(t *testing.T) {
	s := buildSample(t, map[string][]float64{"a": {1, 2, 3}}, []string{"a"})
	summaries, err := Summarize(s, 0)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summaries[0].Kurtosis != 0 {
		t.Errorf("Kurtosis should be 0 for n=3, got %v", summaries[0].Kurtosis)
	}
}
