// Package describe computes the per-group descriptive summaries.
package describe

import (
	"math"

	"github.com/montanaflynn/stats"

	"groupwise/adapters/stats/robust"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// DefaultTrim is the per-tail proportion removed for the trimmed mean.
const DefaultTrim = 0.10

// Summarize computes count, mean, trimmed mean, median, sd, variance,
// skewness and excess kurtosis for every group. Pure function of the grouped
// sample; the input is never mutated.
//
// The median follows montanaflynn's convention (mean of the two central
// order statistics for even n). Skewness is the adjusted Fisher-Pearson
// coefficient and kurtosis the bias-corrected excess estimator; both are
// reported as zero below the sizes (3 and 4) where they are defined.
func Summarize(s sample.Sample, trim float64) ([]analysis.GroupSummary, error) {
	if err := robust.ValidateTrim(trim); err != nil {
		return nil, err
	}
	groups, values := s.Split()
	if len(groups) == 0 {
		return nil, core.NewInsufficientDataError("", 0, 1)
	}

	out := make([]analysis.GroupSummary, 0, len(groups))
	for i, g := range groups {
		sum, err := summarizeGroup(g, values[i], trim)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

func summarizeGroup(g sample.Group, xs []float64, trim float64) (analysis.GroupSummary, error) {
	if len(xs) < 2 {
		return analysis.GroupSummary{}, core.NewInsufficientDataError(string(g), len(xs), 2)
	}

	mean, _ := stats.Mean(xs)
	median, _ := stats.Median(xs)
	variance, _ := stats.SampleVariance(xs)
	sd := math.Sqrt(variance)

	trimmed, err := robust.TrimmedMean(xs, trim)
	if err != nil {
		return analysis.GroupSummary{}, core.NewInsufficientDataError(string(g), len(xs), 2*robust.TrimCount(len(xs), trim)+1)
	}

	popSD, _ := stats.StandardDeviation(xs)

	return analysis.GroupSummary{
		Group:       g,
		N:           len(xs),
		Mean:        mean,
		TrimmedMean: trimmed,
		TrimmedProp: trim,
		Median:      median,
		SD:          sd,
		Variance:    variance,
		Skewness:    skewness(xs, mean, popSD),
		Kurtosis:    excessKurtosis(xs, mean, popSD),
	}, nil
}

// skewness is the adjusted Fisher-Pearson coefficient.
func skewness(xs []float64, mean, popSD float64) float64 {
	if len(xs) < 3 || popSD == 0 {
		return 0
	}
	n := float64(len(xs))
	var sum float64
	for _, x := range xs {
		d := (x - mean) / popSD
		sum += d * d * d
	}
	g1 := sum / n
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// excessKurtosis is the bias-corrected sample excess kurtosis G2.
func excessKurtosis(xs []float64, mean, popSD float64) float64 {
	if len(xs) < 4 || popSD == 0 {
		return 0
	}
	n := float64(len(xs))
	var sum float64
	for _, x := range xs {
		d := (x - mean) / popSD
		sum += d * d * d * d
	}
	g2 := sum/n - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}
