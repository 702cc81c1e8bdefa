package contrast

import (
	"math"

	"groupwise/adapters/stats/dist"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// WelchT is the unequal-variance two-sample t-test. The sample must contain
// exactly two groups; the first group in appearance order is "group 1", so
// a Greater alternative claims group 1's mean exceeds group 2's.
func WelchT(s sample.Sample, alt analysis.Alternative) (*analysis.TestResult, error) {
	if !alt.Valid() {
		return nil, core.NewConfigurationError("alternative", "unknown tail")
	}
	g1, xs, g2, ys, err := s.RequireTwoGroups()
	if err != nil {
		return nil, err
	}
	if len(xs) < 2 {
		return nil, core.NewInsufficientDataError(string(g1), len(xs), 2)
	}
	if len(ys) < 2 {
		return nil, core.NewInsufficientDataError(string(g2), len(ys), 2)
	}

	m1, v1 := meanVariance(xs)
	m2, v2 := meanVariance(ys)
	n1 := float64(len(xs))
	n2 := float64(len(ys))

	se2 := v1/n1 + v2/n2
	if se2 == 0 {
		return nil, core.NewDegenerateGroupsError([]string{string(g1), string(g2)})
	}
	tStat := (m1 - m2) / math.Sqrt(se2)
	df := se2 * se2 / ((v1/n1)*(v1/n1)/(n1-1) + (v2/n2)*(v2/n2)/(n2-1))

	return &analysis.TestResult{
		Method:      "welch_ttest",
		Statistic:   tStat,
		DF1:         df,
		PValue:      dist.TTailPValue(tStat, df, alt),
		Alternative: alt,
	}, nil
}

func meanVariance(xs []float64) (mean, variance float64) {
	n := float64(len(xs))
	for _, v := range xs {
		mean += v
	}
	mean /= n
	for _, v := range xs {
		d := v - mean
		variance += d * d
	}
	variance /= n - 1
	return mean, variance
}
