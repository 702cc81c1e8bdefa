package effect

import (
	"math"

	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// CohenD is the standardized mean difference for exactly two groups, with
// the pooled standard deviation weighted by n-1 per group. Group order
// matters only for sign: d(A,B) == -d(B,A).
func CohenD(s sample.Sample, policy string) (*analysis.EffectSize, error) {
	band, err := analysis.PolicyByName(policy)
	if err != nil {
		return nil, err
	}
	_, xs, _, ys, err := s.RequireTwoGroups()
	if err != nil {
		return nil, err
	}
	if len(xs) < 2 || len(ys) < 2 {
		return nil, core.NewInsufficientDataError("", min(len(xs), len(ys)), 2)
	}

	m1, v1 := meanVariance(xs)
	m2, v2 := meanVariance(ys)
	n1 := float64(len(xs))
	n2 := float64(len(ys))

	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	if pooled == 0 {
		return nil, core.NewDegenerateGroupsError([]string{"both"})
	}

	est := (m1 - m2) / pooled
	return &analysis.EffectSize{
		Measure:  "cohen_d",
		Estimate: est,
		Band:     band.Classify(est),
		Policy:   band.Name,
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
