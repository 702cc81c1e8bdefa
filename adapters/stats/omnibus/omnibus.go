// Package omnibus tests equality of location across two or more groups.
// Three interchangeable strategies sit behind one contract: the Welch
// heteroscedastic F test, a label-permutation test, and a trimmed-means
// bootstrap. All return the same result shape so callers select an algorithm,
// not an API.
package omnibus

import (
	"context"

	"groupwise/domain/analysis"
	"groupwise/domain/sample"
)

// Result pairs the omnibus test with its matching effect size.
type Result struct {
	Test   analysis.TestResult `json:"test"`
	Effect analysis.EffectSize `json:"effect"`
}

// Tester is the one contract all omnibus strategies implement.
type Tester interface {
	Name() string
	Test(ctx context.Context, s sample.Sample) (*Result, error)
}

// MinRecommendedResamples is the floor below which Monte Carlo results carry
// a precision warning. Smaller counts are an explicit opt-in, never a
// baseline.
const MinRecommendedResamples = 1000
