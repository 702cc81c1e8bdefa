package omnibus

import (
	"context"

	"groupwise/adapters/stats/dist"
	"groupwise/adapters/stats/effect"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// WelchTester is the heteroscedastic one-way F test: group variances are
// never assumed equal, and the error degrees of freedom follow the
// Welch-Satterthwaite adjustment.
type WelchTester struct{}

// NewWelchTester creates the Welch omnibus strategy.
func NewWelchTester() *WelchTester {
	return &WelchTester{}
}

func (t *WelchTester) Name() string { return "welch_anova" }

// Test computes the Welch F statistic across all groups.
func (t *WelchTester) Test(ctx context.Context, s sample.Sample) (*Result, error) {
	if err := s.RequireGroups(2, 2); err != nil {
		return nil, err
	}
	groups, values := s.Split()

	k := len(groups)
	means := make([]float64, k)
	weights := make([]float64, k)
	sizes := make([]float64, k)
	var degenerate []string

	for i, vs := range values {
		n := float64(len(vs))
		var sum float64
		for _, v := range vs {
			sum += v
		}
		mean := sum / n
		var ss float64
		for _, v := range vs {
			d := v - mean
			ss += d * d
		}
		variance := ss / (n - 1)
		if variance == 0 {
			degenerate = append(degenerate, string(groups[i]))
			continue
		}
		means[i] = mean
		sizes[i] = n
		weights[i] = n / variance
	}
	// A zero-variance group carries infinite weight; the weighting is
	// undefined and the caller gets an explicit failure, not a NaN.
	if len(degenerate) > 0 {
		return nil, core.NewDegenerateGroupsError(degenerate)
	}

	var sumW, sumWM float64
	for i := range groups {
		sumW += weights[i]
		sumWM += weights[i] * means[i]
	}
	weightedGrand := sumWM / sumW

	var a float64
	for i := range groups {
		d := means[i] - weightedGrand
		a += weights[i] * d * d
	}
	kf := float64(k)
	a /= kf - 1

	var lambda float64
	for i := range groups {
		frac := 1 - weights[i]/sumW
		lambda += frac * frac / (sizes[i] - 1)
	}

	f := a / (1 + 2*lambda*(kf-2)/(kf*kf-1))
	df1 := kf - 1
	df2 := (kf*kf - 1) / (3 * lambda)

	res := &Result{
		Test: analysis.TestResult{
			Method:      t.Name(),
			Statistic:   f,
			DF1:         df1,
			DF2:         df2,
			PValue:      dist.FTailPValue(f, df1, df2),
			Alternative: analysis.TwoSided,
		},
	}

	fit, err := sample.Fit(s)
	if err != nil {
		return nil, err
	}
	omega, err := effect.OmegaSquared(fit, effect.DefaultOmegaPolicy)
	if err != nil {
		return nil, err
	}
	res.Effect = *omega
	return res, nil
}
