package omnibus

import (
	"context"
	"math"
	"math/rand"

	"groupwise/adapters/stats/dist"
	"groupwise/adapters/stats/robust"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
	"groupwise/internal/resample"
)

// TrimmedBootstrapTester is the robust omnibus strategy: a Welch-style F on
// trimmed means with winsorized variances, referenced against a bootstrap
// null built by recentering every group at its trimmed mean and resampling
// within groups.
type TrimmedBootstrapTester struct {
	pool      *resample.Pool
	trim      float64
	resamples int
	seed      int64
}

// NewTrimmedBootstrapTester creates the robust strategy. trim <= 0 selects
// 0.20 per tail; resamples <= 0 selects MinRecommendedResamples.
func NewTrimmedBootstrapTester(pool *resample.Pool, trim float64, resamples int, seed int64) *TrimmedBootstrapTester {
	if trim <= 0 {
		trim = 0.20
	}
	if resamples <= 0 {
		resamples = MinRecommendedResamples
	}
	return &TrimmedBootstrapTester{pool: pool, trim: trim, resamples: resamples, seed: seed}
}

func (t *TrimmedBootstrapTester) Name() string { return "trimmed_bootstrap_anova" }

// Test computes the trimmed-means F and its bootstrap p-value, plus the
// heteroscedastic explanatory effect size xi.
func (t *TrimmedBootstrapTester) Test(ctx context.Context, s sample.Sample) (*Result, error) {
	if err := robust.ValidateTrim(t.trim); err != nil {
		return nil, err
	}
	if t.resamples < 1 {
		return nil, core.NewConfigurationError("resamples", "must be >= 1")
	}
	if err := s.RequireGroups(2, 2); err != nil {
		return nil, err
	}
	groups, values := s.Split()

	observed, err := trimmedF(values, t.trim)
	if err != nil {
		return nil, err
	}

	// Bootstrap null: center every group at its trimmed mean so the null of
	// equal trimmed means holds exactly in the resampled world.
	centered := make([][]float64, len(values))
	for i, vs := range values {
		tm, terr := robust.TrimmedMean(vs, t.trim)
		if terr != nil {
			return nil, core.NewInsufficientDataError(string(groups[i]), len(vs), 2*robust.TrimCount(len(vs), t.trim)+1)
		}
		c := make([]float64, len(vs))
		for j, v := range vs {
			c[j] = v - tm
		}
		centered[i] = c
	}

	stats, err := t.pool.Run(ctx, "omnibus/trimboot", t.seed, t.resamples, func(r *rand.Rand) float64 {
		boot := make([][]float64, len(centered))
		for i, c := range centered {
			b := make([]float64, len(c))
			resample.Resample(r, b, c)
			boot[i] = b
		}
		f, ferr := trimmedF(boot, t.trim)
		if ferr != nil {
			return math.NaN()
		}
		return f
	})
	if err != nil {
		return nil, err
	}

	valid := 0
	exceed := 0
	for _, v := range stats {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		valid++
		if v >= observed {
			exceed++
		}
	}
	if valid == 0 {
		return nil, core.NewDegenerateGroupsError([]string{"bootstrap"})
	}
	p := float64(exceed+1) / float64(valid+1)

	var warnings []analysis.WarningCode
	if t.resamples < MinRecommendedResamples {
		warnings = append(warnings, analysis.WarningLowResamples)
	}

	xi, err := explanatoryXi(values, t.trim)
	if err != nil {
		return nil, err
	}

	return &Result{
		Test: analysis.TestResult{
			Method:      t.Name(),
			Statistic:   observed,
			DF1:         float64(len(values) - 1),
			PValue:      p,
			Alternative: analysis.Greater,
			Resamples:   t.resamples,
			Seed:        t.seed,
			Warnings:    warnings,
		},
		Effect: *xi,
	}, nil
}

// trimmedF is the Welch-type statistic on trimmed means: weights are inverse
// squared standard errors of the trimmed means, with effective (post-trim)
// group sizes in the correction terms.
func trimmedF(values [][]float64, trim float64) (float64, error) {
	k := len(values)
	means := make([]float64, k)
	weights := make([]float64, k)
	hs := make([]float64, k)
	var degenerate bool

	for i, vs := range values {
		tm, err := robust.TrimmedMean(vs, trim)
		if err != nil {
			return 0, err
		}
		se2, err := robust.TrimmedSE2(vs, trim)
		if err != nil {
			return 0, err
		}
		if se2 == 0 {
			degenerate = true
			continue
		}
		means[i] = tm
		weights[i] = 1 / se2
		hs[i] = float64(robust.EffectiveSize(len(vs), trim))
	}
	if degenerate {
		return 0, core.NewDegenerateGroupsError(nil)
	}

	var sumW, sumWM float64
	for i := 0; i < k; i++ {
		sumW += weights[i]
		sumWM += weights[i] * means[i]
	}
	grand := sumWM / sumW

	var a float64
	for i := 0; i < k; i++ {
		d := means[i] - grand
		a += weights[i] * d * d
	}
	kf := float64(k)
	a /= kf - 1

	var lambda float64
	for i := 0; i < k; i++ {
		frac := 1 - weights[i]/sumW
		lambda += frac * frac / (hs[i] - 1)
	}
	return a / (1 + 2*lambda*(kf-2)/(kf*kf-1)), nil
}

// explanatoryXi is the heteroscedastic generalization of a standardized
// effect size: the share of robust total variance attributable to the
// trimmed group means, with winsorized variances rescaled to the normal
// metric before pooling.
func explanatoryXi(values [][]float64, trim float64) (*analysis.EffectSize, error) {
	band, err := analysis.PolicyByName("wilcox2017")
	if err != nil {
		return nil, err
	}

	var totalH float64
	hs := make([]float64, len(values))
	means := make([]float64, len(values))
	for i, vs := range values {
		tm, terr := robust.TrimmedMean(vs, trim)
		if terr != nil {
			return nil, terr
		}
		means[i] = tm
		hs[i] = float64(robust.EffectiveSize(len(vs), trim))
		totalH += hs[i]
	}
	var grand float64
	for i := range means {
		grand += hs[i] * means[i]
	}
	grand /= totalH

	var between float64
	for i := range means {
		d := means[i] - grand
		between += hs[i] * d * d
	}
	between /= totalH

	rescale := dist.WinsorizedNormalSD(trim)
	var within float64
	for _, vs := range values {
		wv, werr := robust.WinsorizedVariance(vs, trim)
		if werr != nil {
			return nil, werr
		}
		within += wv / (rescale * rescale)
	}
	within /= float64(len(values))

	est := 0.0
	if between+within > 0 {
		est = math.Sqrt(between / (between + within))
	}
	return &analysis.EffectSize{
		Measure:  "xi",
		Estimate: est,
		Band:     band.Classify(est),
		Policy:   band.Name,
	}, nil
}
