package contrast

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

// YuenConfig parameterizes Yuen's trimmed-means test.
type YuenConfig struct {
	Trim      float64 // per-tail trim proportion, default 0.20
	CI        bool    // also build a bootstrap CI for the trimmed difference
	Resamples int     // bootstrap resamples when CI is requested, default 1000
	Seed      int64
	Level     float64 // CI level, default 0.95
}

func (c *YuenConfig) defaults() {
	if c.Trim == 0 {
		c.Trim = 0.20
	}
	if c.Resamples == 0 {
		c.Resamples = MinRecommendedResamples
	}
	if c.Level == 0 {
		c.Level = 0.95
	}
}

// YuenResult is the trimmed two-sample outcome: the test plus the trimmed
// mean difference it concerns, and optionally its bootstrap interval.
type YuenResult struct {
	Test       analysis.TestResult `json:"test"`
	Difference float64             `json:"difference"`
	CI         *analysis.Interval  `json:"ci,omitempty"`
}

// Yuen generalizes Welch's t-test to trimmed means: squared standard errors
// come from winsorized variances with effective (post-trim) group sizes, and
// the degrees of freedom follow the same Satterthwaite shape.
func Yuen(ctx context.Context, pool *resample.Pool, s sample.Sample, alt analysis.Alternative, cfg YuenConfig) (*YuenResult, error) {
	cfg.defaults()
	if !alt.Valid() {
		return nil, core.NewConfigurationError("alternative", "unknown tail")
	}
	if err := robust.ValidateTrim(cfg.Trim); err != nil {
		return nil, err
	}
	g1, xs, g2, ys, err := s.RequireTwoGroups()
	if err != nil {
		return nil, err
	}

	t1, err := robust.TrimmedMean(xs, cfg.Trim)
	if err != nil {
		return nil, core.NewInsufficientDataError(string(g1), len(xs), 2*robust.TrimCount(len(xs), cfg.Trim)+1)
	}
	t2, err := robust.TrimmedMean(ys, cfg.Trim)
	if err != nil {
		return nil, core.NewInsufficientDataError(string(g2), len(ys), 2*robust.TrimCount(len(ys), cfg.Trim)+1)
	}
	d1, err := robust.TrimmedSE2(xs, cfg.Trim)
	if err != nil {
		return nil, err
	}
	d2, err := robust.TrimmedSE2(ys, cfg.Trim)
	if err != nil {
		return nil, err
	}
	if d1+d2 == 0 {
		return nil, core.NewDegenerateGroupsError([]string{string(g1), string(g2)})
	}

	diff := t1 - t2
	tStat := diff / math.Sqrt(d1+d2)
	h1 := float64(robust.EffectiveSize(len(xs), cfg.Trim))
	h2 := float64(robust.EffectiveSize(len(ys), cfg.Trim))
	df := (d1 + d2) * (d1 + d2) / (d1*d1/(h1-1) + d2*d2/(h2-1))

	result := &YuenResult{
		Test: analysis.TestResult{
			Method:      "yuen_trimmed_ttest",
			Statistic:   tStat,
			DF1:         df,
			PValue:      dist.TTailPValue(tStat, df, alt),
			Alternative: alt,
		},
		Difference: diff,
	}

	if cfg.CI {
		if cfg.Resamples < 1 {
			return nil, core.NewConfigurationError("resamples", "must be >= 1")
		}
		diffs, berr := pool.Run(ctx, "contrast/yuen_ci", cfg.Seed, cfg.Resamples, func(r *rand.Rand) float64 {
			bx := make([]float64, len(xs))
			by := make([]float64, len(ys))
			resample.Resample(r, bx, xs)
			resample.Resample(r, by, ys)
			b1, e1 := robust.TrimmedMean(bx, cfg.Trim)
			b2, e2 := robust.TrimmedMean(by, cfg.Trim)
			if e1 != nil || e2 != nil {
				return math.NaN()
			}
			return b1 - b2
		})
		if berr != nil {
			return nil, berr
		}
		finite := make([]float64, 0, len(diffs))
		for _, v := range diffs {
			if !math.IsNaN(v) {
				finite = append(finite, v)
			}
		}
		lower, upper := resample.PercentileInterval(finite, cfg.Level)
		result.CI = &analysis.Interval{Lower: lower, Upper: upper, Level: cfg.Level}
		if cfg.Resamples < MinRecommendedResamples {
			result.Test.Warnings = append(result.Test.Warnings, analysis.WarningLowResamples)
		}
		result.Test.Resamples = cfg.Resamples
		result.Test.Seed = cfg.Seed
	}

	return result, nil
}
