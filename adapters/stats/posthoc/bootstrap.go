package posthoc

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"groupwise/adapters/stats/robust"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
	"groupwise/internal/resample"
)

// bootstrapRows compares trimmed means per pair with a percentile-bootstrap
// p-value: resample both groups, track the sign of the trimmed difference,
// and double the smaller tail. The raw p is 2*min(p*, 1-p*) where p* is the
// proportion of bootstrap differences above zero, counting exact zeros half.
func bootstrapRows(ctx context.Context, pool *resample.Pool, groups []sample.Group, values [][]float64, cfg Config) ([]analysis.PairComparison, []analysis.WarningCode, error) {
	trim := cfg.Trim
	if trim == 0 {
		trim = 0.20
	}
	if err := robust.ValidateTrim(trim); err != nil {
		return nil, nil, err
	}
	resamples := cfg.Resamples
	if resamples == 0 {
		resamples = MinRecommendedResamples
	}
	if resamples < 1 {
		return nil, nil, core.NewConfigurationError("resamples", "must be >= 1")
	}

	var warnings []analysis.WarningCode
	if resamples < MinRecommendedResamples {
		warnings = append(warnings, analysis.WarningLowResamples)
	}

	var rows []analysis.PairComparison
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			xs := values[i]
			ys := values[j]

			t1, err := robust.TrimmedMean(xs, trim)
			if err != nil {
				return nil, nil, core.NewInsufficientDataError(string(groups[i]), len(xs), 2*robust.TrimCount(len(xs), trim)+1)
			}
			t2, err := robust.TrimmedMean(ys, trim)
			if err != nil {
				return nil, nil, core.NewInsufficientDataError(string(groups[j]), len(ys), 2*robust.TrimCount(len(ys), trim)+1)
			}

			name := fmt.Sprintf("posthoc/bootstrap/%s-%s", groups[i], groups[j])
			diffs, err := pool.Run(ctx, name, cfg.Seed, resamples, func(r *rand.Rand) float64 {
				bx := make([]float64, len(xs))
				by := make([]float64, len(ys))
				resample.Resample(r, bx, xs)
				resample.Resample(r, by, ys)
				b1, e1 := robust.TrimmedMean(bx, trim)
				b2, e2 := robust.TrimmedMean(by, trim)
				if e1 != nil || e2 != nil {
					return math.NaN()
				}
				return b1 - b2
			})
			if err != nil {
				return nil, nil, err
			}

			var above, zero float64
			valid := 0
			for _, d := range diffs {
				if math.IsNaN(d) {
					continue
				}
				valid++
				switch {
				case d > 0:
					above++
				case d == 0:
					zero++
				}
			}
			if valid == 0 {
				return nil, nil, core.NewDegenerateGroupsError([]string{string(groups[i]), string(groups[j])})
			}
			pStar := (above + 0.5*zero) / float64(valid)
			rawP := 2 * math.Min(pStar, 1-pStar)

			rows = append(rows, analysis.PairComparison{
				GroupA:   groups[i],
				GroupB:   groups[j],
				Estimate: t1 - t2,
				RawP:     rawP,
			})
		}
	}
	return rows, warnings, nil
}
