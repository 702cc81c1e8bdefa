// Package posthoc computes all pairwise two-group comparisons among k groups
// through a chosen base test and applies a false-discovery-rate adjustment
// to the resulting p-values.
package posthoc

import (
	"context"
	"math"

	"groupwise/adapters/stats/dist"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
	"groupwise/internal/resample"
)

// BaseTest selects the pairwise procedure feeding the FDR step.
type BaseTest string

const (
	// GamesHowell uses the studentized range with Welch degrees of freedom;
	// it tolerates unequal group sizes and variances.
	GamesHowell BaseTest = "games_howell"
	// PairwiseWelch runs a Welch t-test per pair, or a pooled-variance t-test
	// when Pooled is set.
	PairwiseWelch BaseTest = "pairwise_welch"
	// PercentileBootstrap compares trimmed means per pair with a percentile
	// bootstrap p-value.
	PercentileBootstrap BaseTest = "percentile_bootstrap"
)

// MinRecommendedResamples mirrors the Monte Carlo floor used elsewhere.
const MinRecommendedResamples = 1000

// Config parameterizes a post-hoc sweep.
type Config struct {
	Base      BaseTest
	Pooled    bool    // PairwiseWelch only: pool the error variance from the full model
	Trim      float64 // PercentileBootstrap only: per-tail trim, default 0.20
	Resamples int     // PercentileBootstrap only: default 1000
	Seed      int64
}

// Compare runs the k*(k-1)/2 pairwise comparisons and adjusts the collected
// p-values with Benjamini-Hochberg. Pair identity is preserved through the
// raw-p sort.
func Compare(ctx context.Context, pool *resample.Pool, s sample.Sample, cfg Config) (*analysis.PostHocTable, error) {
	if err := s.RequireGroups(2, 2); err != nil {
		return nil, err
	}
	groups, values := s.Split()

	var rows []analysis.PairComparison
	var warnings []analysis.WarningCode
	var err error
	switch cfg.Base {
	case GamesHowell, "":
		rows, err = gamesHowellRows(groups, values)
	case PairwiseWelch:
		rows, err = pairwiseWelchRows(s, groups, values, cfg.Pooled)
	case PercentileBootstrap:
		rows, warnings, err = bootstrapRows(ctx, pool, groups, values, cfg)
	default:
		return nil, core.NewConfigurationError("base", "unknown post-hoc base test")
	}
	if err != nil {
		return nil, err
	}

	method := cfg.Base
	if method == "" {
		method = GamesHowell
	}
	return &analysis.PostHocTable{
		Method:     string(method),
		Adjustment: "benjamini_hochberg",
		Rows:       AdjustFDR(rows),
		Warnings:   warnings,
	}, nil
}

// pairwiseWelchRows runs a t-test per pair. Unpooled is a Welch test per
// pair; pooled shares MSE across all groups with N-k degrees of freedom.
func pairwiseWelchRows(s sample.Sample, groups []sample.Group, values [][]float64, pooled bool) ([]analysis.PairComparison, error) {
	var mse, dfPooled float64
	if pooled {
		fit, err := sample.Fit(s)
		if err != nil {
			return nil, err
		}
		m, err := fit.MSError()
		if err != nil {
			return nil, err
		}
		if m == 0 {
			return nil, core.NewDegenerateGroupsError(nil)
		}
		mse = m
		dfPooled = float64(fit.DFError())
	}

	var rows []analysis.PairComparison
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			m1, v1 := meanVariance(values[i])
			m2, v2 := meanVariance(values[j])
			n1 := float64(len(values[i]))
			n2 := float64(len(values[j]))
			diff := m1 - m2

			var tStat, df float64
			if pooled {
				se := math.Sqrt(mse * (1/n1 + 1/n2))
				tStat = diff / se
				df = dfPooled
			} else {
				se2 := v1/n1 + v2/n2
				if se2 == 0 {
					return nil, core.NewDegenerateGroupsError([]string{string(groups[i]), string(groups[j])})
				}
				tStat = diff / math.Sqrt(se2)
				df = se2 * se2 / ((v1/n1)*(v1/n1)/(n1-1) + (v2/n2)*(v2/n2)/(n2-1))
			}

			rows = append(rows, analysis.PairComparison{
				GroupA:    groups[i],
				GroupB:    groups[j],
				Estimate:  diff,
				Statistic: tStat,
				DF:        df,
				RawP:      dist.TTailPValue(tStat, df, analysis.TwoSided),
			})
		}
	}
	return rows, nil
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
