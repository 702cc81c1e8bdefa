package omnibus

import (
	"context"
	"math/rand"

	"groupwise/adapters/stats/effect"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
	"groupwise/internal/resample"
)

// PermutationTester tests exchangeability of group labels: the between-group
// sum of squares is recomputed under repeated label shuffles and the p-value
// is the right-tail proportion of permuted statistics at or above the
// observed one, with the +1 correction that keeps p in [1/(B+1), 1].
//
// The result is a Monte Carlo estimate: identical only for a fixed seed,
// otherwise reproducible to Monte Carlo noise.
type PermutationTester struct {
	pool         *resample.Pool
	permutations int
	seed         int64
}

// NewPermutationTester creates the permutation strategy. permutations <= 0
// selects the default of MinRecommendedResamples.
func NewPermutationTester(pool *resample.Pool, permutations int, seed int64) *PermutationTester {
	if permutations <= 0 {
		permutations = MinRecommendedResamples
	}
	return &PermutationTester{pool: pool, permutations: permutations, seed: seed}
}

func (t *PermutationTester) Name() string { return "permutation_anova" }

// Test shuffles labels t.permutations times and counts exceedances.
func (t *PermutationTester) Test(ctx context.Context, s sample.Sample) (*Result, error) {
	if t.permutations < 1 {
		return nil, core.NewConfigurationError("permutations", "must be >= 1")
	}
	if err := s.RequireGroups(2, 2); err != nil {
		return nil, err
	}
	fit, err := sample.Fit(s)
	if err != nil {
		return nil, err
	}

	_, grouped := s.Split()
	sizes := make([]int, len(grouped))
	values := make([]float64, 0, s.Len())
	for i, vs := range grouped {
		sizes[i] = len(vs)
		values = append(values, vs...)
	}
	observed := fit.SSBetween
	grand := fit.GrandMean

	stats, err := t.pool.Run(ctx, "omnibus/permutation", t.seed, t.permutations, func(r *rand.Rand) float64 {
		shuffled := make([]float64, len(values))
		copy(shuffled, values)
		resample.Shuffle(r, shuffled)
		return betweenSS(shuffled, sizes, grand)
	})
	if err != nil {
		return nil, err
	}

	exceed := resample.TailCount(stats, observed)
	p := float64(exceed+1) / float64(t.permutations+1)

	var warnings []analysis.WarningCode
	if t.permutations < MinRecommendedResamples {
		warnings = append(warnings, analysis.WarningLowResamples)
	}

	omega, err := effect.OmegaSquared(fit, effect.DefaultOmegaPolicy)
	if err != nil {
		return nil, err
	}

	return &Result{
		Test: analysis.TestResult{
			Method:      t.Name(),
			Statistic:   observed,
			DF1:         float64(fit.K - 1),
			PValue:      p,
			Alternative: analysis.Greater,
			Resamples:   t.permutations,
			Seed:        t.seed,
			Warnings:    warnings,
		},
		Effect: *omega,
	}, nil
}

// betweenSS computes the between-group sum of squares for values laid out in
// consecutive group blocks. The grand mean is permutation-invariant, so it is
// passed in rather than recomputed.
func betweenSS(values []float64, sizes []int, grand float64) float64 {
	var ss float64
	offset := 0
	for _, n := range sizes {
		var sum float64
		for _, v := range values[offset : offset+n] {
			sum += v
		}
		mean := sum / float64(n)
		d := mean - grand
		ss += float64(n) * d * d
		offset += n
	}
	return ss
}
