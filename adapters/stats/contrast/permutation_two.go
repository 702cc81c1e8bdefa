package contrast

import (
	"context"
	"math"
	"math/rand"

	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
	"groupwise/internal/resample"
)

// Mode reports how a two-sample permutation p-value was obtained.
type Mode string

const (
	// ModeExact means every label assignment was enumerated.
	ModeExact Mode = "exact"
	// ModeMonteCarlo means the null was sampled; the p-value is approximate.
	ModeMonteCarlo Mode = "monte_carlo"
)

// DefaultMaxExact bounds the number of label assignments enumerated before
// the test falls back to Monte Carlo sampling.
const DefaultMaxExact = 200000

// MinRecommendedResamples mirrors the omnibus floor for Monte Carlo runs.
const MinRecommendedResamples = 1000

// PermutationConfig parameterizes the exact/Monte-Carlo two-sample test.
type PermutationConfig struct {
	MaxExact  int // enumeration budget, default DefaultMaxExact
	Resamples int // Monte Carlo fallback resamples, default 1000
	Seed      int64
}

func (c *PermutationConfig) defaults() {
	if c.MaxExact == 0 {
		c.MaxExact = DefaultMaxExact
	}
	if c.Resamples == 0 {
		c.Resamples = MinRecommendedResamples
	}
}

// PermutationResult carries the test outcome together with the mode used,
// so callers always know whether the p-value is exact.
type PermutationResult struct {
	Test analysis.TestResult `json:"test"`
	Mode Mode                `json:"mode"`
}

// PermutationT tests the two-group mean difference under label
// exchangeability. When the number of assignments C(n, n1) fits the budget
// the null distribution is enumerated exactly; otherwise labels are
// shuffled Monte Carlo style.
func PermutationT(ctx context.Context, pool *resample.Pool, s sample.Sample, alt analysis.Alternative, cfg PermutationConfig) (*PermutationResult, error) {
	cfg.defaults()
	if !alt.Valid() {
		return nil, core.NewConfigurationError("alternative", "unknown tail")
	}
	if cfg.Resamples < 1 {
		return nil, core.NewConfigurationError("resamples", "must be >= 1")
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

	combined := make([]float64, 0, len(xs)+len(ys))
	combined = append(combined, xs...)
	combined = append(combined, ys...)
	observed := meanDiff(combined, len(xs))

	if total := binomial(len(combined), len(xs)); total > 0 && total <= cfg.MaxExact {
		p := exactPermutationP(combined, len(xs), observed, alt)
		return &PermutationResult{
			Test: analysis.TestResult{
				Method:      "permutation_ttest",
				Statistic:   observed,
				PValue:      p,
				Alternative: alt,
				Resamples:   total,
			},
			Mode: ModeExact,
		}, nil
	}

	diffs, err := pool.Run(ctx, "contrast/permutation", cfg.Seed, cfg.Resamples, func(r *rand.Rand) float64 {
		shuffled := make([]float64, len(combined))
		copy(shuffled, combined)
		resample.Shuffle(r, shuffled)
		return meanDiff(shuffled, len(xs))
	})
	if err != nil {
		return nil, err
	}

	exceed := 0
	for _, d := range diffs {
		if moreExtreme(d, observed, alt) {
			exceed++
		}
	}
	p := float64(exceed+1) / float64(cfg.Resamples+1)

	warnings := []analysis.WarningCode{analysis.WarningMonteCarlo}
	if cfg.Resamples < MinRecommendedResamples {
		warnings = append(warnings, analysis.WarningLowResamples)
	}

	return &PermutationResult{
		Test: analysis.TestResult{
			Method:      "permutation_ttest",
			Statistic:   observed,
			PValue:      p,
			Alternative: alt,
			Resamples:   cfg.Resamples,
			Seed:        cfg.Seed,
			Warnings:    warnings,
		},
		Mode: ModeMonteCarlo,
	}, nil
}

// meanDiff is mean(first n1 values) - mean(rest).
func meanDiff(values []float64, n1 int) float64 {
	var s1, s2 float64
	for i, v := range values {
		if i < n1 {
			s1 += v
		} else {
			s2 += v
		}
	}
	return s1/float64(n1) - s2/float64(len(values)-n1)
}

// exactPermutationP enumerates all C(n, n1) assignments of the combined
// values to group 1 in lexicographic index order.
func exactPermutationP(combined []float64, n1 int, observed float64, alt analysis.Alternative) float64 {
	n := len(combined)
	var total float64
	for _, v := range combined {
		total += v
	}

	idx := make([]int, n1)
	for i := range idx {
		idx[i] = i
	}

	count := 0
	trials := 0
	for {
		trials++
		var s1 float64
		for _, i := range idx {
			s1 += combined[i]
		}
		diff := s1/float64(n1) - (total-s1)/float64(n-n1)
		if moreExtreme(diff, observed, alt) {
			count++
		}

		// Advance to the next combination.
		i := n1 - 1
		for i >= 0 && idx[i] == n-n1+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < n1; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return float64(count) / float64(trials)
}

// moreExtreme compares a permuted difference to the observed one under the
// alternative, with a small relative tolerance so floating-point noise in
// algebraically tied sums does not drop exact ties.
func moreExtreme(diff, observed float64, alt analysis.Alternative) bool {
	eps := 1e-12 * (math.Abs(observed) + 1)
	switch alt {
	case analysis.Greater:
		return diff >= observed-eps
	case analysis.Less:
		return diff <= observed+eps
	default:
		return math.Abs(diff) >= math.Abs(observed)-eps
	}
}

// binomial returns C(n, k), or -1 when it overflows the budget-sized range.
func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
		if result < 0 || result > 1<<40 {
			return -1
		}
	}
	return result
}
