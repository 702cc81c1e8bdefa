package analysis

import (
	"fmt"

	"groupwise/domain/sample"
)

// Alternative selects the tail of a test.
type Alternative string

const (
	TwoSided Alternative = "two_sided"
	Greater  Alternative = "greater"
	Less     Alternative = "less"
)

// Valid reports whether the alternative is one of the three known tails.
func (a Alternative) Valid() bool {
	switch a {
	case TwoSided, Greater, Less:
		return true
	}
	return false
}

// WarningCode represents structured warning types. Warnings accompany a
// result that is still usable; they never replace an error.
type WarningCode string

const (
	// WarningLowResamples flags a Monte Carlo run below the recommended
	// minimum; the p-value is returned but its precision is degraded.
	WarningLowResamples WarningCode = "LOW_RESAMPLES"
	// WarningLowN flags groups small enough to make variance estimates shaky.
	WarningLowN WarningCode = "LOW_N"
	// WarningMonteCarlo flags a permutation p that is approximate rather than
	// exact because full enumeration was out of budget.
	WarningMonteCarlo WarningCode = "MONTE_CARLO_APPROXIMATION"
)

// TestResult carries the outcome of one hypothesis test.
// INVARIANTS:
// - PValue always in [0.0, 1.0]
// - one-sided alternatives report the correctly oriented tail probability
// - DF2 == 0 means the test has a single degrees-of-freedom parameter
type TestResult struct {
	Method      string        `json:"method"`
	Statistic   float64       `json:"statistic"`
	DF1         float64       `json:"df1"`
	DF2         float64       `json:"df2,omitempty"`
	PValue      float64       `json:"p_value"`
	Alternative Alternative   `json:"alternative"`
	Resamples   int           `json:"resamples,omitempty"`
	Seed        int64         `json:"seed,omitempty"`
	Warnings    []WarningCode `json:"warnings,omitempty"`
}

// Interval is a confidence interval at a given level.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Level float64 `json:"level"`
}

// EffectSize is a standardized magnitude with an optional interval and an
// interpretation from a named band policy.
type EffectSize struct {
	Measure  string    `json:"measure"` // "omega_squared", "cohen_d", "akp_delta", "xi"
	Estimate float64   `json:"estimate"`
	CI       *Interval `json:"ci,omitempty"`
	Band     string    `json:"band,omitempty"`
	Policy   string    `json:"policy,omitempty"`
}

// GroupSummary holds the per-group descriptives computed on demand.
type GroupSummary struct {
	Group       sample.Group `json:"group"`
	N           int          `json:"n"`
	Mean        float64      `json:"mean"`
	TrimmedMean float64      `json:"trimmed_mean"`
	TrimmedProp float64      `json:"trimmed_prop"`
	Median      float64      `json:"median"`
	SD          float64      `json:"sd"`
	Variance    float64      `json:"variance"`
	Skewness    float64      `json:"skewness"`
	Kurtosis    float64      `json:"kurtosis"` // excess kurtosis
}

// ContrastSpec maps each group to a signed weight. Groups absent from the
// map carry weight zero.
type ContrastSpec map[sample.Group]float64

// Canonical builds the pairwise contrast +1*a -1*b.
func Canonical(a, b sample.Group) ContrastSpec {
	return ContrastSpec{a: 1, b: -1}
}

// Validate checks the spec against the fitted groups: every weighted group
// must exist and at least one weight must be non-zero.
func (c ContrastSpec) Validate(groups []sample.Group) error {
	known := make(map[sample.Group]bool, len(groups))
	for _, g := range groups {
		known[g] = true
	}
	nonZero := 0
	for g, w := range c {
		if !known[g] {
			return fmt.Errorf("contrast references unknown group %q", g)
		}
		if w != 0 {
			nonZero++
		}
	}
	if nonZero == 0 {
		return fmt.Errorf("contrast has no non-zero weights")
	}
	return nil
}

// IsCanonical reports whether the spec is a simple two-group difference:
// exactly two non-zero weights of opposite sign, all others zero.
func (c ContrastSpec) IsCanonical() bool {
	var pos, neg int
	for _, w := range c {
		switch {
		case w > 0:
			pos++
		case w < 0:
			neg++
		}
	}
	return pos == 1 && neg == 1
}

// PairComparison is one row of a post-hoc table.
type PairComparison struct {
	GroupA    sample.Group `json:"group_a"`
	GroupB    sample.Group `json:"group_b"`
	Estimate  float64      `json:"estimate"` // mean (or trimmed mean) difference A-B
	Statistic float64      `json:"statistic"`
	DF        float64      `json:"df,omitempty"`
	RawP      float64      `json:"raw_p"`
	AdjustedP float64      `json:"adjusted_p"`
}

// PostHocTable is the ordered set of pairwise comparisons. Rows are sorted
// by raw p ascending, the order the FDR step-up adjustment requires.
type PostHocTable struct {
	Method     string           `json:"method"`
	Adjustment string           `json:"adjustment"`
	Rows       []PairComparison `json:"rows"`
	Warnings   []WarningCode    `json:"warnings,omitempty"`
}
