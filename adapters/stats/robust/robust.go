// Package robust holds the trimming and winsorizing primitives shared by the
// robust omnibus, effect-size and two-group procedures.
package robust

import (
	"sort"

	"groupwise/domain/core"
)

// MaxTrim is the exclusive upper bound on a per-tail trim proportion; at 0.5
// nothing would remain.
const MaxTrim = 0.5

// ValidateTrim rejects trim proportions outside [0, 0.5).
func ValidateTrim(trim float64) error {
	if trim < 0 || trim >= MaxTrim {
		return core.NewConfigurationError("trim", "must be in [0, 0.5)")
	}
	return nil
}

// TrimCount is the number of observations removed from each tail.
func TrimCount(n int, trim float64) int {
	return int(trim * float64(n))
}

// EffectiveSize is the count left after trimming both tails.
func EffectiveSize(n int, trim float64) int {
	return n - 2*TrimCount(n, trim)
}

// TrimmedMean averages after dropping the trim proportion from each tail.
func TrimmedMean(xs []float64, trim float64) (float64, error) {
	if err := ValidateTrim(trim); err != nil {
		return 0, err
	}
	g := TrimCount(len(xs), trim)
	h := len(xs) - 2*g
	if h < 1 {
		return 0, core.NewInsufficientDataError("", len(xs), 2*g+1)
	}
	sorted := sortedCopy(xs)
	var sum float64
	for _, v := range sorted[g : len(sorted)-g] {
		sum += v
	}
	return sum / float64(h), nil
}

// Winsorize clips the trim proportion in each tail to the nearest retained
// order statistic and returns a fresh slice.
func Winsorize(xs []float64, trim float64) ([]float64, error) {
	if err := ValidateTrim(trim); err != nil {
		return nil, err
	}
	g := TrimCount(len(xs), trim)
	if len(xs)-2*g < 1 {
		return nil, core.NewInsufficientDataError("", len(xs), 2*g+1)
	}
	sorted := sortedCopy(xs)
	lo := sorted[g]
	hi := sorted[len(sorted)-1-g]
	out := make([]float64, len(xs))
	for i, v := range xs {
		switch {
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out, nil
}

// WinsorizedVariance is the sample variance of the winsorized values.
func WinsorizedVariance(xs []float64, trim float64) (float64, error) {
	w, err := Winsorize(xs, trim)
	if err != nil {
		return 0, err
	}
	if len(w) < 2 {
		return 0, core.NewInsufficientDataError("", len(w), 2)
	}
	var mean float64
	for _, v := range w {
		mean += v
	}
	mean /= float64(len(w))
	var ss float64
	for _, v := range w {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(w)-1), nil
}

// TrimmedSE2 is the squared standard error of a trimmed mean following
// Yuen: (n-1) * winsorized variance / (h * (h-1)).
func TrimmedSE2(xs []float64, trim float64) (float64, error) {
	wv, err := WinsorizedVariance(xs, trim)
	if err != nil {
		return 0, err
	}
	n := len(xs)
	h := EffectiveSize(n, trim)
	if h < 2 {
		return 0, core.NewInsufficientDataError("", n, 2)
	}
	return float64(n-1) * wv / (float64(h) * float64(h-1)), nil
}

func sortedCopy(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	sort.Float64s(out)
	return out
}
