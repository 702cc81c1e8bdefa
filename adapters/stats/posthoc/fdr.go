package posthoc

import (
	"sort"

	"groupwise/domain/analysis"
)

// AdjustFDR applies the Benjamini-Hochberg step-up to the raw p-values.
// Rows are returned sorted by raw p ascending (the order the procedure is
// defined over) with adjusted p_(i) = min over j >= i of p_(j) * m / j,
// capped at 1. Adjusted values are monotone non-decreasing in that order and
// never fall below their raw p.
func AdjustFDR(rows []analysis.PairComparison) []analysis.PairComparison {
	out := make([]analysis.PairComparison, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RawP < out[j].RawP })

	m := float64(len(out))
	running := 1.0
	for i := len(out) - 1; i >= 0; i-- {
		adj := out[i].RawP * m / float64(i+1)
		if adj < running {
			running = adj
		}
		out[i].AdjustedP = running
	}
	return out
}
