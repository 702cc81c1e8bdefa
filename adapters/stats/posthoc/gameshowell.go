package posthoc

import (
	"math"

	"groupwise/adapters/stats/dist"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// gamesHowellRows builds the pairwise table from the Games-Howell procedure:
// per-pair Welch standard errors and degrees of freedom, referenced against
// the studentized range distribution for k groups via q = |t| * sqrt(2).
func gamesHowellRows(groups []sample.Group, values [][]float64) ([]analysis.PairComparison, error) {
	k := len(groups)
	var rows []analysis.PairComparison
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			m1, v1 := meanVariance(values[i])
			m2, v2 := meanVariance(values[j])
			n1 := float64(len(values[i]))
			n2 := float64(len(values[j]))

			se2 := v1/n1 + v2/n2
			if se2 == 0 {
				return nil, core.NewDegenerateGroupsError([]string{string(groups[i]), string(groups[j])})
			}
			diff := m1 - m2
			tStat := diff / math.Sqrt(se2)
			df := se2 * se2 / ((v1/n1)*(v1/n1)/(n1-1) + (v2/n2)*(v2/n2)/(n2-1))
			q := math.Abs(tStat) * math.Sqrt2

			rows = append(rows, analysis.PairComparison{
				GroupA:    groups[i],
				GroupB:    groups[j],
				Estimate:  diff,
				Statistic: tStat,
				DF:        df,
				RawP:      dist.StudentizedRangeTail(q, k, df),
			})
		}
	}
	return rows, nil
}
