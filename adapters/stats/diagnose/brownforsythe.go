package diagnose

import (
	"github.com/montanaflynn/stats"

	"groupwise/adapters/stats/dist"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// BrownForsythe tests variance homogeneity with the median-centered Levene
// statistic: a one-way ANOVA on absolute deviations from each group's
// median. Median centering, rather than mean centering, keeps the test
// usable under non-normality.
func BrownForsythe(s sample.Sample) (*analysis.TestResult, error) {
	if err := s.RequireGroups(2, 2); err != nil {
		return nil, err
	}
	groups, values := s.Split()

	// Transform to absolute deviations from the group median, then reuse the
	// one-way fit for the F statistic.
	deviations := make(sample.Sample, 0, s.Len())
	for i, vs := range values {
		median, err := stats.Median(vs)
		if err != nil {
			return nil, core.NewInsufficientDataError(string(groups[i]), len(vs), 2)
		}
		for _, v := range vs {
			d := v - median
			if d < 0 {
				d = -d
			}
			deviations = append(deviations, sample.Observation{Group: groups[i], Value: d})
		}
	}

	fit, err := sample.Fit(deviations)
	if err != nil {
		return nil, err
	}
	msw, err := fit.MSError()
	if err != nil {
		return nil, err
	}
	if msw == 0 {
		return nil, core.NewDegenerateGroupsError(nil)
	}

	df1 := float64(fit.K - 1)
	df2 := float64(fit.DFError())
	f := (fit.SSBetween / df1) / msw

	return &analysis.TestResult{
		Method:      "brown_forsythe",
		Statistic:   f,
		DF1:         df1,
		DF2:         df2,
		PValue:      dist.FTailPValue(f, df1, df2),
		Alternative: analysis.TwoSided,
	}, nil
}
