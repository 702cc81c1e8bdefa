// Package diagnose provides the advisory assumption checks: residual
// normality and variance homogeneity. Neither blocks a downstream test; the
// robust and resampling strategies exist precisely so these assumptions are
// optional.
package diagnose

import (
	"math"
	"sort"

	"groupwise/adapters/stats/dist"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// Normality fits the one-way group-mean model, derives residuals, and runs
// the Lilliefors test on them. The residual sample is local to this call and
// discarded after; the input sample is untouched.
func Normality(s sample.Sample) (*analysis.TestResult, error) {
	fit, err := sample.Fit(s)
	if err != nil {
		return nil, err
	}
	return Lilliefors(fit.Residuals(s))
}

// Lilliefors is the Kolmogorov-Smirnov test against a normal distribution
// with estimated mean and sd. The ECDF comparison tolerates ties (unlike an
// Anderson-Darling alternative, which ties invalidate), and the p-value uses
// the Dallal-Wilkinson approximation with the Stephens refinement above 0.1.
func Lilliefors(xs []float64) (*analysis.TestResult, error) {
	n := len(xs)
	if n < 4 {
		return nil, core.NewInsufficientDataError("residuals", n, 4)
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	var mean float64
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)
	var ss float64
	for _, v := range sorted {
		d := v - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(n-1))
	if sd == 0 {
		return nil, core.NewDegenerateGroupsError([]string{"residuals"})
	}

	var dPlus, dMinus float64
	for i, v := range sorted {
		p := dist.NormalCDF((v - mean) / sd)
		up := float64(i+1)/float64(n) - p
		down := p - float64(i)/float64(n)
		if up > dPlus {
			dPlus = up
		}
		if down > dMinus {
			dMinus = down
		}
	}
	d := math.Max(dPlus, dMinus)

	return &analysis.TestResult{
		Method:      "lilliefors",
		Statistic:   d,
		PValue:      lillieforsPValue(d, n),
		Alternative: analysis.TwoSided,
	}, nil
}

// lillieforsPValue follows Dallal and Wilkinson (1986): samples above 100
// are rescaled to the n=100 approximation, and p-values landing above 0.1
// are recomputed from the Stephens (1974) polynomial fit.
func lillieforsPValue(d float64, n int) float64 {
	nd := float64(n)
	kd := d
	if n > 100 {
		kd = d * math.Pow(nd/100, 0.49)
		nd = 100
	}

	p := math.Exp(-7.01256*kd*kd*(nd+2.78019) +
		2.99587*kd*math.Sqrt(nd+2.78019) -
		0.122119 + 0.974598/math.Sqrt(nd) + 1.67997/nd)

	if p > 0.1 {
		nf := float64(n)
		kk := (math.Sqrt(nf) - 0.01 + 0.85/math.Sqrt(nf)) * d
		switch {
		case kk <= 0.302:
			p = 1
		case kk <= 0.5:
			p = 2.76773 - 19.828315*kk + 80.709644*kk*kk - 138.55152*kk*kk*kk + 81.218052*kk*kk*kk*kk
		case kk <= 0.9:
			p = -4.901232 + 40.662806*kk - 97.490286*kk*kk + 94.029866*kk*kk*kk - 32.355711*kk*kk*kk*kk
		case kk <= 1.31:
			p = 6.198765 - 19.558097*kk + 23.186922*kk*kk - 12.234627*kk*kk*kk + 2.423045*kk*kk*kk*kk
		default:
			p = 0
		}
	}

	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}
