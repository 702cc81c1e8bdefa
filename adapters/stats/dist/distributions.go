package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"groupwise/domain/analysis"
)

// TTailPValue converts a t statistic with df degrees of freedom into the
// tail probability matching the alternative. One-sided values are oriented,
// never the two-sided value halved blindly.
func TTailPValue(t, df float64, alt analysis.Alternative) float64 {
	if df <= 0 {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	switch alt {
	case analysis.Greater:
		return 1 - tDist.CDF(t)
	case analysis.Less:
		return tDist.CDF(t)
	default:
		return 2 * (1 - tDist.CDF(math.Abs(t)))
	}
}

// TQuantile returns the quantile of Student's t with df degrees of freedom.
func TQuantile(p, df float64) float64 {
	return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(p)
}

// FTailPValue is the right-tail probability of the F distribution.
func FTailPValue(f, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1.0
	}
	if f <= 0 {
		return 1.0
	}
	fDist := distuv.F{D1: df1, D2: df2}
	return 1 - fDist.CDF(f)
}

// NormalCDF is the standard normal CDF.
func NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormalQuantile is the standard normal inverse CDF.
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// WinsorizedNormalSD returns the standard deviation of a standard normal
// variable winsorized at proportion trim in each tail. It rescales trimmed
// standardized differences back to the Cohen's d metric (0.642 at trim 0.20).
func WinsorizedNormalSD(trim float64) float64 {
	if trim <= 0 {
		return 1
	}
	q := NormalQuantile(1 - trim)
	phi := distuv.UnitNormal.Prob(q)
	// E[W^2] = int_{-q}^{q} z^2 phi(z) dz + 2*trim*q^2
	// int z^2 phi(z) over [-q,q] = (1-2*trim) - 2*q*phi(q)
	ew2 := (1 - 2*trim) - 2*q*phi + 2*trim*q*q
	return math.Sqrt(ew2)
}
