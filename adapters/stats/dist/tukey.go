package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// StudentizedRangeCDF evaluates P(Q <= q) for the studentized range of k
// groups with df error degrees of freedom. gonum carries no studentized
// range distribution, so the CDF is computed by numerical quadrature:
// the range probability of k unit normals, mixed over the chi-distributed
// scale estimate s/sigma = sqrt(chi2_df/df).
func StudentizedRangeCDF(q float64, k int, df float64) float64 {
	if q <= 0 || k < 2 {
		return 0
	}
	if df <= 0 {
		return 0
	}
	// The scale factor concentrates at 1 with sd ~ 1/sqrt(2*df); beyond
	// ~20000 df the mixture is indistinguishable from the normal range.
	if df > 20000 {
		return normalRangeCDF(q, k)
	}

	sd := 1 / math.Sqrt(2*df)
	lo := math.Max(0, 1-10*sd)
	hi := 1 + 10*sd
	if df < 10 {
		lo = 0
		hi = math.Max(hi, 4)
	}

	p := simpson(lo, hi, 256, func(u float64) float64 {
		return chiScaleDensity(u, df) * normalRangeCDF(q*u, k)
	})
	return clampProb(p)
}

// StudentizedRangeTail is the upper tail used for Games-Howell p-values.
func StudentizedRangeTail(q float64, k int, df float64) float64 {
	return clampProb(1 - StudentizedRangeCDF(q, k, df))
}

// normalRangeCDF is the CDF of the range of k independent unit normals:
// k * int phi(z) * [Phi(z) - Phi(z-r)]^(k-1) dz.
func normalRangeCDF(r float64, k int) float64 {
	if r <= 0 {
		return 0
	}
	v := simpson(-8, 8, 256, func(z float64) float64 {
		inner := distuv.UnitNormal.CDF(z) - distuv.UnitNormal.CDF(z-r)
		if inner <= 0 {
			return 0
		}
		return distuv.UnitNormal.Prob(z) * math.Pow(inner, float64(k-1))
	})
	return clampProb(float64(k) * v)
}

// chiScaleDensity is the density of u = sqrt(chi2_df/df).
func chiScaleDensity(u, df float64) float64 {
	if u <= 0 {
		return 0
	}
	lg, _ := math.Lgamma(df / 2)
	logPDF := math.Ln2 + (df/2)*math.Log(df/2) + (df-1)*math.Log(u) - df*u*u/2 - lg
	return math.Exp(logPDF)
}

// simpson integrates f over [a,b] with n (even) composite Simpson panels.
func simpson(a, b float64, n int, f func(float64) float64) float64 {
	if n%2 != 0 {
		n++
	}
	h := (b - a) / float64(n)
	sum := f(a) + f(b)
	for i := 1; i < n; i++ {
		x := a + float64(i)*h
		if i%2 == 1 {
			sum += 4 * f(x)
		} else {
			sum += 2 * f(x)
		}
	}
	return sum * h / 3
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
