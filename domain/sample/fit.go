package sample

import (
	"groupwise/domain/core"
)

// GroupMeanFit is the fitted one-way group-mean model. It carries the
// per-group means and the sums of squares every downstream consumer needs:
// omega-squared, linear contrasts and the residual diagnostics all read from
// the same fit instead of re-deriving it.
type GroupMeanFit struct {
	Groups    []Group
	Sizes     []int
	Means     []float64
	GrandMean float64
	N         int
	K         int
	SSBetween float64
	SSWithin  float64
	SSTotal   float64
}

// Fit estimates the one-way group-mean model. Every group must contribute at
// least two observations so the within-group mean square is defined.
func Fit(s Sample) (*GroupMeanFit, error) {
	if err := s.RequireGroups(2, 2); err != nil {
		return nil, err
	}
	groups, values := s.Split()

	f := &GroupMeanFit{
		Groups: groups,
		Sizes:  make([]int, len(groups)),
		Means:  make([]float64, len(groups)),
		K:      len(groups),
	}

	var grandSum float64
	for i, vs := range values {
		var sum float64
		for _, v := range vs {
			sum += v
		}
		f.Sizes[i] = len(vs)
		f.Means[i] = sum / float64(len(vs))
		f.N += len(vs)
		grandSum += sum
	}
	f.GrandMean = grandSum / float64(f.N)

	for i, vs := range values {
		d := f.Means[i] - f.GrandMean
		f.SSBetween += float64(f.Sizes[i]) * d * d
		for _, v := range vs {
			r := v - f.Means[i]
			f.SSWithin += r * r
			t := v - f.GrandMean
			f.SSTotal += t * t
		}
	}
	return f, nil
}

// Mean returns the fitted mean for a group.
func (f *GroupMeanFit) Mean(g Group) (float64, bool) {
	for i, name := range f.Groups {
		if name == g {
			return f.Means[i], true
		}
	}
	return 0, false
}

// Size returns the observation count for a group.
func (f *GroupMeanFit) Size(g Group) (int, bool) {
	for i, name := range f.Groups {
		if name == g {
			return f.Sizes[i], true
		}
	}
	return 0, false
}

// DFError is the residual degrees of freedom, N-k.
func (f *GroupMeanFit) DFError() int { return f.N - f.K }

// MSError is the within-group mean square.
func (f *GroupMeanFit) MSError() (float64, error) {
	if f.DFError() <= 0 {
		return 0, core.NewInsufficientDataError("all", f.N, f.K+1)
	}
	return f.SSWithin / float64(f.DFError()), nil
}

// Residuals derives the read-only residual sample: each value minus its
// fitted group mean. The result is a fresh slice; the input is untouched.
func (f *GroupMeanFit) Residuals(s Sample) []float64 {
	out := make([]float64, 0, len(s))
	for _, obs := range s {
		m, ok := f.Mean(obs.Group)
		if !ok {
			continue
		}
		out = append(out, obs.Value-m)
	}
	return out
}
