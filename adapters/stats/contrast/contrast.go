// Package contrast tests focused hypotheses: user-specified linear contrasts
// over the fitted group-mean model and the two-group location tests (Welch,
// exact/Monte-Carlo permutation, Yuen).
package contrast

import (
	"math"

	"groupwise/adapters/stats/dist"
	"groupwise/domain/analysis"
	"groupwise/domain/core"
	"groupwise/domain/sample"
)

// LinearResult is the outcome of a single pre-specified linear contrast.
// No multiplicity correction is applied here: a single planned contrast is
// its own family, and correction belongs to the post-hoc package when many
// non-orthogonal contrasts are tested together.
type LinearResult struct {
	Estimate float64             `json:"estimate"`
	SE       float64             `json:"se"`
	Test     analysis.TestResult `json:"test"`
	// DirectionSupported reports whether the estimate's sign matches a
	// directional alternative. A one-sided claim with a mismatched sign is
	// unsupported regardless of the tail probability.
	DirectionSupported bool `json:"direction_supported"`
}

// Linear tests sum(c_j * mean_j) = 0 against the alternative. The standard
// error comes from the model's pooled error variance, so every group's
// residual spread contributes through MSE.
func Linear(fit *sample.GroupMeanFit, spec analysis.ContrastSpec, alt analysis.Alternative) (*LinearResult, error) {
	if !alt.Valid() {
		return nil, core.NewConfigurationError("alternative", "unknown tail")
	}
	if err := spec.Validate(fit.Groups); err != nil {
		return nil, core.NewConfigurationError("contrast", err.Error())
	}
	mse, err := fit.MSError()
	if err != nil {
		return nil, err
	}
	if mse == 0 {
		return nil, core.NewDegenerateGroupsError(nil)
	}

	var estimate, sumC2N float64
	for i, g := range fit.Groups {
		w := spec[g]
		if w == 0 {
			continue
		}
		estimate += w * fit.Means[i]
		sumC2N += w * w / float64(fit.Sizes[i])
	}

	se := math.Sqrt(mse * sumC2N)
	tStat := estimate / se
	df := float64(fit.DFError())

	supported := true
	switch alt {
	case analysis.Greater:
		supported = estimate > 0
	case analysis.Less:
		supported = estimate < 0
	}

	return &LinearResult{
		Estimate: estimate,
		SE:       se,
		Test: analysis.TestResult{
			Method:      "linear_contrast",
			Statistic:   tStat,
			DF1:         df,
			PValue:      dist.TTailPValue(tStat, df, alt),
			Alternative: alt,
		},
		DirectionSupported: supported,
	}, nil
}
