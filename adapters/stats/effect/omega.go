// Package effect estimates standardized effect sizes. Interpretation bands
// are looked up from named policies in domain/analysis; nothing here bakes a
// rule-of-thumb table into an estimator.
package effect

import (
	"groupwise/domain/analysis"
	"groupwise/domain/sample"
)

// Default band policies per measure.
const (
	DefaultOmegaPolicy = "field2013"
	DefaultDPolicy     = "cohen1988"
)

// OmegaSquared estimates the population variance explained by the group
// factor: (SSb - (k-1)*MSw) / (SStot + MSw), clipped at zero. The estimate
// can go slightly negative by sampling error when the true effect is nil;
// the clip keeps the [0,1] contract.
func OmegaSquared(fit *sample.GroupMeanFit, policy string) (*analysis.EffectSize, error) {
	band, err := analysis.PolicyByName(policy)
	if err != nil {
		return nil, err
	}
	msw, err := fit.MSError()
	if err != nil {
		return nil, err
	}

	est := (fit.SSBetween - float64(fit.K-1)*msw) / (fit.SSTotal + msw)
	if est < 0 {
		est = 0
	}
	return &analysis.EffectSize{
		Measure:  "omega_squared",
		Estimate: est,
		Band:     band.Classify(est),
		Policy:   band.Name,
	}, nil
}
