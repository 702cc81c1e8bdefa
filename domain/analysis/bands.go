package analysis

import (
	"fmt"
	"math"
	"sort"
)

// BandPolicy maps absolute effect magnitudes to qualitative labels. Policies
// are data, not code: cited rule-of-thumb tables live here as ordered
// threshold lists and estimators only ever look one up by name.
type BandPolicy struct {
	Name       string
	Thresholds []BandThreshold // ascending by Min
}

// BandThreshold labels magnitudes at or above Min, up to the next threshold.
type BandThreshold struct {
	Min   float64
	Label string
}

// Classify returns the label for the absolute value of an estimate.
func (p BandPolicy) Classify(estimate float64) string {
	v := math.Abs(estimate)
	label := ""
	for _, t := range p.Thresholds {
		if v >= t.Min {
			label = t.Label
		}
	}
	return label
}

// Built-in policies. Cohen (1988) and Sawilowsky (2009) band standardized
// mean differences; Field (2013) bands variance-explained measures such as
// omega-squared.
var builtinPolicies = map[string]BandPolicy{
	"cohen1988": {
		Name: "cohen1988",
		Thresholds: []BandThreshold{
			{Min: 0, Label: "negligible"},
			{Min: 0.2, Label: "small"},
			{Min: 0.5, Label: "medium"},
			{Min: 0.8, Label: "large"},
		},
	},
	"sawilowsky2009": {
		Name: "sawilowsky2009",
		Thresholds: []BandThreshold{
			{Min: 0, Label: "negligible"},
			{Min: 0.01, Label: "very_small"},
			{Min: 0.2, Label: "small"},
			{Min: 0.5, Label: "medium"},
			{Min: 0.8, Label: "large"},
			{Min: 1.2, Label: "very_large"},
			{Min: 2.0, Label: "huge"},
		},
	},
	"wilcox2017": {
		Name: "wilcox2017",
		Thresholds: []BandThreshold{
			{Min: 0, Label: "negligible"},
			{Min: 0.10, Label: "small"},
			{Min: 0.30, Label: "medium"},
			{Min: 0.50, Label: "large"},
		},
	},
	"field2013": {
		Name: "field2013",
		Thresholds: []BandThreshold{
			{Min: 0, Label: "negligible"},
			{Min: 0.01, Label: "small"},
			{Min: 0.06, Label: "medium"},
			{Min: 0.14, Label: "large"},
		},
	},
}

// PolicyByName looks up a built-in band policy.
func PolicyByName(name string) (BandPolicy, error) {
	p, ok := builtinPolicies[name]
	if !ok {
		return BandPolicy{}, fmt.Errorf("unknown band policy %q", name)
	}
	return p, nil
}

// PolicyNames lists the registered policies.
func PolicyNames() []string {
	names := make([]string, 0, len(builtinPolicies))
	for name := range builtinPolicies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
