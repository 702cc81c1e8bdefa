package sample

import (
	"fmt"
	"math"

	"groupwise/domain/core"
)

// Group is a categorical factor level.
type Group string

// Observation pairs one factor level with one numeric response.
type Observation struct {
	Group Group   `json:"group"`
	Value float64 `json:"value"`
}

// Sample is the immutable input to every analysis component: a flat
// collection of (group, value) records. Ordering carries no meaning.
// The external loader is responsible for dropping missing values and unused
// levels before construction; New rejects anything non-finite.
type Sample []Observation

// New builds a sample from parallel group/value slices.
func New(groups []string, values []float64) (Sample, error) {
	if len(groups) != len(values) {
		return nil, fmt.Errorf("group/value length mismatch: %d vs %d", len(groups), len(values))
	}
	s := make(Sample, 0, len(values))
	for i, v := range values {
		if groups[i] == "" {
			return nil, fmt.Errorf("record %d: empty group label", i)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("record %d: non-finite value %v", i, v)
		}
		s = append(s, Observation{Group: Group(groups[i]), Value: v})
	}
	return s, nil
}

// FromGroups builds a sample from named value slices.
func FromGroups(byGroup map[string][]float64, order []string) (Sample, error) {
	var s Sample
	for _, name := range order {
		vs, ok := byGroup[name]
		if !ok {
			return nil, fmt.Errorf("unknown group %q in order", name)
		}
		for i, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("group %q record %d: non-finite value %v", name, i, v)
			}
			s = append(s, Observation{Group: Group(name), Value: v})
		}
	}
	return s, nil
}

// Len returns the total number of observations.
func (s Sample) Len() int { return len(s) }

// Groups returns the distinct factor levels in first-appearance order.
func (s Sample) Groups() []Group {
	seen := make(map[Group]bool, 4)
	out := make([]Group, 0, 4)
	for _, obs := range s {
		if !seen[obs.Group] {
			seen[obs.Group] = true
			out = append(out, obs.Group)
		}
	}
	return out
}

// Values returns a copy of the observations belonging to one group.
func (s Sample) Values(g Group) []float64 {
	var out []float64
	for _, obs := range s {
		if obs.Group == g {
			out = append(out, obs.Value)
		}
	}
	return out
}

// Split returns the per-group value slices keyed in first-appearance order.
func (s Sample) Split() ([]Group, [][]float64) {
	groups := s.Groups()
	idx := make(map[Group]int, len(groups))
	for i, g := range groups {
		idx[g] = i
	}
	out := make([][]float64, len(groups))
	for _, obs := range s {
		i := idx[obs.Group]
		out[i] = append(out[i], obs.Value)
	}
	return groups, out
}

// RequireGroups validates that the sample holds at least k groups with at
// least minPerGroup observations each.
func (s Sample) RequireGroups(k, minPerGroup int) error {
	groups, values := s.Split()
	if len(groups) < k {
		return fmt.Errorf("%w: need at least %d groups, got %d", core.ErrInsufficientData, k, len(groups))
	}
	for i, g := range groups {
		if len(values[i]) < minPerGroup {
			return core.NewInsufficientDataError(string(g), len(values[i]), minPerGroup)
		}
	}
	return nil
}

// RequireTwoGroups validates the exactly-two-groups precondition shared by
// the two-group testers and returns the split values.
func (s Sample) RequireTwoGroups() (Group, []float64, Group, []float64, error) {
	groups, values := s.Split()
	if len(groups) != 2 {
		return "", nil, "", nil, core.NewInvalidGroupCountError(len(groups))
	}
	return groups[0], values[0], groups[1], values[1], nil
}
