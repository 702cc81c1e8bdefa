package sample

import (
	"errors"
	"math"
	"testing"

	"groupwise/domain/core"
)

func TestNew_RejectsBadObservations(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		values []float64
	}{
		{"mismatched lengths", []string{"a", "b"}, []float64{1}},
		{"empty group label", []string{"a", ""}, []float64{1, 2}},
		{"nan value", []string{"a", "b"}, []float64{1, math.NaN()}},
		{"infinite value", []string{"a", "b"}, []float64{1, math.Inf(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.groups, tt.values); err == nil {
				t.Errorf("New(%v, %v) should fail", tt.groups, tt.values)
			}
		})
	}
}

func TestGroups_PreservesFirstAppearanceOrder(t *testing.T) {
	s, err := New(
		[]string{"c", "a", "c", "b", "a"},
		[]float64{1, 2, 3, 4, 5},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	groups := s.Groups()
	want := []Group{"c", "a", "b"}
	if len(groups) != len(want) {
		t.Fatalf("Expected %d groups, got %d", len(want), len(groups))
	}
	for i, g := range want {
		if groups[i] != g {
			t.Errorf("Group %d: expected %q, got %q", i, g, groups[i])
		}
	}
}

func TestValues_ReturnsGroupValuesInOrder(t *testing.T) {
	s, err := New(
		[]string{"a", "b", "a", "b"},
		[]float64{1, 10, 2, 20},
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	vs := s.Values("b")
	if len(vs) != 2 || vs[0] != 10 || vs[1] != 20 {
		t.Errorf("Values(b) = %v, expected [10 20]", vs)
	}
	if got := s.Values("missing"); len(got) != 0 {
		t.Errorf("Values for unknown group should be empty, got %v", got)
	}
}

func TestFromGroups_RespectsExplicitOrder(t *testing.T) {
	s, err := FromGroups(map[string][]float64{
		"x": {1, 2},
		"y": {3, 4},
	}, []string{"y", "x"})
	if err != nil {
		t.Fatalf("FromGroups failed: %v", err)
	}
	groups := s.Groups()
	if groups[0] != "y" || groups[1] != "x" {
		t.Errorf("Expected order [y x], got %v", groups)
	}
}

func TestRequireGroups_EnforcesMinimums(t *testing.T) {
	s, _ := New([]string{"a", "a", "b"}, []float64{1, 2, 3})

	if err := s.RequireGroups(2, 2); err == nil {
		t.Error("Expected error for group b with a single observation")
	} else if !core.IsInsufficientData(err) {
		t.Errorf("Expected insufficient data error, got %v", err)
	}

	if err := s.RequireGroups(3, 1); err == nil {
		t.Error("Expected error when fewer groups than required")
	}
}

func TestRequireTwoGroups_RejectsOtherCounts(t *testing.T) {
	three, _ := New([]string{"a", "b", "c"}, []float64{1, 2, 3})
	_, _, _, _, err := three.RequireTwoGroups()
	if !errors.Is(err, core.ErrInvalidGroupCount) {
		t.Errorf("Expected ErrInvalidGroupCount, got %v", err)
	}

	two, _ := New([]string{"a", "a", "b", "b"}, []float64{1, 2, 3, 4})
	g1, xs, g2, ys, err := two.RequireTwoGroups()
	if err != nil {
		t.Fatalf("RequireTwoGroups failed: %v", err)
	}
	if g1 != "a" || g2 != "b" || len(xs) != 2 || len(ys) != 2 {
		t.Errorf("Unexpected split: %v=%v %v=%v", g1, xs, g2, ys)
	}
}
