package analysis

import "testing"

func TestPolicyByName_KnownAndUnknown(t *testing.T) {
	for _, name := range []string{"cohen1988", "sawilowsky2009", "wilcox2017", "field2013"} {
		p, err := PolicyByName(name)
		if err != nil {
			t.Errorf("PolicyByName(%q) failed: %v", name, err)
		}
		if p.Name != name {
			t.Errorf("Policy name %q != requested %q", p.Name, name)
		}
	}
	if _, err := PolicyByName("nope"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}

func TestClassify_Cohen1988Boundaries(t *testing.T) {
	p, _ := PolicyByName("cohen1988")
	tests := []struct {
		estimate float64
		want     string
	}{
		{0.0, "negligible"},
		{0.1, "negligible"},
		{0.2, "small"},
		{-0.3, "small"}, // magnitude decides the band
		{0.5, "medium"},
		{0.79, "medium"},
		{0.8, "large"},
		{-2.4, "large"},
	}
	for _, tt := range tests {
		if got := p.Classify(tt.estimate); got != tt.want {
			t.Errorf("Classify(%v) = %q, expected %q", tt.estimate, got, tt.want)
		}
	}
}

func TestClassify_DomainSpecificPolicies(t *testing.T) {
	omega, _ := PolicyByName("field2013")
	if got := omega.Classify(0.07); got != "medium" {
		t.Errorf("field2013 Classify(0.07) = %q, expected medium", got)
	}
	xi, _ := PolicyByName("wilcox2017")
	if got := xi.Classify(0.35); got != "medium" {
		t.Errorf("wilcox2017 Classify(0.35) = %q, expected medium", got)
	}
	saw, _ := PolicyByName("sawilowsky2009")
	if got := saw.Classify(2.5); got != "huge" {
		t.Errorf("sawilowsky2009 Classify(2.5) = %q, expected huge", got)
	}
}

func TestPolicyNames_Sorted(t *testing.T) {
	names := PolicyNames()
	if len(names) != 4 {
		t.Fatalf("Expected 4 policies, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Policy names not sorted: %v", names)
		}
	}
}
