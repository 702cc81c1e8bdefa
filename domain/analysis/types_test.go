package analysis

import (
	"encoding/json"
	"testing"

	"groupwise/domain/sample"
)

func TestAlternative_Valid(t *testing.T) {
	for _, alt := range []Alternative{TwoSided, Greater, Less} {
		if !alt.Valid() {
			t.Errorf("%q should be valid", alt)
		}
	}
	if Alternative("both").Valid() {
		t.Error("Unknown alternative should be invalid")
	}
}

func TestContrastSpec_Validate(t *testing.T) {
	groups := []sample.Group{"a", "b", "c"}

	tests := []struct {
		name    string
		spec    ContrastSpec
		wantErr bool
	}{
		{"canonical pair", Canonical("a", "b"), false},
		{"three-way", ContrastSpec{"a": 1, "b": -0.5, "c": -0.5}, false},
		{"unknown group", ContrastSpec{"a": 1, "z": -1}, true},
		{"all zero", ContrastSpec{"a": 0, "b": 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate(groups)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContrastSpec_IsCanonical(t *testing.T) {
	if !Canonical("a", "b").IsCanonical() {
		t.Error("Canonical pair should report canonical")
	}
	if (ContrastSpec{"a": 1, "b": -0.5, "c": -0.5}).IsCanonical() {
		t.Error("Three non-zero weights are not canonical")
	}
	if (ContrastSpec{"a": 1, "b": 2}).IsCanonical() {
		t.Error("Same-sign weights are not canonical")
	}
}

func TestTestResult_JSONOmitsEmptyWarnings(t *testing.T) {
	raw, err := json.Marshal(TestResult{Method: "welch_anova", PValue: 0.5, Alternative: TwoSided})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, present := decoded["warnings"]; present {
		t.Error("Empty warnings should be omitted from JSON")
	}
	if decoded["method"] != "welch_anova" {
		t.Errorf("method = %v", decoded["method"])
	}
}
