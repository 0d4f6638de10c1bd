package normalization

import "testing"

type testEnum string

const (
	enumAlpha testEnum = "alpha"
	enumBeta  testEnum = "beta"
)

func TestNormalizer_Basic(t *testing.T) {
	n := NewNormalizer(map[string]testEnum{"alpha": enumAlpha, "Beta": enumBeta}, enumAlpha)

	tests := []struct {
		name     string
		input    string
		expected testEnum
	}{
		{"exact match", "alpha", enumAlpha},
		{"case insensitive key", "beta", enumBeta},
		{"with spaces", "  BETA ", enumBeta},
		{"invalid input", "gamma", enumAlpha},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	n := NewNormalizer(map[string]testEnum{"alpha": enumAlpha, "beta": enumBeta}, enumAlpha)

	if v, err := n.NormalizeWithError(" Alpha"); err != nil || v != enumAlpha {
		t.Fatalf("expected alpha, got %v err=%v", v, err)
	}
	if _, err := n.NormalizeWithError("nope"); err == nil {
		t.Fatal("expected error for unknown value")
	}
	keys := n.ValidKeys()
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "beta" {
		t.Errorf("unexpected keys %v", keys)
	}
}
