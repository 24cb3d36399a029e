package semver

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		wantErr  bool
	}{
		{"1.0.0", "1.0.0", false},
		{"1.0", "1.0.0", false},
		{"1", "1.0.0", false},
		{"v1.2", "1.2.0", false},
		{"1.2.3.4", "1.2.3", false},
		{"2.5.1-beta.3", "2.5.1", false},
		{"build-42", "42.0.0", false},
		{" 1.0.0 ", "1.0.0", false},
		{"abc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Normalize(%q) error = %v; want ErrInvalid", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Normalize(%q) = %q; want %q", tt.raw, got, tt.expected)
		}
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.1.0", "1.0.0", 1},
		{"1.0.0", "1.1.0", -1},
		{"1.0.10", "1.0.2", 1},
		{"2.0.0", "1.9.9", 1},
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.expected {
			t.Errorf("Compare(%s, %s) = %d; want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestParts(t *testing.T) {
	major, minor, patch, err := Parts("4.13.2")
	if err != nil {
		t.Fatalf("Parts returned error: %v", err)
	}
	if major != 4 || minor != 13 || patch != 2 {
		t.Errorf("Parts(4.13.2) = %d,%d,%d", major, minor, patch)
	}

	if _, _, _, err := Parts("1.0"); err == nil {
		t.Error("Parts(1.0) expected error, got nil")
	}
}
