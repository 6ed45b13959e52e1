package units

import (
	"math"
	"testing"
)

func TestIsValidPressure(t *testing.T) {
	tests := []struct {
		unit string
		want bool
	}{
		{Bar, true},
		{PSI, true},
		{KPa, true},
		{"", false},
		{"atm", false},
		{"BAR", false}, // case sensitive
	}

	for _, tt := range tests {
		if got := IsValidPressure(tt.unit); got != tt.want {
			t.Errorf("IsValidPressure(%q) = %v, want %v", tt.unit, got, tt.want)
		}
	}
}

func TestConvertPressure(t *testing.T) {
	tests := []struct {
		name   string
		bar    float64
		target string
		want   float64
	}{
		{"bar passthrough", 8.0, Bar, 8.0},
		{"bar to psi", 1.0, PSI, 14.503773773},
		{"bar to kpa", 2.5, KPa, 250.0},
		{"unknown unit falls back to bar", 8.0, "atm", 8.0},
		{"zero", 0, PSI, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertPressure(tt.bar, tt.target)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ConvertPressure(%v, %q) = %v, want %v", tt.bar, tt.target, got, tt.want)
			}
		})
	}
}

func TestConvertFlow(t *testing.T) {
	if got := ConvertFlow(10.0, GPM); math.Abs(got-2.641720524) > 1e-9 {
		t.Errorf("ConvertFlow(10, gpm) = %v, want 2.641720524", got)
	}
	if got := ConvertFlow(10.0, LPM); got != 10.0 {
		t.Errorf("ConvertFlow(10, lpm) = %v, want 10", got)
	}
	if got := ConvertFlow(10.0, "bogus"); got != 10.0 {
		t.Errorf("ConvertFlow(10, bogus) = %v, want 10", got)
	}
}
