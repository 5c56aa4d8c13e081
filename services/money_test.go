package services

import (
	"math"
	"testing"
)

func TestRoundCurrency(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		expect float64
	}{
		{"exact", 1.23, 1.23},
		{"half rounds up", 1.005, 1.01},
		{"half rounds up again", 2.675, 2.68},
		{"down", 1.004, 1.0},
		{"negative half away from zero", -1.005, -1.01},
		{"zero", 0, 0},
		{"nan becomes zero", math.NaN(), 0},
		{"inf becomes zero", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundCurrency(tt.value)
			if got != tt.expect {
				t.Errorf("RoundCurrency(%v) = %v, want %v", tt.value, got, tt.expect)
			}
		})
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name   string
		qty    float64
		price  float64
		expect float64
	}{
		{"basic", 2, 100, 200},
		{"fractional cents", 3, 0.1, 0.3},
		{"zero qty", 0, 50, 0},
		{"negative qty clamps", -4, 50, 0},
		{"nan qty clamps", math.NaN(), 50, 0},
		{"nan price treated as zero", 5, math.NaN(), 0},
		{"rounding", 3, 33.335, 100.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.qty, tt.price)
			if got != tt.expect {
				t.Errorf("LineTotal(%v, %v) = %v, want %v", tt.qty, tt.price, got, tt.expect)
			}
		})
	}
}

func TestCalculateGST(t *testing.T) {
	tests := []struct {
		name   string
		base   float64
		expect float64
	}{
		{"round base", 100, 10},
		{"fencing scenario", 202.50, 20.25},
		{"zero", 0, 0},
		{"needs rounding", 33.33, 3.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateGST(tt.base)
			if got != tt.expect {
				t.Errorf("CalculateGST(%v) = %v, want %v", tt.base, got, tt.expect)
			}
		})
	}
}

func TestRecalcGrandTotal(t *testing.T) {
	tests := []struct {
		name    string
		base    float64
		percent float64
		expect  float64
	}{
		{"no discount", 225, 0, 225},
		{"ten percent", 225, 10, 202.50},
		{"full discount", 100, 100, 0},
		{"over-discount clamps at zero", 100, 150, 0},
		{"fractional", 99.99, 12.5, 87.49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecalcGrandTotal(tt.base, tt.percent)
			if got != tt.expect {
				t.Errorf("RecalcGrandTotal(%v, %v) = %v, want %v",
					tt.base, tt.percent, got, tt.expect)
			}
		})
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		expect float64
	}{
		{"in range", 42.5, 42.5},
		{"below zero", -3, 0},
		{"above hundred", 120, 100},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPercent(tt.value)
			if got != tt.expect {
				t.Errorf("ClampPercent(%v) = %v, want %v", tt.value, got, tt.expect)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		expect  float64
		wantErr bool
	}{
		{"plain", "50", 50, false},
		{"decimal", "12.75", 12.75, false},
		{"currency symbols stripped", "$1,234.50", 1234.50, false},
		{"spaces stripped", " 42 ", 42, false},
		{"empty is zero", "", 0, false},
		{"trailing junk rejected", "50x", 0, true},
		{"words rejected", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(tt.cell)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseNumber(%q) expected error, got %v", tt.cell, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNumber(%q) unexpected error: %v", tt.cell, err)
			}
			if got != tt.expect {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.cell, got, tt.expect)
			}
		})
	}
}
