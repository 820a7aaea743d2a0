package scoring_test

import (
	"math"
	"testing"

	"github.com/vigiapix/vigia/internal/risk"
	"github.com/vigiapix/vigia/internal/scoring"
)

func TestClampScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int
	}{
		{"in range", 55, 55},
		{"zero", 0, 0},
		{"max", 100, 100},
		{"negative", -10, 0},
		{"above max", 150, 100},
		{"fractional truncates", 72.6, 72},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"negative inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoring.ClampScore(tt.in); got != tt.want {
				t.Errorf("ClampScore(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", 0.75, 0.75},
		{"zero", 0, 0},
		{"one", 1, 1},
		{"negative", -0.5, 0},
		{"above one", 1.5, 1},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoring.ClampConfidence(tt.in); got != tt.want {
				t.Errorf("ClampConfidence(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAssessmentLevel(t *testing.T) {
	tests := []struct {
		score int
		want  risk.Level
	}{
		{0, risk.Safe},
		{40, risk.Safe},
		{41, risk.Attention},
		{70, risk.Attention},
		{71, risk.HighRisk},
		{100, risk.HighRisk},
	}

	for _, tt := range tests {
		a := scoring.Assessment{Score: tt.score}
		if got := a.Level(); got != tt.want {
			t.Errorf("Level() for score %d = %s, want %s", tt.score, got, tt.want)
		}
	}
}
