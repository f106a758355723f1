package service

import "testing"

func TestClampScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		max   float64
		want  float64
	}{
		{name: "within range", score: 7, max: 10, want: 7},
		{name: "above max clamps down", score: 15, max: 10, want: 10},
		{name: "negative clamps to zero", score: -2, max: 10, want: 0},
		{name: "exactly max", score: 10, max: 10, want: 10},
		{name: "zero score", score: 0, max: 10, want: 0},
		{name: "fractional within range", score: 7.5, max: 10, want: 7.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampScore(tc.score, tc.max); got != tc.want {
				t.Errorf("clampScore(%v, %v) = %v, want %v", tc.score, tc.max, got, tc.want)
			}
		})
	}
}
