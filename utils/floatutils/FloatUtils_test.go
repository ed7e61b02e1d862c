package floatutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	for _, test := range []struct{ in, want float64 }{
		{-3, -1}, {0.5, 0.5}, {7, 1},
	} {
		if got := Clip(test.in, -1, 1); got != test.want {
			t.Errorf("clip(%v): expected %v, got %v", test.in, test.want, got)
		}
	}
}

func TestWrapInterval(t *testing.T) {
	angles := r1.Interval{Min: -math.Pi, Max: math.Pi}
	for _, test := range []struct{ in, want float64 }{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi + 0.5, -math.Pi + 0.5},
		{-math.Pi - 0.5, math.Pi - 0.5},
		{3*math.Pi + 0.25, -math.Pi + 0.25},
	} {
		got := WrapInterval(test.in, angles)
		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("wrapInterval(%v): expected %v, got %v", test.in,
				test.want, got)
		}
	}
}

func TestMinMax(t *testing.T) {
	for _, test := range []struct {
		values   []float64
		min, max float64
	}{
		{[]float64{3}, 3, 3},
		{[]float64{5, 1, 2}, 1, 5},
		{[]float64{-1, 4, math.Inf(-1)}, math.Inf(-1), 4},
	} {
		if got := Min(test.values[0], test.values[1:]...); got != test.min {
			t.Errorf("min(%v): expected %v, got %v", test.values, test.min,
				got)
		}
		if got := Max(test.values[0], test.values[1:]...); got != test.max {
			t.Errorf("max(%v): expected %v, got %v", test.values, test.max,
				got)
		}
	}
}
