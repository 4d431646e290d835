package easing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothNonPositiveTauSnaps(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		target  float64
		dt      float64
		tau     float64
	}{
		{"zero tau", 10, 20, 0.016, 0},
		{"negative tau", -5, 7.5, 1, -0.3},
		{"zero dt", 3, 4, 0, 0},
		{"huge dt", 100, -100, 1e6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.target, Smooth(tt.current, tt.target, tt.dt, tt.tau))
		})
	}
}

func TestSmoothZeroDeltaIsIdentity(t *testing.T) {
	for _, current := range []float64{-300, 0, 12.5, 400} {
		got := current
		for i := 0; i < 10; i++ {
			got = Smooth(got, 999, 0, 0.8)
		}
		assert.Equal(t, current, got)
	}
}

func TestSmoothApproachesWithoutOvershoot(t *testing.T) {
	const target = 340.0
	current := 400.0
	prevGap := math.Abs(target - current)
	for _, dt := range []float64{0.016, 0.05, 0.5, 5, 50, 500} {
		next := Smooth(current, target, dt, 0.8)
		gap := math.Abs(target - next)
		assert.LessOrEqual(t, gap, prevGap, "dt=%v", dt)
		assert.GreaterOrEqual(t, next, target, "overshot at dt=%v", dt)
		prevGap = gap
	}
	assert.InDelta(t, target, Smooth(400, target, 1e4, 0.8), 1e-9)
}

func TestSmoothRepeatedStepsConverge(t *testing.T) {
	current := 0.0
	for i := 0; i < 2000; i++ {
		next := Smooth(current, 100, 0.016, 0.85)
		assert.GreaterOrEqual(t, next, current)
		assert.LessOrEqual(t, next, 100.0)
		current = next
	}
	assert.InDelta(t, 100, current, 1e-6)
}

func TestFactor(t *testing.T) {
	assert.InDelta(t, 0.0198, Factor(0.016, 0.80), 1e-4)
	assert.Equal(t, 0.0, Factor(0, 0.8))
	assert.Equal(t, 1.0, Factor(0.016, 0))

	// Smooth is a linear interpolation by Factor.
	assert.InDelta(t, 400+(340-400)*Factor(0.016, 0.8), Smooth(400, 340, 0.016, 0.8), 1e-12)
}
