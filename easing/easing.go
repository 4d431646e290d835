// Package easing implements frame-rate independent exponential smoothing.
package easing

import "math"

// Smooth moves current toward target by the fraction of the gap an exponential
// approach with time constant tau closes in dt seconds. A non-positive tau
// snaps straight to target.
func Smooth(current, target, dt, tau float64) float64 {
	if tau <= 0 {
		return target
	}
	a := 1 - math.Exp(-dt/tau)
	return current + (target-current)*a
}

// Factor returns the approach factor Smooth applies for dt and tau, in [0, 1).
func Factor(dt, tau float64) float64 {
	if tau <= 0 {
		return 1
	}
	return 1 - math.Exp(-dt/tau)
}
