// Package animation holds the mutable state of the ring effect and the frame
// driver that advances it.
package animation

import (
	"github.com/richinsley/chromaring/easing"
)

const (
	// DefaultTargetTau is the time constant, in seconds, of the first stage
	// (raw pointer to target).
	DefaultTargetTau = 0.80
	// DefaultFollowTau is the time constant of the second stage (target to
	// displayed position).
	DefaultFollowTau = 0.85
	// DefaultParallax scales pointer displacement from the surface center
	// before it is inverted.
	DefaultParallax = 0.2
	// DefaultMaxFrameDelta caps the per-frame time step in seconds.
	DefaultMaxFrameDelta = 0.05
)

// Vec2 is a position in surface pixel coordinates, origin top-left.
type Vec2 struct {
	X, Y float64
}

// Tuning holds the constants of the easing filter and the pointer transform.
type Tuning struct {
	TargetTau     float64
	FollowTau     float64
	Parallax      float64
	MaxFrameDelta float64
}

// DefaultTuning returns the stock constants of the effect.
func DefaultTuning() Tuning {
	return Tuning{
		TargetTau:     DefaultTargetTau,
		FollowTau:     DefaultFollowTau,
		Parallax:      DefaultParallax,
		MaxFrameDelta: DefaultMaxFrameDelta,
	}
}

// State is every value the effect carries between frames. It is owned by the
// host's event thread; nothing in it is safe for concurrent use.
type State struct {
	Width  int
	Height int

	// Raw is the latest pointer position after the parallax transform.
	Raw Vec2
	// Target chases Raw with TargetTau.
	Target Vec2
	// Mouse chases Target with FollowTau and is what the shader receives.
	Mouse Vec2

	tuning   Tuning
	last     float64
	hasLast  bool
	lastStep Step
}

// Step describes one advance of the frame clock.
type Step struct {
	// Elapsed is the absolute frame timestamp in seconds.
	Elapsed float64
	// Delta is the time step used for smoothing, in seconds.
	Delta float64
	// Clamped reports that the raw delta exceeded MaxFrameDelta.
	Clamped bool
}

// NewState returns a zeroed state using the given tuning.
func NewState(t Tuning) *State {
	return &State{tuning: t}
}

// Tuning returns the constants currently in effect.
func (s *State) Tuning() Tuning {
	return s.tuning
}

// SetTuning replaces the constants. Positions and the frame clock are kept.
func (s *State) SetTuning(t Tuning) {
	s.tuning = t
}

// Center returns the middle of the surface.
func (s *State) Center() Vec2 {
	return Vec2{X: float64(s.Width) / 2, Y: float64(s.Height) / 2}
}

// Resize records new surface dimensions and recenters the pointer path.
// Non-positive dimensions are ignored. The displayed position is only moved
// when it still sits at the zero origin, so the ring does not sweep in from
// the corner on the first resize.
func (s *State) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.Width = width
	s.Height = height
	c := s.Center()
	s.Raw = c
	s.Target = c
	if s.Mouse.X == 0 && s.Mouse.Y == 0 {
		s.Mouse = c
	}
	return true
}

// Delta converts a frame timestamp in milliseconds into the smoothing step.
// The first call yields zero. A timestamp earlier than the previous one also
// yields zero.
func (s *State) Delta(timestampMs float64) (dt float64, clamped bool) {
	if s.hasLast {
		dt = (timestampMs - s.last) * 0.001
	}
	s.last = timestampMs
	s.hasLast = true

	if dt < 0 {
		dt = 0
	}
	if limit := s.tuning.MaxFrameDelta; limit > 0 && dt > limit {
		dt = limit
		clamped = true
	}
	return dt, clamped
}

// Advance runs one frame of the two-stage filter for the given timestamp.
func (s *State) Advance(timestampMs float64) Step {
	dt, clamped := s.Delta(timestampMs)

	s.Target = SmoothVec(s.Target, s.Raw, dt, s.tuning.TargetTau)
	s.Mouse = SmoothVec(s.Mouse, s.Target, dt, s.tuning.FollowTau)

	s.lastStep = Step{
		Elapsed: timestampMs * 0.001,
		Delta:   dt,
		Clamped: clamped,
	}
	return s.lastStep
}

// LastStep returns the result of the most recent Advance.
func (s *State) LastStep() Step {
	return s.lastStep
}

// SmoothVec applies easing.Smooth to each axis.
func SmoothVec(current, target Vec2, dt, tau float64) Vec2 {
	return Vec2{
		X: easing.Smooth(current.X, target.X, dt, tau),
		Y: easing.Smooth(current.Y, target.Y, dt, tau),
	}
}
