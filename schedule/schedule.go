// Package schedule drives per-frame callbacks the way a display refresh does:
// a callback asks for the next frame, and the scheduler invokes it once with a
// millisecond timestamp.
package schedule

import (
	"context"
	"errors"
)

// FrameFunc is invoked once per scheduled frame with a timestamp in
// milliseconds.
type FrameFunc func(timestampMs float64)

// Scheduler queues a callback for the next frame.
type Scheduler interface {
	RequestFrame(fn FrameFunc)
}

// Clock reports the current time in milliseconds.
type Clock interface {
	Now() float64
}

// Host is the surface a Loop presents on.
type Host interface {
	ShouldClose() bool
	// EndFrame presents the frame and delivers pending window events.
	EndFrame()
}

// ErrIdle is returned by Run when no callback asked for another frame.
var ErrIdle = errors.New("no frame requested")

// Loop is a single-threaded Scheduler. It holds at most one pending callback;
// a later request replaces an earlier one that has not run yet.
type Loop struct {
	clock   Clock
	host    Host
	pending FrameFunc
	frames  int64
}

// NewLoop returns a Loop presenting on host and stamping frames with clock.
func NewLoop(clock Clock, host Host) *Loop {
	return &Loop{clock: clock, host: host}
}

// RequestFrame implements Scheduler.
func (l *Loop) RequestFrame(fn FrameFunc) {
	l.pending = fn
}

// Frames returns the number of callbacks run so far.
func (l *Loop) Frames() int64 {
	return l.frames
}

// RunOnce runs the pending callback, if any, and ends the frame. It reports
// whether a callback ran.
func (l *Loop) RunOnce() bool {
	fn := l.pending
	if fn == nil {
		return false
	}
	l.pending = nil
	fn(l.clock.Now())
	l.frames++
	l.host.EndFrame()
	return true
}

// Run services frames until the host wants to close, ctx is cancelled, or a
// frame passes without requesting its successor. Run must be called from the
// thread that owns the host.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.host.ShouldClose() {
			return nil
		}
		if !l.RunOnce() {
			return ErrIdle
		}
	}
}
