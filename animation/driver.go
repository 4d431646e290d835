package animation

import (
	"context"
	"errors"

	"github.com/richinsley/chromaring/schedule"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Start on a driver that is running or has
// been stopped.
var ErrAlreadyStarted = errors.New("animation driver already started")

// Renderer receives the per-frame shader parameters and draws.
type Renderer interface {
	SetParameters(resolution [2]float32, pointer [2]float32, elapsed float32)
	Draw()
}

// Observer is told about every rendered frame.
type Observer interface {
	ObserveFrame(step Step)
}

// Driver advances a State once per scheduled frame and renders it.
type Driver struct {
	state     *State
	scheduler schedule.Scheduler
	renderer  Renderer
	observer  Observer
	tuning    <-chan Tuning
	logger    *zap.Logger

	ctx     context.Context
	started bool
	stopped bool
	frames  int64
}

// Option configures a Driver.
type Option func(*Driver)

// WithObserver reports each frame to o.
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// WithTuningUpdates applies tuning values received on ch at the start of the
// next frame.
func WithTuningUpdates(ch <-chan Tuning) Option {
	return func(d *Driver) { d.tuning = ch }
}

// WithLogger sets the driver's logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver returns a driver in the not-started state.
func NewDriver(state *State, scheduler schedule.Scheduler, renderer Renderer, opts ...Option) *Driver {
	d := &Driver{
		state:     state,
		scheduler: scheduler,
		renderer:  renderer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start requests the first frame. Every frame requests its successor until
// ctx is cancelled or Stop is called.
func (d *Driver) Start(ctx context.Context) error {
	if d.started {
		return ErrAlreadyStarted
	}
	d.started = true
	d.ctx = ctx
	d.logger.Debug("animation started",
		zap.Int("width", d.state.Width),
		zap.Int("height", d.state.Height))
	d.scheduler.RequestFrame(d.frame)
	return nil
}

// Stop keeps the next scheduled frame from running or rescheduling.
func (d *Driver) Stop() {
	if !d.stopped {
		d.logger.Debug("animation stopped", zap.Int64("frames", d.frames))
	}
	d.stopped = true
}

// Running reports whether the driver has started and not been stopped.
func (d *Driver) Running() bool {
	return d.started && !d.stopped && d.ctx.Err() == nil
}

// Frames returns the number of frames rendered.
func (d *Driver) Frames() int64 {
	return d.frames
}

func (d *Driver) frame(timestampMs float64) {
	if !d.Running() {
		return
	}
	d.applyTuning()

	step := d.state.Advance(timestampMs)
	s := d.state
	d.renderer.SetParameters(
		[2]float32{float32(s.Width), float32(s.Height)},
		[2]float32{float32(s.Mouse.X), float32(s.Mouse.Y)},
		float32(step.Elapsed),
	)
	d.renderer.Draw()
	d.frames++

	if d.observer != nil {
		d.observer.ObserveFrame(step)
	}
	if step.Clamped {
		d.logger.Debug("frame delta clamped", zap.Float64("ts_ms", timestampMs))
	}

	if d.Running() {
		d.scheduler.RequestFrame(d.frame)
	}
}

func (d *Driver) applyTuning() {
	if d.tuning == nil {
		return
	}
	for {
		select {
		case t, ok := <-d.tuning:
			if !ok {
				d.tuning = nil
				return
			}
			d.state.SetTuning(t)
			d.logger.Info("tuning updated",
				zap.Float64("target_tau", t.TargetTau),
				zap.Float64("follow_tau", t.FollowTau),
				zap.Float64("parallax", t.Parallax),
				zap.Float64("max_frame_delta", t.MaxFrameDelta))
		default:
			return
		}
	}
}
