//go:build js && wasm

package webgl

import (
	"syscall/js"

	"github.com/richinsley/chromaring/schedule"
)

// Scheduler runs frame callbacks from window.requestAnimationFrame.
type Scheduler struct {
	window    js.Value
	pending   schedule.FrameFunc
	requested bool
	callback  js.Func
}

var _ schedule.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	s := &Scheduler{window: js.Global().Get("window")}
	s.callback = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		s.requested = false
		fn := s.pending
		s.pending = nil
		if fn != nil && len(args) > 0 {
			fn(args[0].Float())
		}
		return nil
	})
	return s
}

// RequestFrame implements schedule.Scheduler. At most one animation frame is
// outstanding; a later request replaces the pending callback.
func (s *Scheduler) RequestFrame(fn schedule.FrameFunc) {
	s.pending = fn
	if !s.requested {
		s.requested = true
		s.window.Call("requestAnimationFrame", s.callback)
	}
}

// Release frees the JavaScript callback.
func (s *Scheduler) Release() {
	s.callback.Release()
}
