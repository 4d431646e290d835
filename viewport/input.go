package viewport

import (
	"github.com/richinsley/chromaring/animation"
)

// InputObserver is told about input events, e.g. for metrics.
type InputObserver interface {
	ObservePointer(kind string)
	ObserveSurface(width, height int)
}

// Input routes host events into the animation state and the Manager. It
// satisfies graphics.InputHandler.
type Input struct {
	manager  *Manager
	state    *animation.State
	observer InputObserver
}

// NewInput returns an Input. observer may be nil.
func NewInput(manager *Manager, state *animation.State, observer InputObserver) *Input {
	return &Input{manager: manager, state: state, observer: observer}
}

func (in *Input) PointerMove(x, y float64) {
	in.state.PointerMove(x, y)
	if in.observer != nil {
		in.observer.ObservePointer("mouse")
	}
}

func (in *Input) TouchMove(touches []animation.Vec2) {
	if len(touches) == 0 {
		return
	}
	in.state.TouchMove(touches)
	if in.observer != nil {
		in.observer.ObservePointer("touch")
	}
}

func (in *Input) Resized() {
	if in.manager.Resize() && in.observer != nil {
		in.observer.ObserveSurface(in.state.Width, in.state.Height)
	}
}
