package graphics

import (
	"errors"

	"github.com/richinsley/chromaring/animation"
)

// ErrUnavailable is returned when the host cannot provide a rendering
// context at all.
var ErrUnavailable = errors.New("rendering backend unavailable")

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the frame and delivers pending window events.
	EndFrame()
	GetFramebufferSize() (int, int)
	// Time returns seconds since the context was created.
	Time() float64
	IsGLES() bool
}

// InputHandler receives window events on the context's thread.
type InputHandler interface {
	// PointerMove reports a pointer position in framebuffer pixels, origin top-left.
	PointerMove(x, y float64)
	// TouchMove reports the active touch points in framebuffer pixels.
	TouchMove(touches []animation.Vec2)
	// Resized is called after the framebuffer size changed.
	Resized()
}
