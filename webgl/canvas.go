//go:build js && wasm

package webgl

import (
	"fmt"
	"syscall/js"

	"github.com/richinsley/chromaring/animation"
	"github.com/richinsley/chromaring/graphics"
	"go.uber.org/zap"
)

// CanvasID is the element the effect draws into.
const CanvasID = "chromaticCanvas"

// Canvas is a full-window canvas element with a WebGL 1 context.
type Canvas struct {
	window  js.Value
	element js.Value
	gl      js.Value
	logger  *zap.Logger
	funcs   []js.Func
}

// NewCanvas looks up the canvas by id and creates its WebGL context. A
// missing element or context yields graphics.ErrUnavailable.
func NewCanvas(id string, logger *zap.Logger) (*Canvas, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	global := js.Global()
	element := global.Get("document").Call("getElementById", id)
	if element.IsNull() || element.IsUndefined() {
		return nil, fmt.Errorf("%w: no canvas element %q", graphics.ErrUnavailable, id)
	}
	gl := element.Call("getContext", "webgl")
	if gl.IsNull() || gl.IsUndefined() {
		return nil, fmt.Errorf("%w: WebGL not supported", graphics.ErrUnavailable)
	}
	return &Canvas{
		window:  global.Get("window"),
		element: element,
		gl:      gl,
		logger:  logger,
	}, nil
}

// GL returns the WebGLRenderingContext.
func (c *Canvas) GL() js.Value {
	return c.gl
}

// GetFramebufferSize returns the window's inner size, which the canvas is
// kept at.
func (c *Canvas) GetFramebufferSize() (int, int) {
	return c.window.Get("innerWidth").Int(), c.window.Get("innerHeight").Int()
}

// SetSize resizes the canvas backing store.
func (c *Canvas) SetSize(width, height int) {
	c.element.Set("width", width)
	c.element.Set("height", height)
}

// Listen forwards window resize and document mouse and touch moves to h.
func (c *Canvas) Listen(h graphics.InputHandler) {
	document := js.Global().Get("document")
	c.addListener(c.window, "resize", func(js.Value) {
		h.Resized()
	})
	c.addListener(document, "mousemove", func(e js.Value) {
		h.PointerMove(e.Get("clientX").Float(), e.Get("clientY").Float())
	})
	c.addListener(document, "touchmove", func(e js.Value) {
		h.TouchMove(touchPoints(e.Get("touches")))
	})
}

func (c *Canvas) addListener(target js.Value, event string, fn func(js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	target.Call("addEventListener", event, f)
	c.funcs = append(c.funcs, f)
	c.logger.Debug("listening", zap.String("event", event))
}

// Release releases the event callbacks. Listeners must not fire afterwards.
func (c *Canvas) Release() {
	for _, f := range c.funcs {
		f.Release()
	}
	c.funcs = nil
}

func touchPoints(list js.Value) []animation.Vec2 {
	n := list.Get("length").Int()
	if n == 0 {
		return nil
	}
	points := make([]animation.Vec2, n)
	for i := 0; i < n; i++ {
		t := list.Index(i)
		points[i] = animation.Vec2{X: t.Get("clientX").Float(), Y: t.Get("clientY").Float()}
	}
	return points
}
