package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/chromaring/graphics"
	"go.uber.org/zap"
)

// Options configure the window.
type Options struct {
	Width      int
	Height     int
	Title      string
	Fullscreen bool
	VSync      bool
}

// Context is a GLFW window with an OpenGL 4.1 core context.
type Context struct {
	window  *glfw.Window
	handler graphics.InputHandler
	logger  *zap.Logger
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

// New creates and initializes a new GLFW window and returns a Context object.
func New(opts Options, logger *zap.Logger) (*Context, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	width, height := opts.Width, opts.Height
	var monitor *glfw.Monitor
	if opts.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		if mode := monitor.GetVideoMode(); mode != nil {
			width, height = mode.Width, mode.Height
		}
	}

	title := opts.Title
	if title == "" {
		title = "chromaring"
	}
	win, err := glfw.CreateWindow(width, height, title, monitor, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		logger:       logger,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)

	return c, nil
}

// SetInputHandler routes pointer and resize events to h.
func (c *Context) SetInputHandler(h graphics.InputHandler) {
	c.handler = h
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

// glfwCursorPosCallback converts window coordinates to framebuffer pixels,
// which differ on high-density displays.
func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if c.handler == nil {
		return
	}
	scaleX, scaleY := c.framebufferScale()
	c.handler.PointerMove(xpos*scaleX, ypos*scaleY)
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	c.logger.Debug("framebuffer size changed", zap.Int("width", width), zap.Int("height", height))
	if c.handler != nil {
		c.handler.Resized()
	}
}

func (c *Context) framebufferScale() (float64, float64) {
	fbWidth, fbHeight := c.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	var scaleX, scaleY float64 = 1.0, 1.0
	if winWidth > 0 && winHeight > 0 {
		scaleX = float64(fbWidth) / float64(winWidth)
		scaleY = float64(fbHeight) / float64(winHeight)
	}
	return scaleX, scaleY
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// Close asks the window to close at the end of the current frame.
func (c *Context) Close() {
	c.window.SetShouldClose(true)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics(logger *zap.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	if logger != nil {
		logger.Debug("GLFW initialized", zap.String("version", glfw.GetVersionString()))
	}
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics(logger *zap.Logger) {
	glfw.Terminate()
	if logger != nil {
		logger.Debug("GLFW terminated")
	}
}
