//go:build linux

package headless

import (
	"fmt"
	"unsafe"

	"github.com/richinsley/chromaring/graphics"
	"go.uber.org/zap"
)

/*
#cgo LDFLAGS: -lEGL -lGLESv2
#include <EGL/egl.h>
#include <EGL/eglext.h>

// Extension entry points are resolved at runtime; call them through wrappers.
static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

// Headless is an EGL pbuffer context. It renders a fixed number of frames and
// then reports that it should close.
type Headless struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width  int
	height int
	frames int
	limit  int
	logger *zap.Logger
}

var _ graphics.Context = (*Headless)(nil)

// getEGLDisplay tries device enumeration first and falls back to the default
// display.
func getEGLDisplay(logger *zap.Logger) (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		logger.Warn("EGL_EXT_device_query not supported or no devices found, falling back to EGL_DEFAULT_DISPLAY")
		display := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("fallback to eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	logger.Debug("enumerated EGL devices", zap.Int("count", int(numDevices)))
	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}

	for i := 0; i < int(numDevices); i++ {
		display := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			logger.Debug("using EGL device", zap.Int("index", i))
			return display, nil
		}
	}

	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("could not get a valid EGL display from any available device")
}

// NewHeadless creates a width x height GLES 3 pbuffer context that closes
// after frames frames. A non-positive frame count never closes on its own.
func NewHeadless(width, height, frames int, logger *zap.Logger) (*Headless, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pbuffer size %dx%d", width, height)
	}
	h := &Headless{
		display: C.EGLDisplay(C.EGL_NO_DISPLAY),
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
		width:   width,
		height:  height,
		limit:   frames,
		logger:  logger,
	}

	display, err := getEGLDisplay(logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", graphics.ErrUnavailable, err)
	}
	var major, minor C.EGLint
	if C.eglInitialize(display, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("%w: eglInitialize failed (0x%x)", graphics.ErrUnavailable, eglError())
	}
	h.display = display
	logger.Info("EGL initialized", zap.Int("major", int(major)), zap.Int("minor", int(minor)))

	if err := h.createSurfaceAndContext(); err != nil {
		h.Shutdown()
		return nil, err
	}
	h.MakeCurrent()
	return h, nil
}

func (h *Headless) createSurfaceAndContext() error {
	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES3_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(h.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		return fmt.Errorf("%w: no GLES 3 pbuffer config (0x%x)", graphics.ErrUnavailable, eglError())
	}

	surfaceAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(h.width),
		C.EGL_HEIGHT, C.EGLint(h.height),
		C.EGL_NONE,
	}
	h.surface = C.eglCreatePbufferSurface(h.display, config, &surfaceAttribs[0])
	if h.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return fmt.Errorf("eglCreatePbufferSurface failed (0x%x)", eglError())
	}

	contextAttribs := []C.EGLint{C.EGL_CONTEXT_CLIENT_VERSION, 3, C.EGL_NONE}
	h.context = C.eglCreateContext(h.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if h.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return fmt.Errorf("eglCreateContext failed (0x%x)", eglError())
	}
	return nil
}

func eglError() int {
	return int(C.eglGetError())
}

func (h *Headless) MakeCurrent() {
	C.eglMakeCurrent(h.display, h.surface, h.surface, h.context)
}

func (h *Headless) Shutdown() {
	if h.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	noSurface := C.EGLSurface(C.EGL_NO_SURFACE)
	C.eglMakeCurrent(h.display, noSurface, noSurface, C.EGLContext(C.EGL_NO_CONTEXT))
	if h.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(h.display, h.context)
		h.context = C.EGLContext(C.EGL_NO_CONTEXT)
	}
	if h.surface != noSurface {
		C.eglDestroySurface(h.display, h.surface)
		h.surface = noSurface
	}
	C.eglTerminate(h.display)
	h.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
	h.logger.Debug("EGL context released", zap.Int("frames", h.frames))
}

func (h *Headless) ShouldClose() bool {
	return h.limit > 0 && h.frames >= h.limit
}

func (h *Headless) EndFrame() {
	C.eglSwapBuffers(h.display, h.surface)
	h.frames++
}

func (h *Headless) GetFramebufferSize() (int, int) {
	return h.width, h.height
}

// Time reports frames rendered at a nominal 60 Hz; headless runs are driven
// by a fixed clock instead.
func (h *Headless) Time() float64 {
	return float64(h.frames) / 60
}

func (h *Headless) IsGLES() bool {
	return true
}
