// Package viewport keeps the drawable surface, the backend viewport and the
// animation state in agreement about the surface size.
package viewport

import (
	"github.com/richinsley/chromaring/animation"
	"go.uber.org/zap"
)

// Surface reports the current drawable size in pixels.
type Surface interface {
	GetFramebufferSize() (int, int)
}

// SizedSurface is a Surface whose drawable is sized by the caller, such as a
// canvas element whose backing store does not follow the window.
type SizedSurface interface {
	Surface
	SetSize(width, height int)
}

// Backend is the part of the rendering backend a resize touches.
type Backend interface {
	Viewport(x, y, width, height int)
}

// Manager applies resize notifications.
type Manager struct {
	surface Surface
	backend Backend
	state   *animation.State
	logger  *zap.Logger
}

// New returns a Manager. A nil logger discards output.
func New(surface Surface, backend Backend, state *animation.State, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{surface: surface, backend: backend, state: state, logger: logger}
}

// Resize reads the surface size and applies it everywhere. Call it once at
// startup and again on every resize notification. It reports false when the
// surface is empty (a minimized window) and nothing was changed.
func (m *Manager) Resize() bool {
	width, height := m.surface.GetFramebufferSize()
	if width <= 0 || height <= 0 {
		m.logger.Debug("ignoring empty surface", zap.Int("width", width), zap.Int("height", height))
		return false
	}
	if sized, ok := m.surface.(SizedSurface); ok {
		sized.SetSize(width, height)
	}
	m.backend.Viewport(0, 0, width, height)
	m.state.Resize(width, height)
	m.logger.Debug("surface resized", zap.Int("width", width), zap.Int("height", height))
	return true
}
