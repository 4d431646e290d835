package viewport

import (
	"testing"

	"github.com/richinsley/chromaring/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	width, height int
}

func (s *fakeSurface) GetFramebufferSize() (int, int) { return s.width, s.height }

type canvasSurface struct {
	fakeSurface
	setW, setH int
}

func (c *canvasSurface) SetSize(w, h int) { c.setW, c.setH = w, h }

type fakeBackend struct {
	calls [][4]int
}

func (b *fakeBackend) Viewport(x, y, w, h int) {
	b.calls = append(b.calls, [4]int{x, y, w, h})
}

func TestResizeAppliesEverywhere(t *testing.T) {
	surface := &fakeSurface{800, 600}
	backend := &fakeBackend{}
	state := animation.NewState(animation.DefaultTuning())
	m := New(surface, backend, state, nil)

	require.True(t, m.Resize())
	assert.Equal(t, [][4]int{{0, 0, 800, 600}}, backend.calls)
	assert.Equal(t, 800, state.Width)
	assert.Equal(t, 600, state.Height)
	assert.Equal(t, animation.Vec2{X: 400, Y: 300}, state.Raw)
	assert.Equal(t, animation.Vec2{X: 400, Y: 300}, state.Target)
	assert.Equal(t, animation.Vec2{X: 400, Y: 300}, state.Mouse)
}

func TestResizeRecentersAfterPointerMoved(t *testing.T) {
	surface := &fakeSurface{800, 600}
	state := animation.NewState(animation.DefaultTuning())
	m := New(surface, &fakeBackend{}, state, nil)
	m.Resize()

	state.PointerMove(700, 400)
	state.Advance(0)
	state.Advance(16)
	moved := state.Mouse

	surface.width, surface.height = 1920, 1080
	require.True(t, m.Resize())
	assert.Equal(t, animation.Vec2{X: 960, Y: 540}, state.Raw)
	assert.Equal(t, animation.Vec2{X: 960, Y: 540}, state.Target)
	assert.Equal(t, moved, state.Mouse)
}

func TestResizeSizesCanvas(t *testing.T) {
	surface := &canvasSurface{fakeSurface: fakeSurface{1280, 720}}
	m := New(surface, &fakeBackend{}, animation.NewState(animation.DefaultTuning()), nil)
	require.True(t, m.Resize())
	assert.Equal(t, 1280, surface.setW)
	assert.Equal(t, 720, surface.setH)
}

func TestResizeIgnoresMinimizedWindow(t *testing.T) {
	surface := &fakeSurface{800, 600}
	backend := &fakeBackend{}
	state := animation.NewState(animation.DefaultTuning())
	m := New(surface, backend, state, nil)
	m.Resize()

	surface.width, surface.height = 0, 0
	assert.False(t, m.Resize())
	assert.Len(t, backend.calls, 1)
	assert.Equal(t, 800, state.Width)
}
