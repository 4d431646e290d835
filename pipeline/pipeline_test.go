package pipeline

import (
	"errors"
	"testing"

	"github.com/richinsley/chromaring/animation"
	"github.com/richinsley/chromaring/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uniformWrite struct {
	loc  int32
	vals []float32
}

// fakeDevice records calls and hands out sequential handles.
type fakeDevice struct {
	next       uint32
	compileErr map[Stage]error
	linkErr    error
	quadErr    error
	locations  map[string]int32

	liveShaders  map[uint32]bool
	liveProgram  map[uint32]bool
	attribute    string
	vertices     []float32
	used         uint32
	writes       []uniformWrite
	draws        [][2]int
	deletedQuads []uint32
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		compileErr:  map[Stage]error{},
		locations:   map[string]int32{"u_resolution": 0, "u_mouse": 1, "u_time": 2},
		liveShaders: map[uint32]bool{},
		liveProgram: map[uint32]bool{},
	}
}

func (d *fakeDevice) handle() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) CompileShader(stage Stage, source string) (uint32, error) {
	if err := d.compileErr[stage]; err != nil {
		return 0, err
	}
	h := d.handle()
	d.liveShaders[h] = true
	return h, nil
}

func (d *fakeDevice) DeleteShader(s uint32) { delete(d.liveShaders, s) }

func (d *fakeDevice) LinkProgram(vs, fs uint32) (uint32, error) {
	if d.linkErr != nil {
		return 0, d.linkErr
	}
	h := d.handle()
	d.liveProgram[h] = true
	return h, nil
}

func (d *fakeDevice) DeleteProgram(p uint32) { delete(d.liveProgram, p) }
func (d *fakeDevice) UseProgram(p uint32)    { d.used = p }

func (d *fakeDevice) UploadQuad(p uint32, attribute string, vertices []float32) (uint32, error) {
	if d.quadErr != nil {
		return 0, d.quadErr
	}
	d.attribute = attribute
	d.vertices = vertices
	return d.handle(), nil
}

func (d *fakeDevice) DeleteBuffer(b uint32) { d.deletedQuads = append(d.deletedQuads, b) }

func (d *fakeDevice) UniformLocation(p uint32, name string) int32 {
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	return -1
}

func (d *fakeDevice) Uniform2f(loc int32, x, y float32) {
	d.writes = append(d.writes, uniformWrite{loc, []float32{x, y}})
}

func (d *fakeDevice) Uniform1f(loc int32, v float32) {
	d.writes = append(d.writes, uniformWrite{loc, []float32{v}})
}

func (d *fakeDevice) Viewport(x, y, w, h int) {}

func (d *fakeDevice) DrawTriangles(first, count int) {
	d.draws = append(d.draws, [2]int{first, count})
}

var _ animation.Renderer = (*Pipeline)(nil)

func TestInitializeBindsQuadAndUniforms(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev, shader.WebGL(), nil)
	require.NoError(t, p.Initialize())
	assert.True(t, p.Ready())

	assert.Empty(t, dev.liveShaders, "stages are released after linking")
	assert.Len(t, dev.liveProgram, 1)
	assert.NotZero(t, dev.used)
	assert.Equal(t, "a_position", dev.attribute)
	assert.Len(t, dev.vertices, QuadVertexCount*2)
	for _, v := range dev.vertices {
		assert.True(t, v == -1 || v == 1)
	}

	p.SetParameters([2]float32{800, 600}, [2]float32{400, 300}, 1.5)
	p.Draw()
	assert.Equal(t, []uniformWrite{
		{0, []float32{800, 600}},
		{1, []float32{400, 300}},
		{2, []float32{1.5}},
	}, dev.writes)
	assert.Equal(t, [][2]int{{0, 6}}, dev.draws)

	// A second Initialize is a no-op.
	require.NoError(t, p.Initialize())
	assert.Len(t, dev.liveProgram, 1)
}

func TestInitializeUsesMappedUniformNames(t *testing.T) {
	dev := newFakeDevice()
	dev.locations = map[string]int32{"_uu_resolution": 4, "_uu_mouse": 5, "_uu_time": 6}
	src := shader.Program{
		Vertex:    "vs",
		Fragment:  "fs",
		Attribute: "in_vert",
		Uniforms: map[string]string{
			shader.UniformResolution: "_uu_resolution",
			shader.UniformMouse:      "_uu_mouse",
			shader.UniformTime:       "_uu_time",
		},
	}
	p := New(dev, src, nil)
	require.NoError(t, p.Initialize())
	p.SetParameters([2]float32{1, 2}, [2]float32{3, 4}, 5)
	require.Len(t, dev.writes, 3)
	assert.Equal(t, int32(4), dev.writes[0].loc)
	assert.Equal(t, int32(5), dev.writes[1].loc)
	assert.Equal(t, int32(6), dev.writes[2].loc)
}

func TestSetParametersSkipsMissingUniforms(t *testing.T) {
	dev := newFakeDevice()
	delete(dev.locations, "u_time")
	p := New(dev, shader.WebGL(), nil)
	require.NoError(t, p.Initialize())

	p.SetParameters([2]float32{800, 600}, [2]float32{1, 1}, 9)
	assert.Len(t, dev.writes, 2)
}

func TestInitializeFailures(t *testing.T) {
	backendLog := errors.New("0:12(3): error: syntax error")
	tests := []struct {
		name    string
		setup   func(d *fakeDevice)
		want    error
		message string
	}{
		{"vertex compile", func(d *fakeDevice) { d.compileErr[VertexStage] = backendLog }, ErrCompile, "vertex stage"},
		{"fragment compile", func(d *fakeDevice) { d.compileErr[FragmentStage] = backendLog }, ErrCompile, "fragment stage"},
		{"link", func(d *fakeDevice) { d.linkErr = errors.New("varying mismatch") }, ErrLink, "varying mismatch"},
		{"quad", func(d *fakeDevice) { d.quadErr = errors.New("no attribute a_position") }, ErrQuad, "a_position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeDevice()
			tt.setup(dev)
			p := New(dev, shader.WebGL(), nil)

			err := p.Initialize()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), tt.message)
			assert.False(t, p.Ready())
			assert.Empty(t, dev.liveShaders)
			assert.Empty(t, dev.liveProgram)

			p.SetParameters([2]float32{1, 1}, [2]float32{1, 1}, 1)
			p.Draw()
			assert.Empty(t, dev.writes)
			assert.Empty(t, dev.draws)
		})
	}
}

func TestDestroy(t *testing.T) {
	dev := newFakeDevice()
	p := New(dev, shader.WebGL(), nil)
	require.NoError(t, p.Initialize())
	p.Destroy()

	assert.False(t, p.Ready())
	assert.Empty(t, dev.liveProgram)
	assert.Len(t, dev.deletedQuads, 1)

	p.Destroy()
	assert.Len(t, dev.deletedQuads, 1)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", VertexStage.String())
	assert.Equal(t, "fragment", FragmentStage.String())
	assert.Equal(t, "unknown", Stage(7).String())
}
