package renderer

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/chromaring/graphics"
	"github.com/richinsley/chromaring/pipeline"
)

// glInitOnce ensures gl.Init() is called only once per process.
var glInitOnce sync.Once

// Device is the OpenGL implementation of pipeline.Device. It must only be used
// from the thread the context is current on.
type Device struct {
	context graphics.Context
	vaos    map[uint32]uint32 // vbo -> vao
	vao     uint32
}

// NewDevice makes ctx current and loads the OpenGL entry points.
func NewDevice(ctx graphics.Context) (*Device, error) {
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("%w: failed to initialize OpenGL: %v", graphics.ErrUnavailable, initErr)
	}

	return &Device{
		context: ctx,
		vaos:    make(map[uint32]uint32),
	}, nil
}

// Version returns the GL_VERSION string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CompileShader(stage pipeline.Stage, source string) (uint32, error) {
	var shaderType uint32
	switch stage {
	case pipeline.VertexStage:
		shaderType = gl.VERTEX_SHADER
	case pipeline.FragmentStage:
		shaderType = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unsupported shader stage %v", stage)
	}
	return compileShader(source, shaderType)
}

func (d *Device) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", strings.TrimRight(log, "\x00"))
	}
	gl.DetachShader(program, vertex)
	gl.DetachShader(program, fragment)
	return program, nil
}

func (d *Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) UploadQuad(program uint32, attribute string, vertices []float32) (uint32, error) {
	loc := gl.GetAttribLocation(program, gl.Str(attribute+"\x00"))
	if loc < 0 {
		return 0, fmt.Errorf("attribute %q not found in program", attribute)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	d.vaos[vbo] = vao
	d.vao = vao
	return vbo, nil
}

func (d *Device) DeleteBuffer(buffer uint32) {
	if vao, ok := d.vaos[buffer]; ok {
		gl.DeleteVertexArrays(1, &vao)
		delete(d.vaos, buffer)
		if d.vao == vao {
			d.vao = 0
		}
	}
	gl.DeleteBuffers(1, &buffer)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (d *Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) DrawTriangles(first, count int) {
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}
