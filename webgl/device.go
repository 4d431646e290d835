//go:build js && wasm

package webgl

import (
	"fmt"
	"syscall/js"

	"github.com/richinsley/chromaring/pipeline"
)

// Device implements pipeline.Device on a WebGLRenderingContext. WebGL objects
// are JavaScript values, so they are kept in tables keyed by the integer
// handles the pipeline works with.
type Device struct {
	gl js.Value

	next     uint32
	shaders  map[uint32]js.Value
	programs map[uint32]js.Value
	buffers  map[uint32]js.Value

	nextLoc  int32
	uniforms map[int32]js.Value
}

var _ pipeline.Device = (*Device)(nil)

// NewDevice wraps a WebGL context.
func NewDevice(gl js.Value) *Device {
	return &Device{
		gl:       gl,
		shaders:  make(map[uint32]js.Value),
		programs: make(map[uint32]js.Value),
		buffers:  make(map[uint32]js.Value),
		uniforms: make(map[int32]js.Value),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) CompileShader(stage pipeline.Stage, source string) (uint32, error) {
	var kind js.Value
	switch stage {
	case pipeline.VertexStage:
		kind = d.gl.Get("VERTEX_SHADER")
	case pipeline.FragmentStage:
		kind = d.gl.Get("FRAGMENT_SHADER")
	default:
		return 0, fmt.Errorf("unsupported shader stage %v", stage)
	}

	shader := d.gl.Call("createShader", kind)
	if shader.IsNull() {
		return 0, fmt.Errorf("createShader returned null")
	}
	d.gl.Call("shaderSource", shader, source)
	d.gl.Call("compileShader", shader)
	if !d.gl.Call("getShaderParameter", shader, d.gl.Get("COMPILE_STATUS")).Truthy() {
		info := d.gl.Call("getShaderInfoLog", shader).String()
		d.gl.Call("deleteShader", shader)
		return 0, fmt.Errorf("failed to compile shader: %s", info)
	}

	h := d.handle()
	d.shaders[h] = shader
	return h, nil
}

func (d *Device) DeleteShader(shader uint32) {
	if s, ok := d.shaders[shader]; ok {
		d.gl.Call("deleteShader", s)
		delete(d.shaders, shader)
	}
}

func (d *Device) LinkProgram(vertex, fragment uint32) (uint32, error) {
	vs, ok := d.shaders[vertex]
	if !ok {
		return 0, fmt.Errorf("unknown vertex shader %d", vertex)
	}
	fs, ok := d.shaders[fragment]
	if !ok {
		return 0, fmt.Errorf("unknown fragment shader %d", fragment)
	}

	program := d.gl.Call("createProgram")
	d.gl.Call("attachShader", program, vs)
	d.gl.Call("attachShader", program, fs)
	d.gl.Call("linkProgram", program)
	if !d.gl.Call("getProgramParameter", program, d.gl.Get("LINK_STATUS")).Truthy() {
		info := d.gl.Call("getProgramInfoLog", program).String()
		d.gl.Call("deleteProgram", program)
		return 0, fmt.Errorf("failed to link program: %s", info)
	}

	h := d.handle()
	d.programs[h] = program
	return h, nil
}

func (d *Device) DeleteProgram(program uint32) {
	if p, ok := d.programs[program]; ok {
		d.gl.Call("deleteProgram", p)
		delete(d.programs, program)
	}
}

func (d *Device) UseProgram(program uint32) {
	d.gl.Call("useProgram", d.programs[program])
}

func (d *Device) UploadQuad(program uint32, attribute string, vertices []float32) (uint32, error) {
	p, ok := d.programs[program]
	if !ok {
		return 0, fmt.Errorf("unknown program %d", program)
	}
	loc := d.gl.Call("getAttribLocation", p, attribute).Int()
	if loc < 0 {
		return 0, fmt.Errorf("attribute %q not found in program", attribute)
	}

	data := js.Global().Get("Float32Array").New(len(vertices))
	for i, v := range vertices {
		data.SetIndex(i, v)
	}

	arrayBuffer := d.gl.Get("ARRAY_BUFFER")
	buffer := d.gl.Call("createBuffer")
	d.gl.Call("bindBuffer", arrayBuffer, buffer)
	d.gl.Call("bufferData", arrayBuffer, data, d.gl.Get("STATIC_DRAW"))
	d.gl.Call("enableVertexAttribArray", loc)
	d.gl.Call("vertexAttribPointer", loc, 2, d.gl.Get("FLOAT"), false, 0, 0)

	h := d.handle()
	d.buffers[h] = buffer
	return h, nil
}

func (d *Device) DeleteBuffer(buffer uint32) {
	if b, ok := d.buffers[buffer]; ok {
		d.gl.Call("deleteBuffer", b)
		delete(d.buffers, buffer)
	}
}

// UniformLocation returns -1 when the compiler dropped the uniform.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	p, ok := d.programs[program]
	if !ok {
		return -1
	}
	loc := d.gl.Call("getUniformLocation", p, name)
	if loc.IsNull() {
		return -1
	}
	h := d.nextLoc
	d.nextLoc++
	d.uniforms[h] = loc
	return h
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	if loc, ok := d.uniforms[location]; ok {
		d.gl.Call("uniform2f", loc, x, y)
	}
}

func (d *Device) Uniform1f(location int32, v float32) {
	if loc, ok := d.uniforms[location]; ok {
		d.gl.Call("uniform1f", loc, v)
	}
}

func (d *Device) Viewport(x, y, width, height int) {
	d.gl.Call("viewport", x, y, width, height)
}

func (d *Device) DrawTriangles(first, count int) {
	d.gl.Call("drawArrays", d.gl.Get("TRIANGLES"), first, count)
}
