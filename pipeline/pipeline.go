// Package pipeline sets up the ring shader program on a full-screen quad and
// renders it one draw call per frame.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/richinsley/chromaring/shader"
	"go.uber.org/zap"
)

var (
	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("shader compile failed")
	// ErrLink is returned when the program fails to link.
	ErrLink = errors.New("program link failed")
	// ErrQuad is returned when the quad vertices cannot be bound.
	ErrQuad = errors.New("quad setup failed")
)

// QuadVertices are two triangles covering clip space.
var QuadVertices = []float32{
	-1, -1, 1, -1, -1, 1,
	-1, 1, 1, -1, 1, 1,
}

// QuadVertexCount is the number of vertices in QuadVertices.
const QuadVertexCount = 6

// Pipeline owns the ring program and its uniform handles.
type Pipeline struct {
	device  Device
	source  shader.Program
	logger  *zap.Logger
	program uint32
	quad    uint32

	resolutionLoc int32
	mouseLoc      int32
	timeLoc       int32
	ready         bool
}

// New returns an uninitialized pipeline. A nil logger discards output.
func New(device Device, source shader.Program, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		device:        device,
		source:        source,
		logger:        logger,
		resolutionLoc: -1,
		mouseLoc:      -1,
		timeLoc:       -1,
	}
}

// Initialize compiles and links the program, uploads the quad and resolves
// the uniforms. On failure everything created so far is released and the
// backend diagnostic is logged and returned.
func (p *Pipeline) Initialize() error {
	if p.ready {
		return nil
	}
	if err := p.initialize(); err != nil {
		p.logger.Error("ring pipeline initialization failed", zap.Error(err))
		return err
	}
	p.ready = true
	p.logger.Info("ring pipeline ready",
		zap.Int32("resolution_loc", p.resolutionLoc),
		zap.Int32("mouse_loc", p.mouseLoc),
		zap.Int32("time_loc", p.timeLoc))
	return nil
}

func (p *Pipeline) initialize() error {
	vs, err := p.device.CompileShader(VertexStage, p.source.Vertex)
	if err != nil {
		return fmt.Errorf("%w: %s stage: %v", ErrCompile, VertexStage, err)
	}
	fs, err := p.device.CompileShader(FragmentStage, p.source.Fragment)
	if err != nil {
		p.device.DeleteShader(vs)
		return fmt.Errorf("%w: %s stage: %v", ErrCompile, FragmentStage, err)
	}

	program, err := p.device.LinkProgram(vs, fs)
	p.device.DeleteShader(vs)
	p.device.DeleteShader(fs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLink, err)
	}
	p.device.UseProgram(program)

	quad, err := p.device.UploadQuad(program, p.source.Attribute, QuadVertices)
	if err != nil {
		p.device.DeleteProgram(program)
		return fmt.Errorf("%w: %v", ErrQuad, err)
	}

	p.program = program
	p.quad = quad
	p.resolutionLoc = p.device.UniformLocation(program, p.source.UniformName(shader.UniformResolution))
	p.mouseLoc = p.device.UniformLocation(program, p.source.UniformName(shader.UniformMouse))
	p.timeLoc = p.device.UniformLocation(program, p.source.UniformName(shader.UniformTime))
	return nil
}

// Ready reports whether Initialize has succeeded.
func (p *Pipeline) Ready() bool {
	return p.ready
}

// SetParameters writes the per-frame uniforms. Uniforms the compiler dropped
// are skipped.
func (p *Pipeline) SetParameters(resolution [2]float32, pointer [2]float32, elapsed float32) {
	if !p.ready {
		return
	}
	if p.resolutionLoc != -1 {
		p.device.Uniform2f(p.resolutionLoc, resolution[0], resolution[1])
	}
	if p.mouseLoc != -1 {
		p.device.Uniform2f(p.mouseLoc, pointer[0], pointer[1])
	}
	if p.timeLoc != -1 {
		p.device.Uniform1f(p.timeLoc, elapsed)
	}
}

// Draw issues the single quad draw call.
func (p *Pipeline) Draw() {
	if !p.ready {
		return
	}
	p.device.DrawTriangles(0, QuadVertexCount)
}

// Destroy releases the program and the quad buffer.
func (p *Pipeline) Destroy() {
	if !p.ready {
		return
	}
	p.device.DeleteBuffer(p.quad)
	p.device.DeleteProgram(p.program)
	p.ready = false
}
