package pipeline

// Stage identifies a shader stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Device is the rendering backend. Handles are backend-assigned and never
// zero for live objects; uniform locations are -1 when the name is absent
// from the linked program.
type Device interface {
	// CompileShader returns the backend info log as the error text on failure.
	CompileShader(stage Stage, source string) (uint32, error)
	DeleteShader(shader uint32)
	// LinkProgram returns the backend info log as the error text on failure.
	LinkProgram(vertex, fragment uint32) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// UploadQuad stores vertices (x, y pairs) in a static buffer and binds
	// them to the named attribute of program. It returns the buffer handle.
	UploadQuad(program uint32, attribute string, vertices []float32) (uint32, error)
	DeleteBuffer(buffer uint32)

	UniformLocation(program uint32, name string) int32
	Uniform2f(location int32, x, y float32)
	Uniform1f(location int32, v float32)

	Viewport(x, y, width, height int)
	DrawTriangles(first, count int)
}
