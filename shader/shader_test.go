package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebGLProgram(t *testing.T) {
	p := WebGL()
	assert.Equal(t, "a_position", p.Attribute)
	assert.Contains(t, p.Vertex, "attribute vec2 a_position;")
	for _, name := range []string{UniformResolution, UniformMouse, UniformTime} {
		assert.Contains(t, p.Fragment, "uniform ")
		assert.Contains(t, p.Fragment, name+";")
		assert.Equal(t, name, p.UniformName(name))
	}
	assert.Contains(t, p.Fragment, "gl_FragColor")
}

func TestRingSourcesAgree(t *testing.T) {
	body := func(src string) string {
		start := strings.Index(src, "void main() {")
		end := strings.LastIndex(src, "}")
		return src[start:end]
	}
	webgl := strings.Replace(body(ringFragmentShaderSourceWebGL), "gl_FragColor", "fragColor", 1)
	assert.Equal(t, webgl, body(ringFragmentShaderSourceES))
	assert.True(t, strings.HasPrefix(RingFragmentSource(), "#version 300 es"))
}

func TestGenerateVertexShader(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateVertexShader(false), "#version 410 core"))
	assert.True(t, strings.HasPrefix(GenerateVertexShader(true), "#version 300 es"))
	for _, gles := range []bool{false, true} {
		assert.Contains(t, GenerateVertexShader(gles), "layout (location = 0) in vec2 in_vert;")
	}
}

func TestUniformNameMapping(t *testing.T) {
	p := Program{Uniforms: map[string]string{UniformMouse: "_uu_mouse", UniformTime: ""}}
	assert.Equal(t, "_uu_mouse", p.UniformName(UniformMouse))
	assert.Equal(t, UniformTime, p.UniformName(UniformTime))
	assert.Equal(t, UniformResolution, p.UniformName(UniformResolution))
}
