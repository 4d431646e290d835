package shader

import (
	"context"
	"fmt"

	"github.com/richinsley/chromaring/translator"
)

// Names of the per-frame uniforms as written in the fragment sources.
const (
	UniformResolution = "u_resolution"
	UniformMouse      = "u_mouse"
	UniformTime       = "u_time"
)

// ────────────────────────────────── WebGL 1 ─────────────────────────────────────

const vertexShaderSourceWebGL = `
attribute vec2 a_position;
void main() {
    gl_Position = vec4(a_position, 0.0, 1.0);
}
`

const ringFragmentShaderSourceWebGL = `
precision mediump float;
uniform vec2 u_resolution;
uniform vec2 u_mouse;
uniform float u_time;

#define PI 3.14159265359

void main() {
    vec2 st = gl_FragCoord.xy / u_resolution;
    float aspect = u_resolution.x / u_resolution.y;

    vec2 mouse = u_mouse / u_resolution;
    mouse.y = 1.0 - mouse.y;

    vec2 pos = st - mouse;
    pos.x *= aspect;

    float d = length(pos);

    float z = 0.03;
    float offsetAngle = u_time / 2.;
    vec2 offset = vec2(cos(offsetAngle), sin(offsetAngle)) * z;
    vec2 adjustedPos = pos - offset;
    float r = length(adjustedPos);
    float a = atan(pos.y, pos.x);

    float t = a / (2.0 * PI) + 0.5;
    t = fract(t + u_time * 0.1);

    vec3 color = 0.5 + 0.5 * cos(6.28318 * (vec3(1.0) * t + vec3(0.0, 0.33, 0.67)));
    color = pow(color, vec3(0.8));

    float inner = smoothstep(0.18, 0.23, r);
    float outer = 1. - smoothstep(0.15, 0.3, r);

    float alpha = inner;
    vec3 centerGlow = vec3(0.2, 0.0, 0.5) * (1.0 - smoothstep(0.0, 0.4, r)) * 0.5;

    vec3 finalColor = color * alpha + centerGlow;

    float t_blend = smoothstep(0.2, 0.3, d);
    finalColor = mix(finalColor, vec3(0.95), t_blend);

    gl_FragColor = vec4(finalColor, 1.0);
}
`

// ─────────────────────────────── GLSL ES 3.00 input ─────────────────────────────

// ringFragmentShaderSourceES is the ring program in the dialect the translator
// accepts. The body matches the WebGL 1 source.
const ringFragmentShaderSourceES = `#version 300 es
precision highp float;
uniform vec2 u_resolution;
uniform vec2 u_mouse;
uniform float u_time;
out vec4 fragColor;

#define PI 3.14159265359

void main() {
    vec2 st = gl_FragCoord.xy / u_resolution;
    float aspect = u_resolution.x / u_resolution.y;

    vec2 mouse = u_mouse / u_resolution;
    mouse.y = 1.0 - mouse.y;

    vec2 pos = st - mouse;
    pos.x *= aspect;

    float d = length(pos);

    float z = 0.03;
    float offsetAngle = u_time / 2.;
    vec2 offset = vec2(cos(offsetAngle), sin(offsetAngle)) * z;
    vec2 adjustedPos = pos - offset;
    float r = length(adjustedPos);
    float a = atan(pos.y, pos.x);

    float t = a / (2.0 * PI) + 0.5;
    t = fract(t + u_time * 0.1);

    vec3 color = 0.5 + 0.5 * cos(6.28318 * (vec3(1.0) * t + vec3(0.0, 0.33, 0.67)));
    color = pow(color, vec3(0.8));

    float inner = smoothstep(0.18, 0.23, r);
    float outer = 1. - smoothstep(0.15, 0.3, r);

    float alpha = inner;
    vec3 centerGlow = vec3(0.2, 0.0, 0.5) * (1.0 - smoothstep(0.0, 0.4, r)) * 0.5;

    vec3 finalColor = color * alpha + centerGlow;

    float t_blend = smoothstep(0.2, 0.3, d);
    finalColor = mix(finalColor, vec3(0.95), t_blend);

    fragColor = vec4(finalColor, 1.0);
}
`

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
void main() {
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
void main() {
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Program is the source of a vertex and fragment stage pair plus the names the
// pipeline needs to bind them.
type Program struct {
	Vertex   string
	Fragment string
	// Attribute is the vertex position input.
	Attribute string
	// Uniforms maps the names in the Uniform constants to the names in
	// Fragment. A missing entry means the name is used as is.
	Uniforms map[string]string
}

// UniformName returns the name of a uniform as it appears in the compiled
// fragment source.
func (p Program) UniformName(name string) string {
	if mapped, ok := p.Uniforms[name]; ok && mapped != "" {
		return mapped
	}
	return name
}

// WebGL returns the ring program for a WebGL 1 context.
func WebGL() Program {
	return Program{
		Vertex:    vertexShaderSourceWebGL,
		Fragment:  ringFragmentShaderSourceWebGL,
		Attribute: "a_position",
	}
}

// GenerateVertexShader returns the pass-through quad vertex stage for a
// desktop core or GLES 3 context.
func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

// RingFragmentSource returns the untranslated GLSL ES 3.00 ring program.
func RingFragmentSource() string {
	return ringFragmentShaderSourceES
}

// Native translates the ring program for a desktop GL 4.1 core context, or a
// GLES 3 context when isGLES is set.
func Native(ctx context.Context, isGLES bool) (Program, error) {
	fs, err := translator.Translate(ctx, ringFragmentShaderSourceES, "fragment", isGLES)
	if err != nil {
		return Program{}, fmt.Errorf("failed to prepare ring shader: %w", err)
	}
	uniforms := make(map[string]string, 3)
	for _, name := range []string{UniformResolution, UniformMouse, UniformTime} {
		if mapped, ok := fs.Names[name]; ok {
			uniforms[name] = mapped
		}
	}
	return Program{
		Vertex:    GenerateVertexShader(isGLES),
		Fragment:  fs.Code,
		Attribute: "in_vert",
		Uniforms:  uniforms,
	}, nil
}
