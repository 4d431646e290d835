package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fragment = `#version 300 es
precision highp float;
uniform vec2 u_resolution;
out vec4 fragColor;
void main() {
    fragColor = vec4(gl_FragCoord.xy / u_resolution, 0.0, 1.0);
}
`

func newTranslator(t *testing.T) {
	t.Helper()
	if _, err := GetTranslator(context.Background()); err != nil {
		t.Skipf("translator unavailable: %v", err)
	}
}

func TestTranslateDesktop(t *testing.T) {
	newTranslator(t)
	res, err := Translate(context.Background(), fragment, "fragment", false)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "#version 410")
	assert.NotEmpty(t, res.Names["u_resolution"])
	assert.Contains(t, res.Code, res.Names["u_resolution"])
}

func TestTranslateGLES(t *testing.T) {
	newTranslator(t)
	res, err := Translate(context.Background(), fragment, "fragment", true)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "#version 300 es")
}

func TestTranslateRejectsInvalidSource(t *testing.T) {
	newTranslator(t)
	_, err := Translate(context.Background(), "#version 300 es\nvoid main() { nope }", "fragment", false)
	assert.Error(t, err)
}
