package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/richinsley/chromaring/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chromaring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	o, err := Parse(nil, env(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), o)
	assert.Equal(t, animation.DefaultTuning(), o.AnimationTuning())
}

func TestParseLayering(t *testing.T) {
	path := writeConfig(t, `
width: 640
height: 480
fps: 30
log_level: debug
tuning:
  target_tau: 0.4
  parallax: 0.5
`)
	o, err := Parse(
		[]string{"-config", path, "-height", "400", "-parallax", "0.1"},
		env(map[string]string{
			"CHROMARING_FPS":        "24",
			"CHROMARING_HEIGHT":     "300",
			"CHROMARING_FOLLOW_TAU": "0.9",
		}),
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, 640, o.Width, "file overrides default")
	assert.Equal(t, 24, o.FPS, "env overrides file")
	assert.Equal(t, 400, o.Height, "flag overrides env")
	assert.Equal(t, "debug", o.LogLevel)
	assert.Equal(t, 0.4, o.Tuning.TargetTau)
	assert.Equal(t, 0.9, o.Tuning.FollowTau)
	assert.Equal(t, 0.1, o.Tuning.Parallax)
	assert.Equal(t, animation.DefaultMaxFrameDelta, o.Tuning.MaxFrameDelta)
	assert.Equal(t, path, o.ConfigPath)
}

func TestParseConfigFromEnv(t *testing.T) {
	path := writeConfig(t, "width: 320\n")
	o, err := Parse(nil, env(map[string]string{"CHROMARING_CONFIG": path}), nil)
	require.NoError(t, err)
	assert.Equal(t, 320, o.Width)
}

func TestParseErrors(t *testing.T) {
	bad := writeConfig(t, "width: [1, 2\n")
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown flag", []string{"-nope"}, nil},
		{"bad env", nil, map[string]string{"CHROMARING_WIDTH": "wide"}},
		{"missing file", []string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, nil},
		{"bad yaml", []string{"-config", bad}, nil},
		{"watch without config", []string{"-watch"}, nil},
		{"zero size", []string{"-width", "0"}, nil},
		{"zero fps", []string{"-fps", "0"}, nil},
		{"negative tau", []string{"-target-tau", "-1"}, nil},
		{"zero frame delta", []string{"-max-frame-delta", "0"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, env(tt.env), &discard{})
			assert.Error(t, err)
		})
	}
}

func TestParseHelp(t *testing.T) {
	out := &discard{}
	o, err := Parse([]string{"-help"}, env(nil), out)
	require.NoError(t, err)
	assert.True(t, o.Help)
	assert.Contains(t, string(out.data), "max-frame-delta")
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "CHROMARING_MAX_FRAME_DELTA", EnvName("max-frame-delta"))
	assert.Equal(t, "CHROMARING_WIDTH", EnvName("width"))
}

type discard struct{ data []byte }

func (d *discard) Write(p []byte) (int, error) {
	d.data = append(d.data, p...)
	return len(p), nil
}
