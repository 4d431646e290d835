package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/richinsley/chromaring/animation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFrame(t *testing.T) {
	c := NewCollector()
	c.ObserveFrame(animation.Step{Elapsed: 1.0, Delta: 0.016})
	c.ObserveFrame(animation.Step{Elapsed: 3.0, Delta: 0.05, Clamped: true})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Frames))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ClampedFrames))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Elapsed))
	assert.Equal(t, 1, testutil.CollectAndCount(c.FrameDelta))
}

func TestObservePointerAndSurface(t *testing.T) {
	c := NewCollector()
	c.ObservePointer("mouse")
	c.ObservePointer("mouse")
	c.ObservePointer("touch")
	c.ObserveSurface(800, 600)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.PointerEvents.WithLabelValues("mouse")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PointerEvents.WithLabelValues("touch")))
	assert.Equal(t, 800.0, testutil.ToFloat64(c.SurfaceWidth))
	assert.Equal(t, 600.0, testutil.ToFloat64(c.SurfaceHeight))
}

func TestRegistryExposition(t *testing.T) {
	c := NewCollector()
	c.ObserveFrame(animation.Step{Delta: 0.01})

	expected := `
# HELP chromaring_frames_total Frames rendered.
# TYPE chromaring_frames_total counter
chromaring_frames_total 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "chromaring_frames_total"))
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.ObserveSurface(320, 240)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chromaring_surface_width_pixels 320")
}

func TestServeStopsOnCancel(t *testing.T) {
	c := NewCollector()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.serve(ctx, ln, nil) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "chromaring_frames_total 0")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
