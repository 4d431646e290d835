// Package metrics exports frame and input statistics for Prometheus.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richinsley/chromaring/animation"
	"go.uber.org/zap"
)

const namespace = "chromaring"

// Collector holds the render loop metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	Frames        prometheus.Counter
	ClampedFrames prometheus.Counter
	FrameDelta    prometheus.Histogram
	Elapsed       prometheus.Gauge
	PointerEvents *prometheus.CounterVec
	SurfaceWidth  prometheus.Gauge
	SurfaceHeight prometheus.Gauge
}

var _ animation.Observer = (*Collector)(nil)

// NewCollector creates and registers the collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered.",
		}),
		ClampedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clamped_frames_total",
			Help:      "Frames whose time step hit the maximum frame delta.",
		}),
		FrameDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_delta_seconds",
			Help:      "Smoothing time step per frame.",
			Buckets:   []float64{0.004, 0.008, 0.0167, 0.025, 0.0334, 0.05},
		}),
		Elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elapsed_seconds",
			Help:      "Timestamp of the last rendered frame.",
		}),
		PointerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pointer_events_total",
			Help:      "Pointer and touch events received.",
		}, []string{"kind"}),
		SurfaceWidth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "surface_width_pixels",
			Help:      "Current drawing surface width.",
		}),
		SurfaceHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "surface_height_pixels",
			Help:      "Current drawing surface height.",
		}),
	}
	c.registry.MustRegister(
		c.Frames,
		c.ClampedFrames,
		c.FrameDelta,
		c.Elapsed,
		c.PointerEvents,
		c.SurfaceWidth,
		c.SurfaceHeight,
	)
	return c
}

// Registry returns the registry the collectors are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveFrame records one rendered frame.
func (c *Collector) ObserveFrame(step animation.Step) {
	c.Frames.Inc()
	c.FrameDelta.Observe(step.Delta)
	c.Elapsed.Set(step.Elapsed)
	if step.Clamped {
		c.ClampedFrames.Inc()
	}
}

// ObservePointer counts an input event of the given kind ("mouse" or "touch").
func (c *Collector) ObservePointer(kind string) {
	c.PointerEvents.WithLabelValues(kind).Inc()
}

// ObserveSurface records the drawing surface size.
func (c *Collector) ObserveSurface(width, height int) {
	c.SurfaceWidth.Set(float64(width))
	c.SurfaceHeight.Set(float64(height))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return c.serve(ctx, ln, logger)
}

func (c *Collector) serve(ctx context.Context, ln net.Listener, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()

	logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
