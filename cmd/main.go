package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/chromaring/animation"
	"github.com/richinsley/chromaring/glfwcontext"
	"github.com/richinsley/chromaring/graphics"
	"github.com/richinsley/chromaring/headless"
	"github.com/richinsley/chromaring/logging"
	"github.com/richinsley/chromaring/metrics"
	"github.com/richinsley/chromaring/options"
	"github.com/richinsley/chromaring/pipeline"
	"github.com/richinsley/chromaring/renderer"
	"github.com/richinsley/chromaring/schedule"
	"github.com/richinsley/chromaring/shader"
	"github.com/richinsley/chromaring/viewport"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts, err := options.Parse(os.Args[1:], nil, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "chromaring: %v\n", err)
		os.Exit(2)
	}
	if opts.Help {
		return
	}

	logger, err := logging.New(logging.Config{Level: opts.LogLevel, Development: opts.Development})
	if err != nil {
		fmt.Fprintf(os.Stderr, "chromaring: failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, opts, logger)
	stop()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options.Options, logger *zap.Logger) error {
	var collector *metrics.Collector
	if opts.MetricsAddr != "" {
		collector = metrics.NewCollector()
		go func() {
			if err := collector.Serve(ctx, opts.MetricsAddr, logger); err != nil {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	var (
		gctx   graphics.Context
		window *glfwcontext.Context
		clock  schedule.Clock
	)
	if opts.Headless {
		hc, err := headless.NewHeadless(opts.Width, opts.Height, opts.Frames, logger)
		if err != nil {
			logger.Error("failed to create headless context", zap.Error(err))
			return err
		}
		gctx = hc
		clock = schedule.NewFixedClock(opts.FPS)
	} else {
		if err := glfwcontext.InitGraphics(logger); err != nil {
			logger.Error("failed to initialize GLFW", zap.Error(err))
			return fmt.Errorf("%w: %v", graphics.ErrUnavailable, err)
		}
		defer glfwcontext.TerminateGraphics(logger)

		var err error
		window, err = glfwcontext.New(glfwcontext.Options{
			Width:      opts.Width,
			Height:     opts.Height,
			Title:      "chromaring",
			Fullscreen: opts.Fullscreen,
			VSync:      opts.VSync,
		}, logger)
		if err != nil {
			logger.Error("failed to create window", zap.Error(err))
			return fmt.Errorf("%w: %v", graphics.ErrUnavailable, err)
		}
		window.RegisterKeyCallback(glfw.KeyQ, window.Close)
		gctx = window
		clock = schedule.HostClock{Seconds: window.Time}
	}
	defer gctx.Shutdown()

	device, err := renderer.NewDevice(gctx)
	if err != nil {
		logger.Error("failed to initialize OpenGL", zap.Error(err))
		return err
	}
	logger.Info("OpenGL ready", zap.String("version", device.Version()), zap.Bool("gles", gctx.IsGLES()))

	program, err := shader.Native(ctx, gctx.IsGLES())
	if err != nil {
		logger.Error("failed to prepare shaders", zap.Error(err))
		return err
	}
	p := pipeline.New(device, program, logger)
	if err := p.Initialize(); err != nil {
		return err
	}
	defer p.Destroy()

	state := animation.NewState(opts.AnimationTuning())
	manager := viewport.New(gctx, device, state, logger)
	var observer viewport.InputObserver
	if collector != nil {
		observer = collector
	}
	input := viewport.NewInput(manager, state, observer)
	if window != nil {
		window.SetInputHandler(input)
	}
	input.Resized()

	driverOpts := []animation.Option{animation.WithLogger(logger)}
	if collector != nil {
		driverOpts = append(driverOpts, animation.WithObserver(collector))
	}
	if opts.Watch {
		watcher, err := options.NewWatcher(opts.ConfigPath, options.DefaultDebounce, logger)
		if err != nil {
			logger.Error("failed to watch config", zap.Error(err))
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("config watcher stopped", zap.Error(err))
			}
		}()
		driverOpts = append(driverOpts, animation.WithTuningUpdates(watcher.Updates()))
	}

	loop := schedule.NewLoop(clock, gctx)
	driver := animation.NewDriver(state, loop, p, driverOpts...)
	if err := driver.Start(ctx); err != nil {
		return err
	}

	logger.Info("rendering",
		zap.Int("width", state.Width),
		zap.Int("height", state.Height),
		zap.Bool("headless", opts.Headless))
	err = loop.Run(ctx)
	driver.Stop()
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted", zap.Int64("frames", driver.Frames()))
	case err != nil:
		logger.Error("render loop ended", zap.Error(err), zap.Int64("frames", driver.Frames()))
		return err
	default:
		logger.Info("finished", zap.Int64("frames", driver.Frames()))
	}
	return nil
}
