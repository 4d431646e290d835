//go:build js && wasm

// Command wasm runs the ring effect in a browser page that has a canvas with
// id "chromaticCanvas". Build with GOOS=js GOARCH=wasm.
package main

import (
	"context"

	"github.com/richinsley/chromaring/animation"
	"github.com/richinsley/chromaring/logging"
	"github.com/richinsley/chromaring/pipeline"
	"github.com/richinsley/chromaring/shader"
	"github.com/richinsley/chromaring/viewport"
	"github.com/richinsley/chromaring/webgl"
	"go.uber.org/zap"
)

func main() {
	logger, err := logging.New(logging.Config{Level: "info", Development: true})
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		// The page keeps working without the effect.
		logger.Error("chromatic ring disabled", zap.Error(err))
		return
	}
	select {}
}

func run(logger *zap.Logger) error {
	canvas, err := webgl.NewCanvas(webgl.CanvasID, logger)
	if err != nil {
		return err
	}
	device := webgl.NewDevice(canvas.GL())

	p := pipeline.New(device, shader.WebGL(), logger)
	if err := p.Initialize(); err != nil {
		return err
	}

	state := animation.NewState(animation.DefaultTuning())
	manager := viewport.New(canvas, device, state, logger)
	input := viewport.NewInput(manager, state, nil)
	canvas.Listen(input)
	input.Resized()

	driver := animation.NewDriver(state, webgl.NewScheduler(), p, animation.WithLogger(logger))
	return driver.Start(context.Background())
}
