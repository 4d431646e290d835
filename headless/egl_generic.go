//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/chromaring/graphics"
	"go.uber.org/zap"
)

// NewHeadless reports that EGL headless rendering is unavailable.
func NewHeadless(width, height, frames int, logger *zap.Logger) (graphics.Context, error) {
	return nil, fmt.Errorf("%w: egl headless rendering is not supported on this platform", graphics.ErrUnavailable)
}
