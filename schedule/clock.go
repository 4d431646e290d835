package schedule

// SecondsFunc reports a monotonic time in seconds, such as glfw.GetTime.
type SecondsFunc func() float64

// HostClock adapts a seconds clock to Clock.
type HostClock struct {
	Seconds SecondsFunc
}

// Now implements Clock.
func (c HostClock) Now() float64 {
	return c.Seconds() * 1000
}

// FixedClock advances by a fixed step on every read. The first read returns
// Start. Headless runs use it so frame timing does not depend on the GPU.
type FixedClock struct {
	Start float64
	Step  float64
	n     int64
}

// NewFixedClock returns a clock that ticks at fps frames per second.
func NewFixedClock(fps int) *FixedClock {
	if fps <= 0 {
		fps = 60
	}
	return &FixedClock{Step: 1000 / float64(fps)}
}

// Now implements Clock.
func (c *FixedClock) Now() float64 {
	t := c.Start + float64(c.n)*c.Step
	c.n++
	return t
}
