package timing

import (
	"time"

	"github.com/valerio/go-apu/apu/wave"
)

// Limiter paces the monitor loop.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for offline rendering).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// DefaultFPS is the monitor refresh rate.
const DefaultFPS = 50

// FrameDuration returns the duration of one frame at fps.
func FrameDuration(fps int) time.Duration {
	return time.Second / time.Duration(max(1, fps))
}

// SamplesPerFrame returns how many output samples cover one frame at fps.
func SamplesPerFrame(fps int) int {
	return wave.SampleRate / max(1, fps)
}
