// Package timing paces the engine's audio-block loop in real-time
// backends, adapted from the teacher's frame limiter (audio has no
// frame concept, so the limiter targets one render block rather than
// one video frame).
package timing

import "time"

// Limiter controls block-rate timing for real-time playback.
type Limiter interface {
	// WaitForNextBlock blocks until it's time to render the next
	// audio block. Returns immediately if timing is behind schedule.
	WaitForNextBlock()

	// Reset resets the timing state, useful after a pause/seek.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit, for offline
// rendering and headless/bounce runs where blocks should be produced
// as fast as possible.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextBlock() {}
func (n *noOpLimiter) Reset()            {}

// BlockDuration returns the wall-clock duration of one block of n
// frames at the given sample rate.
func BlockDuration(blockSize, sampleRate int) time.Duration {
	return time.Duration(float64(time.Second) * float64(blockSize) / float64(sampleRate))
}
