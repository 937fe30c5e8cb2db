package node

import "math"

// Delay is an interpolating delay line with feedback and a wet/dry
// mix. Its buffer is sized once, for a fixed maximum delay time, so
// the audio path never reallocates; a delay time beyond the max is
// clamped rather than resized.
type Delay struct {
	buf    []float32
	write  int
	maxSec float32
}

// NewDelay sizes the ring buffer for maxSeconds of delay at sr.
func NewDelay(sr int, maxSeconds float32) *Delay {
	if maxSeconds <= 0 {
		maxSeconds = 2
	}
	n := int(float32(sr)*maxSeconds) + 2
	if n < 2 {
		n = 2
	}
	return &Delay{buf: make([]float32, n), maxSec: maxSeconds}
}

func (d *Delay) ProvidesDelay() bool { return true }

// Process reads signal (0), delay-time seconds (1), feedback (2), wet
// mix (3, 0=dry..1=wet).
func (d *Delay) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	delaySec := in.Get(1)
	feedback := in.Get(2)
	wet := in.Get(3)

	sr := float32(ctx.SampleRate)
	if sr <= 0 {
		return x
	}
	if delaySec > d.maxSec {
		delaySec = d.maxSec
	}
	if delaySec < 0 {
		delaySec = 0
	}

	n := len(d.buf)
	delaySamples := delaySec * sr
	readPos := float64(d.write) - float64(delaySamples)
	for readPos < 0 {
		readPos += float64(n)
	}

	i0 := int(readPos) % n
	i1 := (i0 + 1) % n
	frac := float32(readPos - math.Floor(readPos))
	delayed := d.buf[i0]*(1-frac) + d.buf[i1]*frac

	d.buf[d.write] = clampFinite(x + delayed*feedback)
	d.write = (d.write + 1) % n

	out := x*(1-wet) + delayed*wet
	return clampFinite(out)
}
