package node

import "math"

// RMS is a sliding-window root-mean-square envelope follower, pitch
// agnostic. It tracks a running sum-of-squares over a window sized by
// the window-seconds input and reports its square root each sample.
type RMS struct {
	buf       []float32
	pos       int
	sumSq     float64
	lastWinSr int
}

func NewRMS() *RMS { return &RMS{} }

func (r *RMS) ProvidesDelay() bool { return true }

// Process reads signal (0), window seconds (1).
func (r *RMS) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	winSec := in.Get(1)
	if winSec <= 0 {
		winSec = 0.05
	}
	n := int(float32(ctx.SampleRate) * winSec)
	if n < 1 {
		n = 1
	}
	if len(r.buf) != n {
		r.buf = make([]float32, n)
		r.pos = 0
		r.sumSq = 0
	}

	old := r.buf[r.pos]
	r.sumSq -= float64(old) * float64(old)
	r.sumSq += float64(x) * float64(x)
	if r.sumSq < 0 {
		r.sumSq = 0
	}
	r.buf[r.pos] = x
	r.pos = (r.pos + 1) % len(r.buf)

	mean := r.sumSq / float64(len(r.buf))
	return clampFinite(float32(math.Sqrt(mean)))
}
