package node

import "math"

// OnePole is a single-pole low-pass or high-pass filter, the cheapest
// smoothing primitive in the catalog (used standalone; no other node in
// this package embeds it).
type OnePole struct {
	HighPass bool
	z1       float32
}

func (p *OnePole) ProvidesDelay() bool { return true }

// Process reads signal (0) and cutoff Hz (1).
func (p *OnePole) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	cutoff := float64(in.Get(1))
	sr := float64(ctx.SampleRate)
	if sr <= 0 || cutoff <= 0 {
		return x
	}
	a := float32(math.Exp(-2 * math.Pi * cutoff / sr))
	lp := (1-a)*x + a*p.z1
	p.z1 = lp
	if p.HighPass {
		return clampFinite(x - lp)
	}
	return clampFinite(lp)
}

// BiquadType selects the cookbook biquad response.
type BiquadType int

const (
	BiquadLowPass BiquadType = iota
	BiquadHighPass
	BiquadBandPass
)

// Biquad is Robert Bristow-Johnson's "Audio EQ Cookbook" second-order
// section. Coefficients are recomputed only when cutoff or Q moves by
// more than a small tolerance between samples, so steady parameters
// cost one multiply-add chain and no trig.
type Biquad struct {
	Type BiquadType

	lastCutoff, lastQ float32
	b0, b1, b2        float32
	a1, a2            float32
	x1, x2, y1, y2    float32
	initialized       bool
}

func (b *Biquad) ProvidesDelay() bool { return true }

const coeffTolHz = 0.1
const coeffTolQ = 0.01

// Process reads signal (0), cutoff Hz (1), Q (2).
func (b *Biquad) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	cutoff := in.Get(1)
	q := in.Get(2)
	if q <= 0 {
		q = 0.707
	}

	needsRecompute := !b.initialized ||
		float32(math.Abs(float64(cutoff-b.lastCutoff))) > coeffTolHz ||
		float32(math.Abs(float64(q-b.lastQ))) > coeffTolQ
	if needsRecompute {
		b.recompute(ctx, cutoff, q)
	}

	y := b.b0*x + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2
	b.x2, b.x1 = b.x1, x
	b.y2, b.y1 = b.y1, y
	return clampFinite(y)
}

func (b *Biquad) recompute(ctx *Context, cutoff, q float32) {
	sr := float64(ctx.SampleRate)
	if sr <= 0 {
		sr = 44100
	}
	fc := float64(cutoff)
	if fc <= 0 {
		fc = 20
	}
	if fc > sr/2-1 {
		fc = sr/2 - 1
	}

	w0 := 2 * math.Pi * fc / sr
	alpha := math.Sin(w0) / (2 * float64(q))
	cosw0 := math.Cos(w0)

	var b0, b1, b2, a0, a1, a2 float64
	switch b.Type {
	case BiquadHighPass:
		b0 = (1 + cosw0) / 2
		b1 = -(1 + cosw0)
		b2 = (1 + cosw0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	case BiquadBandPass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	default: // BiquadLowPass
		b0 = (1 - cosw0) / 2
		b1 = 1 - cosw0
		b2 = (1 - cosw0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosw0
		a2 = 1 - alpha
	}

	b.b0, b.b1, b.b2 = float32(b0/a0), float32(b1/a0), float32(b2/a0)
	b.a1, b.a2 = float32(a1/a0), float32(a2/a0)
	b.lastCutoff, b.lastQ = cutoff, q
	b.initialized = true
}

// RLPF is a resonant low-pass filter following the spec's fixed
// Q = sqrt(2)/(2-2*res) mapping, with res clamped to [0, 0.99] so the
// filter approaches but does not reach unstable self-oscillation.
type RLPF struct {
	bq Biquad
}

func NewRLPF() *RLPF { return &RLPF{bq: Biquad{Type: BiquadLowPass}} }

func (r *RLPF) ProvidesDelay() bool { return true }

// Process reads signal (0), cutoff Hz (1), res (2, in [0,1)).
func (r *RLPF) Process(ctx *Context, in Inputs) float32 {
	cutoff := in.Get(1)
	res := in.Get(2)
	if res < 0 {
		res = 0
	} else if res > 0.99 {
		res = 0.99
	}
	q := float32(math.Sqrt2) / (2 - 2*res)
	return r.bq.Process(ctx, Inputs{in.Get(0), cutoff, q})
}
