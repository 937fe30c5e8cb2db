package node

import "math"

// modLFO is a tiny internal sine LFO shared by the modulation-family
// nodes; it is not itself exported as a Processor since its rate is
// fixed at construction rather than wired as a Signal.
type modLFO struct {
	phase float64
	rate  float64
}

func (l *modLFO) next(sr float64) float64 {
	v := math.Sin(2 * math.Pi * l.phase)
	l.phase += l.rate / sr
	l.phase -= math.Floor(l.phase)
	return v
}

// interpRead linearly interpolates a read from a ring buffer n
// samples behind the current write position.
func interpRead(buf []float32, write int, delaySamples float64) float32 {
	n := len(buf)
	readPos := float64(write) - delaySamples
	for readPos < 0 {
		readPos += float64(n)
	}
	i0 := int(readPos) % n
	i1 := (i0 + 1) % n
	frac := float32(readPos - math.Floor(readPos))
	return buf[i0]*(1-frac) + buf[i1]*frac
}

// Chorus mixes the dry signal with an LFO-modulated short delay tap.
type Chorus struct {
	buf   []float32
	write int
	lfo   modLFO
}

func NewChorus(sr int, lfoRateHz float64) *Chorus {
	n := sr/10 + 2 // up to 100ms base + modulation headroom
	return &Chorus{buf: make([]float32, n), lfo: modLFO{rate: lfoRateHz}}
}

func (c *Chorus) ProvidesDelay() bool { return true }

// Process reads signal (0), base delay ms (1), depth ms (2), mix (3).
func (c *Chorus) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	baseMs := float64(in.Get(1))
	depthMs := float64(in.Get(2))
	mix := in.Get(3)

	sr := float64(ctx.SampleRate)
	lfoVal := c.lfo.next(sr)
	delayMs := baseMs + depthMs*lfoVal
	if delayMs < 0 {
		delayMs = 0
	}
	delaySamples := delayMs / 1000 * sr

	c.buf[c.write] = x
	c.write = (c.write + 1) % len(c.buf)

	wet := interpRead(c.buf, c.write, delaySamples)
	return clampFinite(x*(1-mix) + wet*mix)
}

// Flanger is structurally a Chorus with a feedback path and a shorter
// base delay; kept as a distinct type so callers get the spec's
// distinct node identity rather than a Chorus with different presets.
type Flanger struct {
	buf   []float32
	write int
	lfo   modLFO
}

func NewFlanger(sr int, lfoRateHz float64) *Flanger {
	n := sr/50 + 2
	return &Flanger{buf: make([]float32, n), lfo: modLFO{rate: lfoRateHz}}
}

func (f *Flanger) ProvidesDelay() bool { return true }

// Process reads signal (0), depth ms (1), feedback (2), mix (3).
func (f *Flanger) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	depthMs := float64(in.Get(1))
	feedback := in.Get(2)
	mix := in.Get(3)

	sr := float64(ctx.SampleRate)
	lfoVal := (f.lfo.next(sr) + 1) / 2 // unipolar, flanger sweeps from ~0
	delaySamples := depthMs / 1000 * sr * lfoVal

	wet := interpRead(f.buf, f.write, delaySamples)
	f.buf[f.write] = clampFinite(x + wet*feedback)
	f.write = (f.write + 1) % len(f.buf)

	return clampFinite(x*(1-mix) + wet*mix)
}

// PitchShifter uses the classic dual-delay-line crossfade: two read
// taps 180 degrees apart in a shared sawtooth ramp, crossfaded so the
// discontinuity when one tap wraps is masked by the other's peak gain.
type PitchShifter struct {
	buf    []float32
	write  int
	ramp   float64
	semitones float64
}

func NewPitchShifter(sr int) *PitchShifter {
	n := sr/5 + 2 // 200ms window
	return &PitchShifter{buf: make([]float32, n)}
}

func (p *PitchShifter) ProvidesDelay() bool { return true }

// Process reads signal (0), semitone shift (1), window ms (2).
func (p *PitchShifter) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	semitones := float64(in.Get(1))
	windowMs := float64(in.Get(2))
	if windowMs <= 0 {
		windowMs = 60
	}

	sr := float64(ctx.SampleRate)
	ratio := math.Pow(2, semitones/12)
	windowSamples := windowMs / 1000 * sr

	p.buf[p.write] = x
	p.write = (p.write + 1) % len(p.buf)

	// ramp advances at (1-ratio) relative to real time, producing the
	// classic tape-scrub read-head drift that implements the shift.
	p.ramp += (1 - ratio) / sr * 1000 / windowMs
	p.ramp -= math.Floor(p.ramp)

	tapA := p.ramp * windowSamples
	tapB := math.Mod(p.ramp+0.5, 1) * windowSamples
	gainA := float32(math.Sin(math.Pi * p.ramp))
	gainB := float32(math.Sin(math.Pi * math.Mod(p.ramp+0.5, 1)))

	a := interpRead(p.buf, p.write, tapA)
	b := interpRead(p.buf, p.write, tapB)
	return clampFinite(a*gainA + b*gainB)
}

// Resampler reads a delay buffer at a variable rate to perform simple
// sample-rate conversion / time-stretch, driven by an explicit ratio.
// Unlike PitchShifter it reads through a single tap with no crossfade,
// so the tap's wrap-around is not smoothed.
type Resampler struct {
	buf   []float32
	write int
	pos   float64
}

func NewResampler(sr int) *Resampler {
	n := sr + 2
	return &Resampler{buf: make([]float32, n)}
}

func (r *Resampler) ProvidesDelay() bool { return true }

// Process reads signal (0), rate ratio (1, 1.0 = unchanged).
func (r *Resampler) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	ratio := float64(in.Get(1))
	if ratio <= 0 {
		ratio = 1
	}

	r.buf[r.write] = x
	r.write = (r.write + 1) % len(r.buf)

	r.pos += ratio - 1
	delaySamples := math.Mod(r.pos, float64(len(r.buf))/2)
	if delaySamples < 0 {
		delaySamples += float64(len(r.buf)) / 2
	}

	return interpRead(r.buf, r.write, delaySamples)
}
