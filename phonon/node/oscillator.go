package node

import "math"

// OscShape selects the oscillator's waveform.
type OscShape int

const (
	ShapeSine OscShape = iota
	ShapeSaw
	ShapeSquare
	ShapeTriangle
)

// Oscillator is a phase-accumulator generator: phase advances by
// freq/sr each sample and wraps to [0,1). Input 0 is frequency (Hz),
// input 1 is optional phase-modulation (added to phase pre-wrap).
type Oscillator struct {
	Shape OscShape
	phase float64
}

func NewOscillator(shape OscShape) *Oscillator {
	return &Oscillator{Shape: shape}
}

func (o *Oscillator) ProvidesDelay() bool { return false }

func (o *Oscillator) Process(ctx *Context, in Inputs) float32 {
	freq := float64(in.Get(0))
	pm := float64(in.Get(1))

	sr := float64(ctx.SampleRate)
	if sr <= 0 {
		return 0
	}

	p := o.phase + pm
	p -= math.Floor(p)

	var out float64
	switch o.Shape {
	case ShapeSine:
		out = math.Sin(2 * math.Pi * p)
	case ShapeSaw:
		out = 2*p - 1
	case ShapeSquare:
		out = polyBLEPSquare(p, freq/sr)
	case ShapeTriangle:
		out = 4*math.Abs(p-0.5) - 1
	default:
		out = math.Sin(2 * math.Pi * p)
	}

	o.phase += freq / sr
	o.phase -= math.Floor(o.phase)

	return clampFinite(float32(out))
}

// polyBLEPSquare is a band-limited square wave: a naive square wave
// with a polynomial correction applied at each discontinuity, which
// removes most of the aliasing a naive hard edge would introduce.
func polyBLEPSquare(phase, dt float64) float64 {
	var naive float64
	if phase < 0.5 {
		naive = 1
	} else {
		naive = -1
	}
	naive += blep(phase, dt)
	naive -= blep(math.Mod(phase+0.5, 1), dt)
	return naive
}

func blep(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	switch {
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	default:
		return 0
	}
}

// Noise is a seedable white-noise generator (xorshift32), with an
// optional pink/brown coloring mode used to modulate reverb diffusion
// the way the spec's lush reverb wants.
type NoiseColor int

const (
	NoiseWhite NoiseColor = iota
	NoisePink
	NoiseBrown
)

type Noise struct {
	Color   NoiseColor
	state   uint32
	pinkAcc [7]float32 // Voss-McCartney pink approximation taps
	brownAcc float32
}

func NewNoise(seed uint32, color NoiseColor) *Noise {
	if seed == 0 {
		seed = 0x9E3779B9
	}
	return &Noise{Color: color, state: seed}
}

func (n *Noise) ProvidesDelay() bool { return false }

func (n *Noise) next() float32 {
	n.state ^= n.state << 13
	n.state ^= n.state >> 17
	n.state ^= n.state << 5
	return (float32(n.state)/float32(math.MaxUint32))*2 - 1
}

func (n *Noise) Process(ctx *Context, in Inputs) float32 {
	white := n.next()
	switch n.Color {
	case NoisePink:
		sum := float32(0)
		for i := range n.pinkAcc {
			if n.state&(1<<uint(i)) != 0 {
				n.pinkAcc[i] = n.next()
			}
			sum += n.pinkAcc[i]
		}
		return clampFinite(sum / float32(len(n.pinkAcc)))
	case NoiseBrown:
		n.brownAcc += white * 0.02
		if n.brownAcc > 1 {
			n.brownAcc = 1
		} else if n.brownAcc < -1 {
			n.brownAcc = -1
		}
		return clampFinite(n.brownAcc)
	default:
		return clampFinite(white)
	}
}

// FMOperator is a two-operator FM/PM pair: the modulator's output,
// scaled by index, phase-modulates the carrier.
type FMOperator struct {
	carrier   Oscillator
	modulator Oscillator
}

func NewFMOperator() *FMOperator {
	return &FMOperator{carrier: Oscillator{Shape: ShapeSine}, modulator: Oscillator{Shape: ShapeSine}}
}

func (f *FMOperator) ProvidesDelay() bool { return false }

// Process reads carrier freq (0), modulator freq (1), and modulation
// index (2).
func (f *FMOperator) Process(ctx *Context, in Inputs) float32 {
	carrierFreq := in.Get(0)
	modFreq := in.Get(1)
	index := in.Get(2)

	modOut := f.modulator.Process(ctx, Inputs{modFreq})
	return f.carrier.Process(ctx, Inputs{carrierFreq, modOut * index})
}
