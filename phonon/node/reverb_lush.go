package node

import "math"

const lushChannels = 8

// lushDelayLengths are coprime-ish prime delay lengths (in samples at
// 44100 Hz, scaled to the target rate) feeding each FDN channel; primes
// keep the comb-filter peaks of the eight lines from lining up.
var lushDelayLengths = [lushChannels]int{1117, 1279, 1453, 1621, 1777, 1949, 2089, 2237}

// ReverbLush is an 8-channel Hadamard/Householder feedback delay
// network with pink/brown noise modulating each line's read position,
// used for a denser, longer-tailed reverb than the Dattorro plate.
type ReverbLush struct {
	lines [lushChannels][]float32
	write [lushChannels]int
	damp  [lushChannels]float32
	lfo   [lushChannels]Noise
}

func NewReverbLush(sr int) *ReverbLush {
	r := &ReverbLush{}
	scale := float64(sr) / 44100
	for i := range r.lines {
		n := int(float64(lushDelayLengths[i]) * scale)
		if n < 8 {
			n = 8
		}
		r.lines[i] = make([]float32, n)
		color := NoiseBrown
		if i%2 == 0 {
			color = NoisePink
		}
		r.lfo[i] = *NewNoise(uint32(0x1000193*(i+1)), color)
	}
	return r
}

func (r *ReverbLush) ProvidesDelay() bool { return true }

// hadamard8 applies the order-8 Hadamard transform in place: it mixes
// energy across all channels using only additions/subtractions, which
// is what makes the FDN lossless before the per-line decay gain is
// applied.
func hadamard8(v *[lushChannels]float32) {
	h := *v
	// Three butterfly passes (log2(8) = 3), forming a direct 8-point
	// Walsh-Hadamard butterfly network.
	for stage := 0; stage < 3; stage++ {
		step := 1 << stage
		for i := 0; i < lushChannels; i += step * 2 {
			for j := 0; j < step; j++ {
				a := h[i+j]
				b := h[i+j+step]
				h[i+j] = a + b
				h[i+j+step] = a - b
			}
		}
	}
	norm := float32(1.0 / math.Sqrt(float64(lushChannels)))
	for i := range h {
		h[i] *= norm
	}
	*v = h
}

// decayGain maps decay in [0,1] to the per-sample feedback gain that
// yields the desired RT60, per the calibration decay^2*59.9+0.1.
func decayGain(decay float32, sr int, delaySamples int) float32 {
	rt60 := 0.1 + float64(decay)*float64(decay)*59.9
	if rt60 <= 0 {
		rt60 = 0.1
	}
	// 10^(-3/(sr*RT60)) is the per-sample coefficient; raising it to the
	// delay-line length converts it to the per-bounce gain for that line.
	perSample := math.Pow(10, -3/(float64(sr)*rt60))
	return float32(math.Pow(perSample, float64(delaySamples)))
}

// Process reads signal (0), decay [0,1] (1), damping [0,1] (2), mix (3).
func (r *ReverbLush) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	decay := in.Get(1)
	damping := in.Get(2)
	mix := in.Get(3)

	var outs [lushChannels]float32
	for i := range r.lines {
		n := len(r.lines[i])
		mod := float32(r.lfo[i].Process(ctx, nil)) * 1.5 // +/-1.5 sample jitter
		readPos := float64(r.write[i]) - float64(n) + float64(mod)
		for readPos < 0 {
			readPos += float64(n)
		}
		i0 := int(readPos) % n
		outs[i] = r.lines[i][i0]
	}

	hadamard8(&outs)

	for i := range r.lines {
		gain := decayGain(decay, ctx.SampleRate, len(r.lines[i]))
		fed := outs[i]*gain + x/lushChannels
		r.damp[i] = fed*(1-damping) + r.damp[i]*damping
		r.lines[i][r.write[i]] = clampFinite(r.damp[i])
		r.write[i] = (r.write[i] + 1) % len(r.lines[i])
	}

	var wetSum float32
	for _, o := range outs {
		wetSum += o
	}
	wet := wetSum / lushChannels
	return clampFinite(x*(1-mix) + wet*mix)
}
