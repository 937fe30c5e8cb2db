package node

import "math"

// Bitcrush combines phase-accumulator sample-rate reduction (hold the
// last sampled value until the reduced-rate phase wraps) with
// 2^bits-level amplitude quantization.
type Bitcrush struct {
	phase float64
	held  float32
}

func (b *Bitcrush) ProvidesDelay() bool { return true }

// Process reads signal (0), rate-reduction factor (1, samples held per
// output sample; 1 = no reduction), bit depth (2).
func (b *Bitcrush) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	factor := float64(in.Get(1))
	bits := in.Get(2)
	if factor < 1 {
		factor = 1
	}
	if bits < 1 {
		bits = 16
	}

	b.phase += 1
	if b.phase >= factor {
		b.phase -= factor
		b.held = x
	}

	levels := float32(math.Pow(2, float64(bits)))
	quantized := float32(math.Round(float64(b.held*levels/2))) / (levels / 2)
	return clampFinite(quantized)
}
