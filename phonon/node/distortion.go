package node

import "math"

// Distortion is a tanh soft-clipper with a pre-gain "drive" control and
// a wet/dry mix.
type Distortion struct{}

func (Distortion) ProvidesDelay() bool { return false }

// Process reads signal (0), drive (1, >=1), mix (2).
func (Distortion) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	drive := in.Get(1)
	mix := in.Get(2)
	if drive < 1 {
		drive = 1
	}
	wet := float32(math.Tanh(float64(x * drive)))
	return clampFinite(x*(1-mix) + wet*mix)
}
