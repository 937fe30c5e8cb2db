package node

// Add sums all of its inputs.
type Add struct{}

func (Add) ProvidesDelay() bool { return false }
func (Add) Process(ctx *Context, in Inputs) float32 {
	var sum float32
	for _, v := range in {
		sum += v
	}
	return clampFinite(sum)
}

// Multiply takes the product of all of its inputs.
type Multiply struct{}

func (Multiply) ProvidesDelay() bool { return false }
func (Multiply) Process(ctx *Context, in Inputs) float32 {
	if len(in) == 0 {
		return 0
	}
	prod := in[0]
	for _, v := range in[1:] {
		prod *= v
	}
	return clampFinite(prod)
}

// Scale rescales a unipolar [0,1] input (0) into [Min, Max].
type Scale struct {
	Min, Max float32
}

func (Scale) ProvidesDelay() bool { return false }
func (s Scale) Process(ctx *Context, in Inputs) float32 {
	v := in.Get(0)
	return clampFinite(s.Min + v*(s.Max-s.Min))
}

// When passes input (0) through unchanged when cond (1) > 0.5, else 0.
type When struct{}

func (When) ProvidesDelay() bool { return false }
func (When) Process(ctx *Context, in Inputs) float32 {
	if in.Get(1) > 0.5 {
		return in.Get(0)
	}
	return 0
}

// Transient is a rising-edge detector: input (0) vs threshold (1);
// emits 1.0 for the sample the input crosses above threshold, else 0.
type Transient struct {
	prevAbove bool
}

func (*Transient) ProvidesDelay() bool { return true }
func (t *Transient) Process(ctx *Context, in Inputs) float32 {
	above := in.Get(0) > in.Get(1)
	fired := above && !t.prevAbove
	t.prevAbove = above
	if fired {
		return 1
	}
	return 0
}
