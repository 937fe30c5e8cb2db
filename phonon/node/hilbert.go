package node

// hilbertCoeffs are the two fixed all-pass coefficient sets (I and Q
// chains) that together produce an approximately 90 degree relative
// phase shift across the audio band, the classic 4-stage
// Hilbert-transformer design.
var hilbertCoeffsI = [4]float32{0.6923878, 0.9360654322959, 0.9882295226860, 0.9987488452737}
var hilbertCoeffsQ = [4]float32{0.4021921162426, 0.8561710882420, 0.9722909545651, 0.9952884791278}

type allpassStage struct {
	coeff  float32
	x1, x2 float32
	y1, y2 float32
}

func (a *allpassStage) process(x float32) float32 {
	y := a.coeff*(x+a.y2) - a.x2
	a.x2, a.x1 = a.x1, x
	a.y2, a.y1 = a.y1, y
	return y
}

// HilbertI and HilbertQ are the in-phase and quadrature outputs of one
// shared 4-stage all-pass chain pair; they are separate node variants
// per the spec so each can be wired independently in a graph (e.g. for
// single-sideband modulation), but in practice callers wire both from
// the same input signal.
type HilbertI struct {
	stages [4]allpassStage
}

func NewHilbertI() *HilbertI {
	h := &HilbertI{}
	for i, c := range hilbertCoeffsI {
		h.stages[i].coeff = c
	}
	return h
}

func (h *HilbertI) ProvidesDelay() bool { return true }
func (h *HilbertI) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	for i := range h.stages {
		x = h.stages[i].process(x)
	}
	return clampFinite(x)
}

type HilbertQ struct {
	stages [4]allpassStage
}

func NewHilbertQ() *HilbertQ {
	h := &HilbertQ{}
	for i, c := range hilbertCoeffsQ {
		h.stages[i].coeff = c
	}
	return h
}

func (h *HilbertQ) ProvidesDelay() bool { return true }
func (h *HilbertQ) Process(ctx *Context, in Inputs) float32 {
	x := in.Get(0)
	for i := range h.stages {
		x = h.stages[i].process(x)
	}
	return clampFinite(x)
}
