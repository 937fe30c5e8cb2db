// Package node implements the DSP primitive catalog: oscillators,
// filters, envelopes, delays, reverbs, arithmetic, and the sample
// player. Every primitive implements Processor and is driven one
// sample at a time by phonon/graph's evaluator.
package node

import "github.com/noisefloor-audio/phonon-go/phonon/diag"

// Anomalies, when set by the engine at startup, is incremented every
// time clampFinite catches a non-finite or runaway sample. Left nil in
// tests, where the clamp itself is what's under test.
var Anomalies *diag.Counters

// Context carries per-sample transport state visible to every
// processor. It is rebuilt once per sample by the engine, never
// allocated per node.
type Context struct {
	SampleRate int
	N          uint64
	CPS        float64
	Cycle      float64 // n*cps/sr, float projection of pattern time
}

// Inputs is the resolved set of input values for one Process call, one
// float32 per input slot in the order the node declared them.
type Inputs []float32

// Get returns the i'th input, or 0 if the slot wasn't wired (a
// disconnected optional input, e.g. an unset feedback send).
func (in Inputs) Get(i int) float32 {
	if i < 0 || i >= len(in) {
		return 0
	}
	return in[i]
}

// Processor is the uniform contract every DSP node implements. It
// computes exactly one output sample from its resolved inputs and
// whatever internal state it owns (phase, delay buffer, filter memory).
type Processor interface {
	Process(ctx *Context, in Inputs) float32
	// ProvidesDelay reports whether this node's internal state
	// introduces at least one sample of delay between an input arriving
	// and it affecting the output. Nodes that answer true may
	// participate in a graph cycle; phonon/graph's topo sort treats
	// such a node as a "feedback breaker" and resolves the back-edge
	// using the previous sample's stored output.
	ProvidesDelay() bool
}

// clampFinite guards the runtime no-NaN/Inf invariant at the edge of
// every node: a node that produces a bad float degrades to silence
// rather than propagating the corruption downstream.
func clampFinite(v float32) float32 {
	if v != v { // NaN
		if Anomalies != nil {
			Anomalies.IncNaN()
		}
		return 0
	}
	if v > 1e9 || v < -1e9 {
		if Anomalies != nil {
			Anomalies.IncOverflow()
		}
		return 0
	}
	return v
}
