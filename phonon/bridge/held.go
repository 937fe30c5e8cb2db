// Package bridge adapts the pattern algebra (phonon/pattern) onto the
// signal graph's per-sample clock (phonon/graph), and onto the sample
// voice pool (phonon/sample) and MIDI output (phonon/midi). This is
// the seam between cyclic pattern time (rational, cycle-relative) and
// the engine's absolute sample counter.
package bridge

import (
	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
	"github.com/noisefloor-audio/phonon-go/phonon/rational"
)

// sampleToCycle converts an absolute sample index to cyclic pattern
// time given the current cycles-per-second rate.
func sampleToCycle(n uint64, sr int, cps float64) rational.Rational {
	return rational.FromFloat(float64(n) * cps / float64(sr))
}

// sampleSpan returns the half-open cyclic-time span [t_n, t_n+1)
// occupied by absolute sample n, the unit query every bridge uses to
// check "did a hap onset land on this sample".
func sampleSpan(n uint64, sr int, cps float64) rational.TimeSpan {
	return rational.NewSpan(sampleToCycle(n, sr, cps), sampleToCycle(n+1, sr, cps))
}

// Held implements graph.PatternSource by holding the value of the most
// recent onset, continuing to report it for every sample until the
// next onset arrives — the bridge kind for continuous signals such as
// cutoff-frequency or gain patterns (spec §4.5 "Held").
type Held struct {
	pattern pattern.Pattern[float64]
	value   float32
}

func NewHeld(p pattern.Pattern[float64]) *Held {
	return &Held{pattern: p}
}

// ValueAt implements graph.PatternSource, querying the pattern over
// sample n's own instant and latching onto any onset found there.
func (h *Held) ValueAt(n uint64, sr int, cps float64) (float32, bool) {
	edge := false
	for _, hap := range h.pattern.QuerySpan(sampleSpan(n, sr, cps)) {
		if hap.HasOnset() {
			h.value = float32(hap.Value)
			edge = true
		}
	}
	return h.value, edge
}
