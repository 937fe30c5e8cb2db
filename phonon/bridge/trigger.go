package bridge

import (
	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
)

// Trigger implements graph.PatternSource by reporting 1.0 for exactly
// the sample containing a hap's onset and 0.0 otherwise — the bridge
// kind for gate/trigger inputs such as envelope gates or one-shot
// effects (spec §4.5 "Trigger"). T is whatever the source pattern
// carries; only onsets matter, the value itself is discarded.
type Trigger[T any] struct {
	pattern pattern.Pattern[T]
}

func NewTrigger[T any](p pattern.Pattern[T]) *Trigger[T] {
	return &Trigger[T]{pattern: p}
}

func (t *Trigger[T]) ValueAt(n uint64, sr int, cps float64) (float32, bool) {
	for _, hap := range t.pattern.QuerySpan(sampleSpan(n, sr, cps)) {
		if hap.HasOnset() {
			return 1, true
		}
	}
	return 0, false
}
