// Package diag tracks runtime anomalies and bus/channel status for
// monitoring backends, adapted from the teacher's debug.AudioData
// snapshot (jeebie/debug/audio.go) — there it introspected Game Boy
// APU registers; here it introspects the signal graph's own health
// and bus levels instead.
package diag

import "sync/atomic"

// Counters tallies runtime anomalies the DSP core clamps away rather
// than propagating (spec §7: "no allocation, no panic — clamp and
// count"). All fields are updated from the audio render path, so they
// use atomic operations rather than a mutex.
type Counters struct {
	nanClamped      uint64
	infClamped      uint64
	overflowClamped uint64
}

func (c *Counters) IncNaN()      { atomic.AddUint64(&c.nanClamped, 1) }
func (c *Counters) IncInf()      { atomic.AddUint64(&c.infClamped, 1) }
func (c *Counters) IncOverflow() { atomic.AddUint64(&c.overflowClamped, 1) }

// Snapshot is a point-in-time, non-atomic copy of the counters safe to
// hand to a monitoring backend.
type Snapshot struct {
	NaNClamped      uint64
	InfClamped      uint64
	OverflowClamped uint64
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		NaNClamped:      atomic.LoadUint64(&c.nanClamped),
		InfClamped:      atomic.LoadUint64(&c.infClamped),
		OverflowClamped: atomic.LoadUint64(&c.overflowClamped),
	}
}
