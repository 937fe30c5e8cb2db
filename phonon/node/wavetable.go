package node

import "math"

// Wavetable plays back an arbitrary user-supplied table with linear
// interpolation. The table is shared (not copied) across voices reading
// the same timbre, matching the spec's reference-counted-table design;
// in Go that's simply a shared slice, since the table is never mutated
// after construction.
type Wavetable struct {
	table []float32
	phase float64
}

// NewWavetable takes ownership of table by reference; callers must not
// mutate it afterward.
func NewWavetable(table []float32) *Wavetable {
	if len(table) == 0 {
		table = []float32{0}
	}
	return &Wavetable{table: table}
}

func (w *Wavetable) ProvidesDelay() bool { return false }

func (w *Wavetable) Process(ctx *Context, in Inputs) float32 {
	freq := float64(in.Get(0))
	sr := float64(ctx.SampleRate)
	if sr <= 0 {
		return 0
	}

	n := len(w.table)
	pos := w.phase * float64(n)
	i0 := int(math.Floor(pos)) % n
	i1 := (i0 + 1) % n
	frac := pos - math.Floor(pos)

	out := float64(w.table[i0])*(1-frac) + float64(w.table[i1])*frac

	w.phase += freq / sr
	w.phase -= math.Floor(w.phase)

	return clampFinite(float32(out))
}
