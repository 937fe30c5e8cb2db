// Package pattern implements the Tidal/Strudel-style cyclic pattern
// algebra: lazy, queryable functions from time spans to discrete events.
package pattern

import "github.com/noisefloor-audio/phonon-go/phonon/rational"

// Hap is a single discrete event produced by a pattern query. Whole is
// the event's canonical extent and may reach outside the queried span;
// Part is the slice of that extent actually covered by the query. Part
// is always a subset of both the query span and Whole (when present).
type Hap[T any] struct {
	Whole   *rational.TimeSpan
	Part    rational.TimeSpan
	Value   T
	Context map[string]string
}

// HasOnset reports whether this hap's Part begins at the same instant as
// its Whole — i.e. this query fragment contains the event's rising edge.
func (h Hap[T]) HasOnset() bool {
	return h.Whole != nil && h.Whole.Begin.Equal(h.Part.Begin)
}

// WithValue returns a copy of h with its value replaced.
func WithValue[T, U any](h Hap[T], v U) Hap[U] {
	return Hap[U]{Whole: h.Whole, Part: h.Part, Value: v, Context: h.Context}
}

// withTime maps f over both Whole and Part, used by time-transforming
// combinators (fast, slow, rotate, rev).
func (h Hap[T]) withTime(f func(rational.Rational) rational.Rational) Hap[T] {
	out := h
	out.Part = h.Part.WithTime(f)
	if h.Whole != nil {
		w := h.Whole.WithTime(f)
		out.Whole = &w
	}
	return out
}

// withReversingTime maps f over both Whole and Part like withTime, but
// re-sorts the resulting Begin/End so the span stays well-formed even
// when f is order-reversing (as Rev's reflection is).
func (h Hap[T]) withReversingTime(f func(rational.Rational) rational.Rational) Hap[T] {
	reorder := func(s rational.TimeSpan) rational.TimeSpan {
		b, e := f(s.Begin), f(s.End)
		if e.Less(b) {
			b, e = e, b
		}
		return rational.NewSpan(b, e)
	}
	out := h
	out.Part = reorder(h.Part)
	if h.Whole != nil {
		w := reorder(*h.Whole)
		out.Whole = &w
	}
	return out
}
