package pattern

import "github.com/noisefloor-audio/phonon-go/phonon/rational"

// QueryFunc answers "what events happen during this span". Implementations
// must be pure and idempotent: querying the same State twice returns
// equivalent results, and every returned Hap's Part is a subset of the
// queried span (and of its Whole, when present).
type QueryFunc[T any] func(State) []Hap[T]

// Pattern is a function from time spans to discrete events. It wraps a
// query closure; combinators build new patterns by wrapping the query
// function of their inputs. phonon/mini parses mini-notation into its
// own small AST and compiles that, at parse time, into a Pattern built
// from these same closure-based combinators.
type Pattern[T any] struct {
	query QueryFunc[T]
	// Steps optionally records the pattern's metric step count, used by
	// combinators (polymeter normalization) that need to reason about
	// rate without requantizing events. Zero means "not annotated".
	Steps int
}

// New wraps a raw query function as a Pattern.
func New[T any](q QueryFunc[T]) Pattern[T] {
	return Pattern[T]{query: q}
}

// WithSteps returns a copy of p annotated with a step count.
func (p Pattern[T]) WithSteps(n int) Pattern[T] {
	p.Steps = n
	return p
}

// Query runs the pattern's query function over the given state.
func (p Pattern[T]) Query(s State) []Hap[T] {
	if p.query == nil {
		return nil
	}
	return p.query(s)
}

// QuerySpan is a convenience wrapper for querying a bare span with no
// control environment.
func (p Pattern[T]) QuerySpan(span rational.TimeSpan) []Hap[T] {
	return p.Query(State{Span: span})
}

// Silence is the pattern that never produces any events.
func Silence[T any]() Pattern[T] {
	return New(func(State) []Hap[T] { return nil })
}

// Pure yields one hap per cycle the query overlaps, whose Whole is that
// cycle and whose Part is the slice of that cycle covered by the query.
// This matches Tidal's "pure": pure(v) repeats v once per
// cycle.
func Pure[T any](v T) Pattern[T] {
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range rational.SpanCycles(s.Span) {
			whole := rational.CycleSpan(cyc.Begin)
			out = append(out, Hap[T]{Whole: &whole, Part: cyc, Value: v})
		}
		return out
	})
}

// Fmap transforms every hap's value with f.
func Fmap[T, U any](p Pattern[T], f func(T) U) Pattern[U] {
	return New(func(s State) []Hap[U] {
		in := p.Query(s)
		out := make([]Hap[U], len(in))
		for i, h := range in {
			out[i] = WithValue(h, f(h.Value))
		}
		return out
	})
}

// Filter keeps only haps whose value satisfies pred.
func Filter[T any](p Pattern[T], pred func(T) bool) Pattern[T] {
	return New(func(s State) []Hap[T] {
		in := p.Query(s)
		out := make([]Hap[T], 0, len(in))
		for _, h := range in {
			if pred(h.Value) {
				out = append(out, h)
			}
		}
		return out
	})
}

// FilterOnsets keeps only haps whose Part starts at their Whole's start
// (the rising edge), discarding continuation fragments carried over from
// a previous query span.
func FilterOnsets[T any](p Pattern[T]) Pattern[T] {
	return New(func(s State) []Hap[T] {
		in := p.Query(s)
		out := make([]Hap[T], 0, len(in))
		for _, h := range in {
			if h.HasOnset() {
				out = append(out, h)
			}
		}
		return out
	})
}
