package pattern

import "github.com/noisefloor-audio/phonon-go/phonon/rational"

// Fast queries the pattern k times faster: the query span is scaled up by
// k before querying, then both the query and result times are scaled back
// down by k. k == 0 collapses to Silence; a negative k plays Fast(p, -k)
// reversed.
func Fast[T any](p Pattern[T], k rational.Rational) Pattern[T] {
	if k.Num == 0 {
		return Silence[T]()
	}
	if k.Num < 0 {
		return Rev(Fast(p, k.Neg()))
	}
	return New(func(s State) []Hap[T] {
		scaled := s.WithSpan(s.Span.WithTime(func(t rational.Rational) rational.Rational {
			return t.Mul(k)
		}))
		in := p.Query(scaled)
		out := make([]Hap[T], len(in))
		for i, h := range in {
			out[i] = h.withTime(func(t rational.Rational) rational.Rational {
				r, err := t.Div(k)
				if err != nil {
					return t
				}
				return r
			})
		}
		return out
	}).WithSteps(p.Steps)
}

// Slow is Fast(1/k).
func Slow[T any](p Pattern[T], k rational.Rational) Pattern[T] {
	one := rational.One
	inv, err := one.Div(k)
	if err != nil {
		return Silence[T]()
	}
	return Fast(p, inv)
}

// Rev reflects each cycle's local time: t -> c + (1 - (t-c)) where c is
// the cycle's start. This is the "per cycle" interpretation from Design
// Note (1): the source applies rev per cycle, not over the whole query
// window, so queries spanning multiple cycles are split at cycle
// boundaries first.
func Rev[T any](p Pattern[T]) Pattern[T] {
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range rational.SpanCycles(s.Span) {
			c := rational.FromInt(rational.CycleIndex(cyc.Begin))
			reflect := func(t rational.Rational) rational.Rational {
				return c.Add(rational.One).Sub(t.Sub(c))
			}
			// Reflecting a half-open span swaps begin/end, so re-sort them.
			reflected := cyc.WithTime(reflect)
			queried := rational.NewSpan(reflected.End, reflected.Begin)
			in := p.Query(s.WithSpan(queried))
			for _, h := range in {
				out = append(out, h.withReversingTime(reflect))
			}
		}
		return out
	}).WithSteps(p.Steps)
}

// Every applies f to the pattern on every nth cycle (cycle index mod n
// == 0), otherwise queries the pattern unmodified.
func Every[T any](p Pattern[T], n int, f func(Pattern[T]) Pattern[T]) Pattern[T] {
	if n <= 0 {
		return p
	}
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range rational.SpanCycles(s.Span) {
			idx := rational.CycleIndex(cyc.Begin)
			active := p
			if ((idx%int64(n))+int64(n))%int64(n) == 0 {
				active = f(p)
			}
			out = append(out, active.Query(s.WithSpan(cyc))...)
		}
		return out
	})
}

// RotateLeft shifts the query window right by x cycles of pattern time and
// the result times left by x, producing a pattern that behaves as if its
// timeline started x earlier.
func RotateLeft[T any](p Pattern[T], x rational.Rational) Pattern[T] {
	return New(func(s State) []Hap[T] {
		shifted := s.WithSpan(s.Span.WithTime(func(t rational.Rational) rational.Rational {
			return t.Add(x)
		}))
		in := p.Query(shifted)
		out := make([]Hap[T], len(in))
		for i, h := range in {
			out[i] = h.withTime(func(t rational.Rational) rational.Rational {
				return t.Sub(x)
			})
		}
		return out
	}).WithSteps(p.Steps)
}

// Stack plays all patterns in parallel: the union of their queries.
func Stack[T any](ps ...Pattern[T]) Pattern[T] {
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, p := range ps {
			out = append(out, p.Query(s)...)
		}
		return out
	}).WithSteps(len(ps))
}

// Cat partitions each cycle into len(ps) equal slices and routes slice i
// to ps[i], queried at a rate of len(ps) (so each sub-pattern completes a
// full cycle of its own content within its slice).
func Cat[T any](ps ...Pattern[T]) Pattern[T] {
	n := len(ps)
	if n == 0 {
		return Silence[T]()
	}
	if n == 1 {
		return ps[0]
	}
	nR := rational.FromInt(int64(n))
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range rational.SpanCycles(s.Span) {
			c := rational.FromInt(rational.CycleIndex(cyc.Begin))
			for i := 0; i < n; i++ {
				sliceStart := c.Add(rational.New(int64(i), int64(n)))
				sliceEnd := c.Add(rational.New(int64(i+1), int64(n)))
				slice, ok := cyc.Intersect(rational.NewSpan(sliceStart, sliceEnd))
				if !ok {
					continue
				}
				// Map the slice into the sub-pattern's own unit-cycle
				// timeline: local = (global - sliceStart)*n + i.
				toLocal := func(t rational.Rational) rational.Rational {
					return t.Sub(sliceStart).Mul(nR).Add(rational.FromInt(int64(i)))
				}
				toGlobal := func(t rational.Rational) rational.Rational {
					local := t.Sub(rational.FromInt(int64(i)))
					r, err := local.Div(nR)
					if err != nil {
						return sliceStart
					}
					return r.Add(sliceStart)
				}
				localSpan := slice.WithTime(toLocal)
				in := ps[i].Query(s.WithSpan(localSpan))
				for _, h := range in {
					out = append(out, h.withTime(toGlobal))
				}
			}
		}
		return out
	}).WithSteps(n)
}

// SlowCat plays one whole pattern per cycle, cycling through ps in order.
func SlowCat[T any](ps ...Pattern[T]) Pattern[T] {
	n := len(ps)
	if n == 0 {
		return Silence[T]()
	}
	if n == 1 {
		return ps[0]
	}
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range rational.SpanCycles(s.Span) {
			idx := rational.CycleIndex(cyc.Begin)
			i := int(((idx % int64(n)) + int64(n)) % int64(n))
			// SlowCat gives each chosen pattern the cycle index it would
			// see if it alone were playing every nth cycle: shift so the
			// current global cycle maps to floor(idx/n) locally.
			localCycle := floorDiv(idx, int64(n))
			delta := rational.FromInt(idx - localCycle)
			toLocal := func(t rational.Rational) rational.Rational { return t.Sub(delta) }
			toGlobal := func(t rational.Rational) rational.Rational { return t.Add(delta) }
			localSpan := cyc.WithTime(toLocal)
			in := ps[i].Query(s.WithSpan(localSpan))
			for _, h := range in {
				out = append(out, h.withTime(toGlobal))
			}
		}
		return out
	}).WithSteps(n)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
