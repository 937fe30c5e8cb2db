package pattern

import "github.com/noisefloor-audio/phonon-go/phonon/rational"

// Segment samples a pattern at n discrete, evenly-spaced steps per cycle.
// It is how a continuous numeric pattern (e.g. an LFO-like envelope
// expressed as a pattern) becomes a steady stream of discrete values
// suitable for driving a Signal.
func Segment[T any](p Pattern[T], n int) Pattern[T] {
	if n <= 0 {
		return Silence[T]()
	}
	return EuclidMask(p, n, n, 0)
}

// Range rescales a unipolar [0,1) numeric pattern into [lo, hi).
func Range(p Pattern[float64], lo, hi float64) Pattern[float64] {
	return Fmap(p, func(v float64) float64 {
		return lo + v*(hi-lo)
	})
}

// DegradeBy probabilistically removes haps, keeping each one with
// probability (1-prob), using a cheap deterministic hash of the hap's
// onset time and seed rather than a global PRNG, so repeated queries of
// the same span are idempotent as the Pattern contract requires.
func DegradeBy[T any](p Pattern[T], seed uint64, prob float64) Pattern[T] {
	return New(func(s State) []Hap[T] {
		in := p.Query(s)
		out := make([]Hap[T], 0, len(in))
		for _, h := range in {
			if hashSpan(seed, h.Part.Begin) >= prob {
				out = append(out, h)
			}
		}
		return out
	})
}

// Degrade removes roughly half of a pattern's events deterministically.
func Degrade[T any](p Pattern[T], seed uint64) Pattern[T] {
	return DegradeBy(p, seed, 0.5)
}

// hashSpan maps (seed, t) to a deterministic pseudo-random value in
// [0, 1), using a splitmix64-style finalizer so identical queries of the
// same span always degrade the same way.
func hashSpan(seed uint64, t rational.Rational) float64 {
	x := seed ^ uint64(t.Num)*0x9E3779B97F4A7C15 ^ uint64(t.Den)*0xBF58476D1CE4E5B9
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return float64(x>>11) / float64(1<<53)
}

// Chunk divides each cycle into n parts and applies f to only the ith
// part on a cycle-rotating basis, cycling i from 0..n-1 across successive
// cycles. It is a common mini-notation-adjacent combinator for partial
// transformations (e.g. `chunk 4 (fast 2) $ "bd sn hh cp"`).
func Chunk[T any](p Pattern[T], n int, f func(Pattern[T]) Pattern[T]) Pattern[T] {
	if n <= 0 {
		return p
	}
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range rational.SpanCycles(s.Span) {
			idx := int(((rational.CycleIndex(cyc.Begin) % int64(n)) + int64(n)) % int64(n))
			c := rational.FromInt(rational.CycleIndex(cyc.Begin))
			for i := 0; i < n; i++ {
				stepStart := c.Add(rational.New(int64(i), int64(n)))
				stepEnd := c.Add(rational.New(int64(i+1), int64(n)))
				slice, ok := cyc.Intersect(rational.NewSpan(stepStart, stepEnd))
				if !ok {
					continue
				}
				active := p
				if i == idx {
					active = f(p)
				}
				out = append(out, active.Query(s.WithSpan(slice))...)
			}
		}
		return out
	}).WithSteps(n)
}
