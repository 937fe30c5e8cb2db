package pattern

import "github.com/noisefloor-audio/phonon-go/phonon/rational"

// bjorklund distributes k pulses across n steps using the bucket-fold
// method: start with k singleton buckets [true] and n-k singleton
// buckets [false], then repeatedly append the smaller group of buckets
// onto the larger group element-wise until at most two distinct bucket
// sizes remain (or one group is exhausted). Flattening the remaining
// buckets in order yields the Euclidean rhythm.
func bjorklund(k, n int) []bool {
	if n <= 0 {
		return nil
	}
	if k <= 0 {
		return make([]bool, n)
	}
	if k >= n {
		out := make([]bool, n)
		for i := range out {
			out[i] = true
		}
		return out
	}

	a := make([][]bool, k)
	for i := range a {
		a[i] = []bool{true}
	}
	b := make([][]bool, n-k)
	for i := range b {
		b[i] = []bool{false}
	}

	for len(b) > 1 {
		m := len(a)
		if len(b) < m {
			m = len(b)
		}
		var newA [][]bool
		for i := 0; i < m; i++ {
			newA = append(newA, append(append([]bool{}, a[i]...), b[i]...))
		}
		var remainder [][]bool
		if len(a) > m {
			remainder = a[m:]
		} else {
			remainder = b[m:]
		}
		a = newA
		b = remainder
		if len(a) <= 1 {
			break
		}
	}

	var out []bool
	for _, bucket := range a {
		out = append(out, bucket...)
	}
	for _, bucket := range b {
		out = append(out, bucket...)
	}
	return out
}

// rotateBools rotates the boolean slice left by r positions (r may be
// negative or exceed the slice length).
func rotateBools(steps []bool, r int) []bool {
	n := len(steps)
	if n == 0 {
		return steps
	}
	r = ((r % n) + n) % n
	out := make([]bool, n)
	for i := range steps {
		out[i] = steps[(i+r)%n]
	}
	return out
}

// Euclid builds the boolean mask for k pulses distributed across n steps,
// rotated left by r, per the Björklund bucket-fold algorithm. Rotation
// direction is left, per Design Note (2).
func Euclid(k, n, r int) []bool {
	return rotateBools(bjorklund(k, n), r)
}

// EuclidPattern turns a k-of-n-steps Euclidean rhythm into a Pattern[bool]
// occupying one cycle, where true haps are the active pulses.
func EuclidPattern(k, n, r int) Pattern[bool] {
	mask := Euclid(k, n, r)
	if len(mask) == 0 {
		return Silence[bool]()
	}
	ps := make([]Pattern[bool], len(mask))
	for i, v := range mask {
		ps[i] = Pure(v)
	}
	return Cat(ps...)
}

// EuclidMask applies a k-of-n Euclidean mask to p elementwise: p's events
// are kept only where the corresponding step in the mask is active,
// matching mini-notation's x(k,n[,r]) construct.
func EuclidMask[T any](p Pattern[T], k, n, r int) Pattern[T] {
	mask := Euclid(k, n, r)
	steps := len(mask)
	if steps == 0 {
		return Silence[T]()
	}
	return New(func(s State) []Hap[T] {
		var out []Hap[T]
		for _, cyc := range rational.SpanCycles(s.Span) {
			c := rational.FromInt(rational.CycleIndex(cyc.Begin))
			for i, active := range mask {
				if !active {
					continue
				}
				stepStart := c.Add(rational.New(int64(i), int64(steps)))
				stepEnd := c.Add(rational.New(int64(i+1), int64(steps)))
				slice, ok := cyc.Intersect(rational.NewSpan(stepStart, stepEnd))
				if !ok {
					continue
				}
				in := p.Query(s.WithSpan(slice))
				step := rational.NewSpan(stepStart, stepEnd)
				for _, h := range in {
					// A kept event longer than its step is cut to the
					// step, so each active step carries its own onset.
					if h.Whole != nil {
						if w, ok := h.Whole.Intersect(step); ok {
							h.Whole = &w
						}
					}
					out = append(out, h)
				}
			}
		}
		return out
	}).WithSteps(steps)
}
