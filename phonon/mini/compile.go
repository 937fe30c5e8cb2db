package mini

import (
	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
	"github.com/noisefloor-audio/phonon-go/phonon/rational"
)

// compile turns a parsed expr tree into a queryable Pattern[string]. The
// tree is built once per Parse call; compiling only wraps it in the
// closures Pattern itself requires, so the cost of walking the tree is
// paid once rather than per query.
func compile(e expr) pattern.Pattern[string] {
	switch v := e.(type) {
	case leaf:
		return pattern.Pure(v.value)
	case rest:
		return pattern.Silence[string]()
	case seq:
		return compileSeq(v)
	case stackExpr:
		return compileStack(v)
	case alt:
		items := make([]pattern.Pattern[string], len(v.items))
		for i, it := range v.items {
			items[i] = compile(it.node)
		}
		return pattern.SlowCat(items...)
	case choice:
		items := make([]pattern.Pattern[string], len(v.items))
		for i, it := range v.items {
			items[i] = compile(it)
		}
		return compileChoice(items)
	case fastOp:
		return pattern.Fast(compile(v.base), v.n)
	case slowOp:
		return pattern.Slow(compile(v.base), v.n)
	case euclidOp:
		return pattern.EuclidMask(compile(v.base), v.k, v.n, v.r)
	default:
		return pattern.Silence[string]()
	}
}

// compileSeq builds a weighted cat: each slot occupies weight/total of
// the cycle, implementing both `@N` elongation and `_` continuation.
func compileSeq(s seq) pattern.Pattern[string] {
	if len(s.items) == 0 {
		return pattern.Silence[string]()
	}
	if len(s.items) == 1 && s.items[0].weight.Equal(rational.One) {
		return compile(s.items[0].node)
	}

	total := rational.Zero
	for _, it := range s.items {
		total = total.Add(it.weight)
	}

	compiled := make([]pattern.Pattern[string], len(s.items))
	start := make([]rational.Rational, len(s.items))
	acc := rational.Zero
	for i, it := range s.items {
		compiled[i] = compile(it.node)
		start[i] = acc
		acc = acc.Add(it.weight)
	}

	return pattern.New(func(st pattern.State) []pattern.Hap[string] {
		var out []pattern.Hap[string]
		for _, cyc := range rational.SpanCycles(st.Span) {
			c := rational.FromInt(rational.CycleIndex(cyc.Begin))
			for i, it := range s.items {
				sliceStart := c.Add(start[i].Mul(scaleInv(total)))
				sliceEnd := c.Add(start[i].Add(it.weight).Mul(scaleInv(total)))
				slice, ok := cyc.Intersect(rational.NewSpan(sliceStart, sliceEnd))
				if !ok {
					continue
				}
				weight := it.weight
				toLocal := func(t rational.Rational) rational.Rational {
					return divSafe(t.Sub(sliceStart).Mul(total), weight).Add(c)
				}
				toGlobal := func(t rational.Rational) rational.Rational {
					return divSafe(t.Sub(c).Mul(weight), total).Add(sliceStart)
				}
				localSpan := slice.WithTime(toLocal)
				in := compiled[i].Query(st.WithSpan(localSpan))
				for _, h := range in {
					out = append(out, withTimeMap(h, toGlobal))
				}
			}
		}
		return out
	})
}

// divSafe returns a/b, falling back to a for a degenerate zero divisor
// (unreachable in practice since slot weights are always >= 1).
func divSafe(a, b rational.Rational) rational.Rational {
	r, err := a.Div(b)
	if err != nil {
		return a
	}
	return r
}

// scaleInv returns 1/r, falling back to 1 for a degenerate zero total.
func scaleInv(r rational.Rational) rational.Rational {
	if r.Num == 0 {
		return rational.One
	}
	inv, err := rational.One.Div(r)
	if err != nil {
		return rational.One
	}
	return inv
}

func compileStack(s stackExpr) pattern.Pattern[string] {
	if len(s.parts) == 0 {
		return pattern.Silence[string]()
	}
	base := len(s.parts[0].items)
	if base == 0 {
		base = 1
	}
	voices := make([]pattern.Pattern[string], len(s.parts))
	for i, part := range s.parts {
		items := make([]pattern.Pattern[string], len(part.items))
		for j, it := range part.items {
			items[j] = compile(it.node)
		}
		if len(items) == 0 {
			voices[i] = pattern.Silence[string]()
			continue
		}
		voices[i] = pattern.Fast(pattern.SlowCat(items...), rational.FromInt(int64(base)))
	}
	return pattern.Stack(voices...)
}

// compileChoice picks one alternative per cycle, deterministically
// pseudo-random by cycle index so repeated queries of the same span
// stay idempotent.
func compileChoice(items []pattern.Pattern[string]) pattern.Pattern[string] {
	n := len(items)
	if n == 0 {
		return pattern.Silence[string]()
	}
	return pattern.New(func(st pattern.State) []pattern.Hap[string] {
		var out []pattern.Hap[string]
		for _, cyc := range rational.SpanCycles(st.Span) {
			idx := rational.CycleIndex(cyc.Begin)
			choice := int(uint64(idx*2654435761) % uint64(n))
			out = append(out, items[choice].Query(st.WithSpan(cyc))...)
		}
		return out
	})
}

func withTimeMap(h pattern.Hap[string], f func(rational.Rational) rational.Rational) pattern.Hap[string] {
	part := h.Part.WithTime(f)
	out := pattern.Hap[string]{Part: part, Value: h.Value, Context: h.Context}
	if h.Whole != nil {
		w := h.Whole.WithTime(f)
		out.Whole = &w
	}
	return out
}
