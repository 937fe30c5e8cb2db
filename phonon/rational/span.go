package rational

// TimeSpan is a half-open interval [Begin, End) of rational pattern time.
type TimeSpan struct {
	Begin Rational
	End   Rational
}

// NewSpan constructs a TimeSpan from rational bounds.
func NewSpan(begin, end Rational) TimeSpan {
	return TimeSpan{Begin: begin, End: end}
}

// Duration returns End - Begin.
func (s TimeSpan) Duration() Rational {
	return s.End.Sub(s.Begin)
}

// Midpoint returns (Begin+End)/2.
func (s TimeSpan) Midpoint() Rational {
	return s.Begin.Add(s.End).Mul(Rational{Num: 1, Den: 2})
}

// Contains reports whether t falls within [Begin, End).
func (s TimeSpan) Contains(t Rational) bool {
	return !t.Less(s.Begin) && t.Less(s.End)
}

// Intersect returns the overlap of s and o, and whether any overlap exists.
// The result is only meaningful when ok is true.
func (s TimeSpan) Intersect(o TimeSpan) (TimeSpan, bool) {
	begin := s.Begin
	if o.Begin.Greater(begin) {
		begin = o.Begin
	}
	end := s.End
	if o.End.Less(end) {
		end = o.End
	}
	if begin.Greater(end) || begin.Equal(end) {
		return TimeSpan{}, false
	}
	return TimeSpan{Begin: begin, End: end}, true
}

// Subset reports whether s is fully contained within o (s ⊆ o).
func (s TimeSpan) Subset(o TimeSpan) bool {
	return !s.Begin.Less(o.Begin) && !s.End.Greater(o.End)
}

// WithTime maps a function over both Begin and End, producing a new span.
// Used by combinators like fast/slow/rotate that transform query and
// result spans uniformly.
func (s TimeSpan) WithTime(f func(Rational) Rational) TimeSpan {
	return TimeSpan{Begin: f(s.Begin), End: f(s.End)}
}

// CycleSpan returns the unit-length span [floor(t), floor(t)+1) containing t.
func CycleSpan(t Rational) TimeSpan {
	c := FromInt(CycleIndex(t))
	return TimeSpan{Begin: c, End: c.Add(One)}
}

// SpanCycles splits s into a sequence of spans, one per cycle boundary it
// crosses, so that each returned span lies within a single cycle. Many
// combinators (rev, every) must operate cycle-by-cycle.
func SpanCycles(s TimeSpan) []TimeSpan {
	if !s.Begin.Less(s.End) {
		if s.Begin.Equal(s.End) {
			return []TimeSpan{s}
		}
		return nil
	}

	var out []TimeSpan
	begin := s.Begin
	for begin.Less(s.End) {
		nextCycle := FromInt(CycleIndex(begin) + 1)
		end := s.End
		if nextCycle.Less(end) {
			end = nextCycle
		}
		out = append(out, TimeSpan{Begin: begin, End: end})
		begin = end
	}
	return out
}
