package rational

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReducedAndPositiveDenominator(t *testing.T) {
	r := New(4, -8)
	assert.Equal(t, int64(-1), r.Num)
	assert.Equal(t, int64(2), r.Den)
}

func TestArithmeticClosure(t *testing.T) {
	cases := []struct{ a, b Rational }{
		{New(1, 2), New(1, 3)},
		{New(-3, 4), New(5, 7)},
		{New(0, 1), New(9, 11)},
		{New(22, 7), New(-1, 7)},
	}

	for _, c := range cases {
		for _, r := range []Rational{c.a.Add(c.b), c.a.Sub(c.b), c.a.Mul(c.b)} {
			assert.Greater(t, r.Den, int64(0), "denominator must stay positive")
			g := gcd(abs64(r.Num), r.Den)
			assert.Equal(t, int64(1), g, "result must be fully reduced")
		}

		if c.b.Num != 0 {
			r, err := c.a.Div(c.b)
			assert.NoError(t, err)
			assert.Greater(t, r.Den, int64(0))
		}
	}
}

func TestCmpIsExact(t *testing.T) {
	assert.True(t, New(1, 3).Less(New(1, 2)))
	assert.True(t, New(2, 4).Equal(New(1, 2)))
	assert.True(t, New(-1, 2).Less(Zero))
}

func TestFloorAndCycleIndex(t *testing.T) {
	assert.Equal(t, int64(2), New(5, 2).Floor())
	assert.Equal(t, int64(-2), New(-3, 2).Floor())
	assert.Equal(t, int64(3), CycleIndex(New(7, 2)))
}

func TestFromFloatPreservesOrdering(t *testing.T) {
	a := FromFloat(0.1)
	b := FromFloat(0.2)
	assert.True(t, a.Less(b))
	assert.InDelta(t, 0.1, a.Float(), 1e-6)
}

func TestSpanDurationAndMidpoint(t *testing.T) {
	s := NewSpan(Zero, One)
	assert.True(t, s.Duration().Equal(One))
	assert.True(t, s.Midpoint().Equal(New(1, 2)))
}

func TestSpanIntersect(t *testing.T) {
	a := NewSpan(Zero, New(3, 4))
	b := NewSpan(New(1, 2), FromInt(2))
	got, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.True(t, got.Begin.Equal(New(1, 2)))
	assert.True(t, got.End.Equal(New(3, 4)))

	_, ok = NewSpan(Zero, New(1, 4)).Intersect(NewSpan(New(1, 2), One))
	assert.False(t, ok)
}

func TestSpanCycles(t *testing.T) {
	spans := SpanCycles(NewSpan(New(1, 2), New(5, 2)))
	if assert.Len(t, spans, 3) {
		assert.True(t, spans[0].Begin.Equal(New(1, 2)))
		assert.True(t, spans[0].End.Equal(One))
		assert.True(t, spans[1].Begin.Equal(One))
		assert.True(t, spans[1].End.Equal(FromInt(2)))
		assert.True(t, spans[2].Begin.Equal(FromInt(2)))
		assert.True(t, spans[2].End.Equal(New(5, 2)))
	}
}
