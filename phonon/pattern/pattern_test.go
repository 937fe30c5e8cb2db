package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisefloor-audio/phonon-go/phonon/rational"
)

func span(b, e int64) rational.TimeSpan {
	return rational.NewSpan(rational.FromInt(b), rational.FromInt(e))
}

func spanF(b, e float64) rational.TimeSpan {
	return rational.NewSpan(rational.FromFloat(b), rational.FromFloat(e))
}

func TestPureOneHapPerCycle(t *testing.T) {
	p := Pure(1)
	haps := p.QuerySpan(span(0, 3))
	require.Len(t, haps, 3)
	for _, h := range haps {
		assert.Equal(t, 1, h.Value)
		assert.True(t, h.HasOnset())
	}
}

func TestSilenceYieldsNoHaps(t *testing.T) {
	p := Silence[int]()
	assert.Empty(t, p.QuerySpan(span(0, 10)))
}

func TestSpanContainment(t *testing.T) {
	// Invariant 2: every returned hap's Part is a subset of the query span.
	patterns := []Pattern[string]{
		Pure("a"),
		Fast(Pure("a"), rational.FromInt(3)),
		Slow(Pure("a"), rational.FromInt(2)),
		Rev(Cat(Pure("a"), Pure("b"), Pure("c"))),
		EuclidMask(Pure("a"), 3, 8, 0),
		Stack(Pure("a"), Pure("b")),
	}
	queries := []rational.TimeSpan{
		span(0, 1), span(0, 4), spanF(0.25, 1.75), span(2, 2), spanF(0.1, 0.9),
	}
	for _, p := range patterns {
		for _, q := range queries {
			for _, h := range p.QuerySpan(q) {
				sub := h.Part.Subset(q)
				assert.True(t, sub, "part %v must be subset of query %v", h.Part, q)
				if h.Whole != nil {
					assert.True(t, h.Part.Subset(*h.Whole), "part must be subset of whole")
				}
			}
		}
	}
}

func TestEuclidPulseCount(t *testing.T) {
	// Invariant 3: euclid(k,n,r) yields exactly k active haps over one cycle.
	for k := 0; k <= 8; k++ {
		p := EuclidPattern(k, 8, 0)
		haps := p.QuerySpan(span(0, 1))
		count := 0
		for _, h := range haps {
			if h.Value {
				count++
			}
		}
		assert.Equal(t, k, count, "k=%d", k)
	}
}

func TestEuclid3_8KnownOnsets(t *testing.T) {
	mask := Euclid(3, 8, 0)
	require.Len(t, mask, 8)
	var onsets []int
	for i, v := range mask {
		if v {
			onsets = append(onsets, i)
		}
	}
	assert.Equal(t, []int{0, 3, 6}, onsets)
}

func TestFastSlowRoundTrip(t *testing.T) {
	// Invariant 4: fast k . slow k == id on event value sequences.
	base := Cat(Pure("a"), Pure("b"), Pure("c"), Pure("d"))
	k := rational.FromInt(3)
	roundTrip := Slow(Fast(base, k), k)

	want := base.QuerySpan(span(0, 4))
	got := roundTrip.QuerySpan(span(0, 4))
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Value, got[i].Value)
		assert.True(t, want[i].Part.Begin.Equal(got[i].Part.Begin))
		assert.True(t, want[i].Part.End.Equal(got[i].Part.End))
	}
}

func TestStackCommutativity(t *testing.T) {
	// Invariant 5: stack(ps) as a multiset equals stack(reverse(ps)).
	a, b, c := Pure("x"), Pure("y"), Pure("z")
	forward := Stack(a, b, c).QuerySpan(span(0, 2))
	backward := Stack(c, b, a).QuerySpan(span(0, 2))

	count := func(haps []Hap[string]) map[string]int {
		m := map[string]int{}
		for _, h := range haps {
			m[h.Value]++
		}
		return m
	}
	assert.Equal(t, count(forward), count(backward))
}

func TestRevPerCycle(t *testing.T) {
	p := Cat(Pure("a"), Pure("b"))
	rev := Rev(p)
	haps := rev.QuerySpan(span(0, 1))
	require.Len(t, haps, 2)
	byValue := map[string]rational.TimeSpan{}
	for _, h := range haps {
		byValue[h.Value] = h.Part
	}
	// a occupied [0, 1/2) before reversal, so after per-cycle reversal it
	// should occupy [1/2, 1).
	assert.True(t, byValue["a"].Begin.Equal(rational.New(1, 2)))
	assert.True(t, byValue["b"].Begin.Equal(rational.Zero))
}

func TestEveryAppliesOnNthCycle(t *testing.T) {
	p := Pure("x")
	transformed := Every(p, 2, func(pp Pattern[string]) Pattern[string] {
		return Fmap(pp, func(string) string { return "y" })
	})
	h0 := transformed.QuerySpan(span(0, 1))
	h1 := transformed.QuerySpan(span(1, 2))
	require.Len(t, h0, 1)
	require.Len(t, h1, 1)
	assert.Equal(t, "y", h0[0].Value)
	assert.Equal(t, "x", h1[0].Value)
}

func TestSlowCatOnePatternPerCycle(t *testing.T) {
	p := SlowCat(Pure("a"), Pure("b"), Pure("c"))
	for cyc, want := range []string{"a", "b", "c", "a"} {
		haps := p.QuerySpan(span(int64(cyc), int64(cyc+1)))
		require.Len(t, haps, 1)
		assert.Equal(t, want, haps[0].Value)
	}
}

func TestDegradeIsIdempotentPerQuery(t *testing.T) {
	base := Cat(Pure(1), Pure(2), Pure(3), Pure(4), Pure(5), Pure(6), Pure(7), Pure(8))
	degraded := Degrade(base, 42)
	a := degraded.QuerySpan(span(0, 1))
	b := degraded.QuerySpan(span(0, 1))
	assert.Equal(t, a, b)
	assert.Less(t, len(a), 8)
}
