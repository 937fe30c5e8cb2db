package mini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisefloor-audio/phonon-go/phonon/rational"
)

func span(b, e int64) rational.TimeSpan {
	return rational.NewSpan(rational.FromInt(b), rational.FromInt(e))
}

func values(t *testing.T, src string, from, to int64) []string {
	t.Helper()
	p, err := Parse(src)
	require.NoError(t, err)
	haps := p.QuerySpan(span(from, to))
	out := make([]string, len(haps))
	for i, h := range haps {
		out[i] = h.Value
	}
	return out
}

func TestSequenceOfIdentifiers(t *testing.T) {
	assert.Equal(t, []string{"bd", "sn"}, values(t, "bd sn", 0, 1))
}

func TestRestYieldsNoHap(t *testing.T) {
	assert.Equal(t, []string{"bd"}, values(t, "bd ~", 0, 1))
}

func TestBracketGroupNests(t *testing.T) {
	// "bd [sn sn]" splits the cycle 1/2, 1/4, 1/4.
	p, err := Parse("bd [sn sn]")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	require.Len(t, haps, 3)
	assert.Equal(t, "bd", haps[0].Value)
	assert.True(t, haps[0].Part.Begin.Equal(rational.Zero))
	assert.True(t, haps[0].Part.End.Equal(rational.New(1, 2)))
	assert.Equal(t, "sn", haps[1].Value)
	assert.True(t, haps[1].Part.Begin.Equal(rational.New(1, 2)))
	assert.True(t, haps[1].Part.End.Equal(rational.New(3, 4)))
}

func TestAngleBracketsAlternatePerCycle(t *testing.T) {
	for cyc, want := range []string{"bd", "sn", "bd"} {
		got := values(t, "<bd sn>", int64(cyc), int64(cyc+1))
		require.Len(t, got, 1)
		assert.Equal(t, want, got[0])
	}
}

func TestPolymeterDifferentLengths(t *testing.T) {
	// {bd sn, hh hh hh} plays 2 base steps per cycle: the first part
	// cycles through its own 2 items once, the second marches through its
	// 3 items at the same step rate, wrapping mid-cycle.
	p, err := Parse("{bd sn, hh hh hh}")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	var bdsn, hihats int
	for _, h := range haps {
		if h.Value == "hh" {
			hihats++
		} else {
			bdsn++
		}
	}
	assert.Equal(t, 2, bdsn)
	assert.Equal(t, 2, hihats)
}

func TestElongationWidensSlot(t *testing.T) {
	// "bd@3 sn" gives bd 3/4 of the cycle and sn 1/4.
	p, err := Parse("bd@3 sn")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	require.Len(t, haps, 2)
	assert.True(t, haps[0].Part.Begin.Equal(rational.Zero))
	assert.True(t, haps[0].Part.End.Equal(rational.New(3, 4)))
	assert.True(t, haps[1].Part.Begin.Equal(rational.New(3, 4)))
	assert.True(t, haps[1].Part.End.Equal(rational.One))
}

func TestUnderscoreExtendsPreviousSlot(t *testing.T) {
	// "bd _ sn" is equivalent in weight terms to "bd@2 sn".
	p, err := Parse("bd _ sn")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	require.Len(t, haps, 2)
	assert.True(t, haps[0].Part.End.Equal(rational.New(2, 3)))
}

func TestSpeedModifiers(t *testing.T) {
	fast := values(t, "bd*2", 0, 1)
	assert.Equal(t, []string{"bd", "bd"}, fast)

	slow := values(t, "bd/2", 0, 2)
	assert.Equal(t, []string{"bd"}, slow)
}

func TestEuclideanModifierMasksSteps(t *testing.T) {
	p, err := Parse("bd(3,8)")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	assert.Len(t, haps, 3)
}

func TestChoiceOperatorPicksOneAlternative(t *testing.T) {
	p, err := Parse("bd|sn|hh")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	require.Len(t, haps, 1)
	assert.Contains(t, []string{"bd", "sn", "hh"}, haps[0].Value)
}

func TestParseNumericInterpretsTokensAsFloats(t *testing.T) {
	p, err := ParseNumeric("0.2 1 0.5")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	require.Len(t, haps, 3)
	assert.InDelta(t, 0.2, haps[0].Value, 1e-9)
	assert.InDelta(t, 1.0, haps[1].Value, 1e-9)
	assert.InDelta(t, 0.5, haps[2].Value, 1e-9)
}

func TestParseBoolInterpretsGateTokens(t *testing.T) {
	p, err := ParseBool("t f t")
	require.NoError(t, err)
	haps := p.QuerySpan(span(0, 1))
	require.Len(t, haps, 3)
	assert.True(t, haps[0].Value)
	assert.False(t, haps[1].Value)
	assert.True(t, haps[2].Value)
}

func TestUnbalancedBracketReportsParseError(t *testing.T) {
	_, err := Parse("bd [sn sn")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestEmptyGroupReportsParseError(t *testing.T) {
	_, err := Parse("[]")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestBadEuclidArgsReportsParseError(t *testing.T) {
	_, err := Parse("bd(3)")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestUnexpectedTokenReportsParseError(t *testing.T) {
	// A leading "_" has no preceding slot to extend.
	_, err := Parse("_")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}
