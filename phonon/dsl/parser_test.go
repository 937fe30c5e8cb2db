package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleChain(t *testing.T) {
	src := "osc: sine(440) # lowpass(800, 0.7)\nout: osc\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 1)
	assert.Equal(t, "osc", prog.Defs[0].Name)
	require.Len(t, prog.Defs[0].Chain, 2)
	assert.Equal(t, "sine", prog.Defs[0].Chain[0].Name)
	require.Len(t, prog.Defs[0].Chain[0].Args, 1)
	assert.Equal(t, ArgNumber, prog.Defs[0].Chain[0].Args[0].Kind)
	assert.Equal(t, 440.0, prog.Defs[0].Chain[0].Args[0].Num)
	assert.Equal(t, "lowpass", prog.Defs[0].Chain[1].Name)
	assert.Equal(t, "osc", prog.Out)
}

func TestParseIgnoresCommentsAndBlankLines(t *testing.T) {
	src := "// a patch\n\nosc: sine(220)\n\n// pick the root\nout: osc\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 1)
	assert.Equal(t, "osc", prog.Out)
}

func TestParseBusAndStringArgs(t *testing.T) {
	src := "lfo: sine(0.5)\nosc: sine(220) # lowpass(~lfo, 0.7)\ns: sampler(\"bd sn\")\nout: osc\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Defs, 3)

	cutoffArg := prog.Defs[1].Chain[1].Args[0]
	assert.Equal(t, ArgBus, cutoffArg.Kind)
	assert.Equal(t, "lfo", cutoffArg.Text)

	nameArg := prog.Defs[2].Chain[0].Args[0]
	assert.Equal(t, ArgString, nameArg.Kind)
	assert.Equal(t, "bd sn", nameArg.Text)
}

func TestParseNodeReferenceArg(t *testing.T) {
	src := "env: ar(1, 0.01, 0.2)\nosc: sine(220) # mul(env)\nout: osc\n"
	prog, err := Parse(src)
	require.NoError(t, err)
	arg := prog.Defs[1].Chain[1].Args[0]
	assert.Equal(t, ArgNode, arg.Kind)
	assert.Equal(t, "env", arg.Text)
}

func TestParseMissingColonReportsParseError(t *testing.T) {
	_, err := Parse("osc sine(440)\nout: osc\n")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseUnbalancedParenReportsParseError(t *testing.T) {
	_, err := Parse("osc: sine(440\nout: osc\n")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
