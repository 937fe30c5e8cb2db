package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisefloor-audio/phonon-go/phonon/graph"
	"github.com/noisefloor-audio/phonon-go/phonon/node"
)

func sineGraph(t *testing.T, sr int, freq float32) *graph.Graph {
	t.Helper()
	g := graph.New(sr)
	osc := g.AddNode(node.NewOscillator(node.ShapeSine), []graph.Signal{graph.Val(freq)})
	g.SetOutput(osc)
	require.NoError(t, g.Build())
	return g
}

func TestRenderBlockProducesRequestedLength(t *testing.T) {
	g := sineGraph(t, 48000, 441)
	e := New(g, nil, nil)

	block := e.RenderBlock(512)
	assert.Len(t, block, 512)
}

func TestRenderBlockIsNotSilentForAnAudibleOscillator(t *testing.T) {
	g := sineGraph(t, 48000, 441)
	e := New(g, nil, nil)

	block := e.RenderBlock(1024)
	var maxAbs float32
	for _, v := range block {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}
	assert.Greater(t, maxAbs, float32(0.5))
}

func TestSetCPSDoesNotResetNodeState(t *testing.T) {
	g := sineGraph(t, 48000, 441)
	e := New(g, nil, nil)

	first := e.RenderBlock(100)
	e.SetCPS(2)
	second := e.RenderBlock(100)

	// the oscillator's phase accumulator must keep advancing smoothly;
	// a reset would restart it at phase 0, producing the same opening
	// sample as the very first block.
	assert.NotEqual(t, first[0], second[0])
}
