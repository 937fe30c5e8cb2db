// Package integration drives the engine end to end through
// phonon/dsl, the way cmd/phonon itself would, covering the testable
// scenarios of the cross-package contract rather than any single
// package's unit behavior.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noisefloor-audio/phonon-go/phonon/dsl"
	"github.com/noisefloor-audio/phonon-go/phonon/engine"
	"github.com/noisefloor-audio/phonon-go/phonon/graph"
	"github.com/noisefloor-audio/phonon-go/phonon/mini"
	"github.com/noisefloor-audio/phonon-go/phonon/node"
	"github.com/noisefloor-audio/phonon-go/phonon/rational"
	"github.com/noisefloor-audio/phonon-go/phonon/sample"
)

func build(t *testing.T, src string, sr int) *engine.Engine {
	t.Helper()
	prog, err := dsl.Parse(src)
	require.NoError(t, err)
	result, err := dsl.Build(prog, sr, dsl.Deps{})
	require.NoError(t, err)
	e := engine.New(result.Graph, nil, nil)
	for _, se := range result.SampleEvents {
		e.AddSampleEvent(se)
	}
	for _, mb := range result.MIDIBridges {
		e.AddMIDIBridge(mb)
	}
	return e
}

// Scenario A: silence when muted.
func TestSilenceWhenMuted(t *testing.T) {
	e := build(t, "silent: add(0)\nout: silent\n", 44100)
	block := e.RenderBlock(1000)
	for i, v := range block {
		require.Equalf(t, float32(0), v, "sample %d not silent", i)
	}
}

// Scenario B: a 441 Hz sine crosses zero roughly 882 times per second
// and never exceeds unit amplitude.
func TestSineAt441Hz(t *testing.T) {
	const sr = 44100
	e := build(t, "tone: sine(441)\nout: tone\n", sr)
	block := e.RenderBlock(sr)

	crossings := 0
	var peak float32
	for i := 1; i < len(block); i++ {
		if (block[i-1] < 0) != (block[i] < 0) {
			crossings++
		}
		if abs32(block[i]) > peak {
			peak = abs32(block[i])
		}
	}
	assert.InDelta(t, 882, crossings, 1)
	assert.LessOrEqual(t, float64(peak), 1.0+1e-6)
}

// Scenario C: the Euclidean rhythm "bd(3,8)" produces exactly 3
// onsets in its first cycle, at the canonical Björklund positions.
func TestEuclideanRhythmCardinality(t *testing.T) {
	p, err := mini.Parse("bd(3,8)")
	require.NoError(t, err)

	cycle := rational.NewSpan(rational.FromInt(0), rational.FromInt(1))
	haps := p.QuerySpan(cycle)

	var onsets []rational.Rational
	for _, h := range haps {
		if h.HasOnset() {
			onsets = append(onsets, h.Part.Begin)
		}
	}
	require.Len(t, onsets, 3)

	want := []rational.Rational{
		rational.New(0, 8),
		rational.New(3, 8),
		rational.New(6, 8),
	}
	for i, w := range want {
		assert.Truef(t, onsets[i].Equal(w), "onset %d: got %v, want %v", i, onsets[i], w)
	}
}

// Scenario D (adapted): a carrier's amplitude is driven by a two-step
// gain pattern; the rendered buffer's two halves should carry
// peak amplitudes in the same ratio as the pattern's two steps. The
// spec illustrates this with sample playback ("bd bd" with a gain
// pattern); an oscillator exercises the same pattern-to-signal-gain
// path without depending on WAV sample assets, which are out of this
// repository's scope (spec §1).
func TestGainPatternAudibility(t *testing.T) {
	const sr = 44100
	const cps = 2
	src := "tone: sine(880)\ngained: mul(tone, \"0.2 1.0\")\nout: gained\n"
	e := build(t, src, sr)
	e.SetCPS(cps)

	block := e.RenderBlock(sr / 2) // one full cycle at cps=2
	half := len(block) / 2

	peak := func(s []float32) float32 {
		var m float32
		for _, v := range s {
			if abs32(v) > m {
				m = abs32(v)
			}
		}
		return m
	}

	firstPeak := peak(block[:half])
	secondPeak := peak(block[half:])
	require.Greater(t, secondPeak, float32(0))

	ratio := firstPeak / secondPeak
	assert.InDelta(t, 0.2, ratio, 0.04)
}

// Scenario E: an impulse through a delay line produces an echo train
// decaying by the feedback coefficient each round trip, confirmed
// directly against phonon/graph/phonon/node rather than through the
// DSL (delay's construction-time max-seconds argument and per-sample
// time/feedback/mix arguments are already covered by phonon/dsl's own
// tests; this exercises the same node wired by hand, the way an
// engine-level consumer would).
func TestDelayEchoPresence(t *testing.T) {
	const sr = 1000
	g := graph.New(sr)
	impulse := g.AddNode(&impulseOnce{}, nil)
	delayID := g.AddNode(node.NewDelay(sr, 1), []graph.Signal{
		graph.Ref(impulse), graph.Val(0.1), graph.Val(0.7), graph.Val(0.5),
	})
	g.SetOutput(delayID)
	require.NoError(t, g.Build())

	const delaySamples = 100
	var outputs []float32
	for i := 0; i < delaySamples*3+1; i++ {
		outputs = append(outputs, g.Step())
	}

	assert.InDelta(t, 0.5, outputs[delaySamples], 0.01)
	assert.InDelta(t, 0.5*0.7, outputs[delaySamples*2], 0.01)
	assert.InDelta(t, 0.5*0.7*0.7, outputs[delaySamples*3], 0.01)
}

// impulseOnce emits 1.0 on the graph's first evaluated sample and 0
// thereafter, a minimal Processor used only to drive the delay test.
type impulseOnce struct{}

func (impulseOnce) ProvidesDelay() bool { return false }
func (impulseOnce) Process(ctx *node.Context, in node.Inputs) float32 {
	if ctx.N == 1 {
		return 1
	}
	return 0
}

// Scenario F: triggering a second voice in the same cut group silences
// the first within a handful of milliseconds. The cutting voice plays
// a silent sample so the rendered mix isolates the first voice's own
// release tail rather than also carrying the second voice's attack.
func TestCutGroupStopsPreviousVoice(t *testing.T) {
	bank := sample.NewBank(func(name string) ([]float32, error) {
		buf := make([]float32, 10000)
		if name == "hh" {
			for i := range buf {
				buf[i] = 1
			}
		}
		return buf, nil
	})
	vm := sample.NewVoiceManager(bank)
	ctx := &node.Context{SampleRate: 1000}

	vm.Trigger("hh", 1, 0, 1, 1, 0.001, 0.5)
	// let the envelope reach full amplitude before cutting it
	for i := 0; i < 20; i++ {
		vm.RenderSample(ctx)
	}
	preCut := vm.RenderSample(ctx)
	require.Greater(t, preCut, float32(0.9))

	vm.Trigger("silent", 1, 0, 1, 1, 0.001, 0.5)
	var last float32
	for i := 0; i < 55; i++ {
		last = vm.RenderSample(ctx)
	}
	assert.Less(t, last, preCut*0.01)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
