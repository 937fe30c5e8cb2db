package node

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOscillatorSineProducesExpectedFrequency(t *testing.T) {
	const sr = 48000
	const freq = 441
	osc := NewOscillator(ShapeSine)
	ctx := &Context{SampleRate: sr}

	crossings := 0
	prev := float32(0)
	for i := 0; i < sr; i++ {
		v := osc.Process(ctx, Inputs{freq})
		if i > 0 && prev < 0 && v >= 0 {
			crossings++
		}
		prev = v
	}
	assert.InDelta(t, freq, crossings, 1)
}

func TestOscillatorSineStaysWithinUnitRange(t *testing.T) {
	osc := NewOscillator(ShapeSine)
	ctx := &Context{SampleRate: 48000}
	for i := 0; i < 48000; i++ {
		v := osc.Process(ctx, Inputs{220})
		assert.LessOrEqual(t, float64(v), 1.0+1e-6)
		assert.GreaterOrEqual(t, float64(v), -1.0-1e-6)
	}
}

func TestOscillatorZeroFrequencyHoldsPhase(t *testing.T) {
	osc := NewOscillator(ShapeSine)
	ctx := &Context{SampleRate: 48000}
	first := osc.Process(ctx, Inputs{0})
	second := osc.Process(ctx, Inputs{0})
	assert.Equal(t, first, second)
}

func TestNoiseWhiteStaysWithinUnitRange(t *testing.T) {
	n := NewNoise(12345, NoiseWhite)
	ctx := &Context{SampleRate: 48000}
	for i := 0; i < 1000; i++ {
		v := n.Process(ctx, nil)
		assert.LessOrEqual(t, float64(v), 1.0)
		assert.GreaterOrEqual(t, float64(v), -1.0)
	}
}

func TestFMOperatorModulatesCarrierPhase(t *testing.T) {
	fm := NewFMOperator()
	plain := NewOscillator(ShapeSine)
	ctx := &Context{SampleRate: 48000}

	var modulated, unmodulated float32
	for i := 0; i < 10; i++ {
		modulated = fm.Process(ctx, Inputs{440, 5, 2})
		unmodulated = plain.Process(ctx, Inputs{440, 0})
	}

	assert.NotEqual(t, modulated, unmodulated)
}

func TestAddSumsAllInputs(t *testing.T) {
	out := Add{}.Process(nil, Inputs{0.2, 0.3, 0.5})
	assert.InDelta(t, 1.0, out, 1e-6)
}

func TestMultiplyTakesProductOfInputs(t *testing.T) {
	out := Multiply{}.Process(nil, Inputs{2, 3, 0.5})
	assert.InDelta(t, 3.0, out, 1e-6)
}

func TestMultiplyWithNoInputsIsZero(t *testing.T) {
	out := Multiply{}.Process(nil, nil)
	assert.Equal(t, float32(0), out)
}

func TestScaleMapsUnitRangeToMinMax(t *testing.T) {
	s := Scale{Min: -12, Max: 12}
	assert.InDelta(t, -12.0, s.Process(nil, Inputs{0}), 1e-6)
	assert.InDelta(t, 0.0, s.Process(nil, Inputs{0.5}), 1e-6)
	assert.InDelta(t, 12.0, s.Process(nil, Inputs{1}), 1e-6)
}

func TestWhenGatesSignalByCondition(t *testing.T) {
	w := When{}
	assert.Equal(t, float32(0.8), w.Process(nil, Inputs{0.8, 1}))
	assert.Equal(t, float32(0), w.Process(nil, Inputs{0.8, 0}))
}

func TestTransientFiresOnceOnRisingEdge(t *testing.T) {
	tr := &Transient{}
	assert.Equal(t, float32(0), tr.Process(nil, Inputs{0.1, 0.5}))
	assert.Equal(t, float32(1), tr.Process(nil, Inputs{0.9, 0.5}))
	assert.Equal(t, float32(0), tr.Process(nil, Inputs{0.9, 0.5}))
}

func TestEnvelopeARRisesAndFallsWithGate(t *testing.T) {
	e := &Envelope{Mode: EnvModeAR}
	ctx := &Context{SampleRate: 1000}

	var peak float32
	for i := 0; i < 200; i++ {
		v := e.Process(ctx, Inputs{1, 0.05, 0, 1, 0.05})
		if v > peak {
			peak = v
		}
	}
	assert.InDelta(t, 1.0, peak, 0.01)
	require.Equal(t, EnvSustain, e.Stage)

	for i := 0; i < 5; i++ {
		e.Process(ctx, Inputs{0, 0.05, 0, 1, 0.05})
	}
	require.Equal(t, EnvRelease, e.Stage)

	// release is exponential (level -= dt*level/release each sample), so
	// fully reaching the idle snap-to-zero threshold takes many time
	// constants, not just one release period's worth of samples.
	var last float32
	for i := 0; i < 600; i++ {
		last = e.Process(ctx, Inputs{0, 0.05, 0, 1, 0.05})
	}
	assert.Equal(t, float32(0), last)
	assert.Equal(t, EnvIdle, e.Stage)
}

func TestEnvelopeInstantAttackReachesFullLevelImmediately(t *testing.T) {
	e := &Envelope{Mode: EnvModeAR}
	ctx := &Context{SampleRate: 48000}
	v := e.Process(ctx, Inputs{1, 0, 0, 1, 0.01})
	assert.Equal(t, float32(1), v)
}

func TestDelayProducesDecayingEchoTrain(t *testing.T) {
	const sr = 1000
	d := NewDelay(sr, 1)
	ctx := &Context{SampleRate: sr}

	delaySeconds := float32(0.1)
	feedback := float32(0.7)
	wet := float32(0.5)
	delaySamples := int(delaySeconds * sr)

	var outputs []float32
	for i := 0; i < delaySamples*4+1; i++ {
		x := float32(0)
		if i == 0 {
			x = 1
		}
		outputs = append(outputs, d.Process(ctx, Inputs{x, delaySeconds, feedback, wet}))
	}

	// the direct hit passes through dry at (1-wet)*1 and the first
	// full-amplitude echo lands at wet*1 (the delay line hasn't had a
	// chance to apply feedback yet); every echo after that decays by
	// exactly one factor of feedback.
	assert.InDelta(t, float64(1-wet), outputs[0], 1e-4)
	assert.InDelta(t, float64(wet), outputs[delaySamples], 1e-4)
	assert.InDelta(t, float64(wet*feedback), outputs[delaySamples*2], 1e-4)
	assert.InDelta(t, float64(wet*feedback*feedback), outputs[delaySamples*3], 1e-4)
}

func TestDelayClampsTimeBeyondMaximum(t *testing.T) {
	d := NewDelay(1000, 0.5)
	ctx := &Context{SampleRate: 1000}
	// a requested delay beyond maxSeconds must not panic or index out
	// of range; it clamps to the buffer's own maximum.
	out := d.Process(ctx, Inputs{1, 10, 0, 1})
	assert.False(t, math.IsNaN(float64(out)))
}

func TestClampFiniteSilencesNaNAndOverflow(t *testing.T) {
	assert.Equal(t, float32(0), clampFinite(float32(math.NaN())))
	assert.Equal(t, float32(0), clampFinite(2e9))
	assert.Equal(t, float32(0), clampFinite(-2e9))
	assert.Equal(t, float32(0.5), clampFinite(0.5))
}
