package dsl

import (
	"strconv"

	"github.com/noisefloor-audio/phonon-go/phonon/graph"
	"github.com/noisefloor-audio/phonon-go/phonon/node"
)

// buildFunc constructs one node from a parsed Call. chainIn is the
// upstream signal for effect-style calls (the previous entry in the
// same chain, or a silent Val(0) for the first call); generator-style
// calls simply ignore it.
type buildFunc func(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error)

// registry maps a call name to its builder. Per-variant names (sine,
// saw, lowpass, onepolelp, ...) stand in for a generic type-selector
// argument, since several of the catalog's construction-time fields
// (Biquad.Type, OnePole.HighPass, Scale.Min/Max) cannot be wired as
// per-sample Signals anyway.
var registry = map[string]buildFunc{
	"sine":     oscBuilder(node.ShapeSine),
	"saw":      oscBuilder(node.ShapeSaw),
	"square":   oscBuilder(node.ShapeSquare),
	"triangle": oscBuilder(node.ShapeTriangle),
	"fm":       buildFM,

	"whitenoise": noiseBuilder(node.NoiseWhite),
	"pinknoise":  noiseBuilder(node.NoisePink),
	"brownnoise": noiseBuilder(node.NoiseBrown),

	"karplus": buildKarplus,

	"rlpf":      buildRLPF,
	"lowpass":   biquadBuilder(node.BiquadLowPass),
	"highpass":  biquadBuilder(node.BiquadHighPass),
	"bandpass":  biquadBuilder(node.BiquadBandPass),
	"onepolelp": onePoleBuilder(false),
	"onepolehp": onePoleBuilder(true),

	"envelope": buildEnvelope,
	"ar":       buildAR,

	"delay":   buildDelay,
	"chorus":  buildChorus,
	"flanger": buildFlanger,

	"pitchshift": buildPitchShift,
	"resample":   buildResample,

	"bitcrush":   buildBitcrush,
	"distortion": buildDistortion,
	"formant":    buildFormant,

	"hilberti": buildHilbertI,
	"hilbertq": buildHilbertQ,
	"widener":  buildWidener,

	"reverbdattorro": buildReverbDattorro,
	"reverblush":     buildReverbLush,

	"rms": buildRMS,

	"add":   buildAdd,
	"mul":   buildMultiply,
	"scale": buildScale,
	"when":  buildWhen,

	"transient": buildTransient,

	"sampler": buildSampler,
}

func checkArity(call Call, min, max int) error {
	n := len(call.Args)
	if n < min || (max >= 0 && n > max) {
		return &ErrArityMismatch{Name: call.Name, Got: n, Min: min, Max: max, Pos: call.Pos}
	}
	return nil
}

// arg resolves call.Args[i] as a Signal, defaulting to a silent
// constant if the argument wasn't supplied (used for trailing optional
// per-sample args, e.g. an oscillator's phase-modulation input).
func (b *builder) arg(call Call, i int, def float32) (graph.Signal, error) {
	if i >= len(call.Args) {
		return graph.Val(def), nil
	}
	return b.resolveArg(call.Args[i])
}

// literal requires call.Args[i], if present, to be a bare number: it
// backs a node's construction-time field (Biquad.Type selection aside,
// things like Delay's buffer size or Noise's seed) which cannot be a
// per-sample Signal.
func (b *builder) literal(call Call, i int, def float64) (float64, error) {
	if i >= len(call.Args) {
		return def, nil
	}
	a := call.Args[i]
	if a.Kind != ArgNumber {
		return 0, &ParseError{Pos: a.Pos, Msg: call.Name + ": argument " + strconv.Itoa(i+1) + " must be a numeric literal"}
	}
	return a.Num, nil
}

func oscBuilder(shape node.OscShape) buildFunc {
	return func(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
		if err := checkArity(call, 1, 2); err != nil {
			return nil, nil, err
		}
		freq, err := b.arg(call, 0, 0)
		if err != nil {
			return nil, nil, err
		}
		pm, err := b.arg(call, 1, 0)
		if err != nil {
			return nil, nil, err
		}
		return node.NewOscillator(shape), []graph.Signal{freq, pm}, nil
	}
}

func buildFM(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 3, 3); err != nil {
		return nil, nil, err
	}
	carrier, err := b.arg(call, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	mod, err := b.arg(call, 1, 0)
	if err != nil {
		return nil, nil, err
	}
	index, err := b.arg(call, 2, 0)
	if err != nil {
		return nil, nil, err
	}
	return node.NewFMOperator(), []graph.Signal{carrier, mod, index}, nil
}

func noiseBuilder(color node.NoiseColor) buildFunc {
	return func(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
		if err := checkArity(call, 0, 0); err != nil {
			return nil, nil, err
		}
		b.noiseSeed++
		return node.NewNoise(b.noiseSeed*0x9E3779B9+1, color), nil, nil
	}
}

func buildKarplus(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 2, 4); err != nil {
		return nil, nil, err
	}
	trig, err := b.arg(call, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	freq, err := b.arg(call, 1, 110)
	if err != nil {
		return nil, nil, err
	}
	decay, err := b.arg(call, 2, 0.98)
	if err != nil {
		return nil, nil, err
	}
	minFreq, err := b.literal(call, 3, 40)
	if err != nil {
		return nil, nil, err
	}
	return node.NewKarplus(b.sr, float32(minFreq)), []graph.Signal{trig, freq, decay}, nil
}

func biquadBuilder(t node.BiquadType) buildFunc {
	return func(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
		if err := checkArity(call, 1, 2); err != nil {
			return nil, nil, err
		}
		cutoff, err := b.arg(call, 0, 1000)
		if err != nil {
			return nil, nil, err
		}
		q, err := b.arg(call, 1, 0.707)
		if err != nil {
			return nil, nil, err
		}
		return &node.Biquad{Type: t}, []graph.Signal{chainIn, cutoff, q}, nil
	}
}

func onePoleBuilder(highPass bool) buildFunc {
	return func(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
		if err := checkArity(call, 1, 1); err != nil {
			return nil, nil, err
		}
		cutoff, err := b.arg(call, 0, 1000)
		if err != nil {
			return nil, nil, err
		}
		return &node.OnePole{HighPass: highPass}, []graph.Signal{chainIn, cutoff}, nil
	}
}

func buildRLPF(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 2); err != nil {
		return nil, nil, err
	}
	cutoff, err := b.arg(call, 0, 1000)
	if err != nil {
		return nil, nil, err
	}
	res, err := b.arg(call, 1, 0)
	if err != nil {
		return nil, nil, err
	}
	return node.NewRLPF(), []graph.Signal{chainIn, cutoff, res}, nil
}

func buildEnvelope(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 5, 5); err != nil {
		return nil, nil, err
	}
	sigs := make([]graph.Signal, 5)
	defs := [5]float32{0, 0.01, 0.1, 0.8, 0.2}
	for i := range sigs {
		s, err := b.arg(call, i, defs[i])
		if err != nil {
			return nil, nil, err
		}
		sigs[i] = s
	}
	return &node.Envelope{Mode: node.EnvModeADSR}, sigs, nil
}

func buildAR(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 3, 3); err != nil {
		return nil, nil, err
	}
	gate, err := b.arg(call, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	attack, err := b.arg(call, 1, 0.01)
	if err != nil {
		return nil, nil, err
	}
	release, err := b.arg(call, 2, 0.2)
	if err != nil {
		return nil, nil, err
	}
	return &node.Envelope{Mode: node.EnvModeAR}, []graph.Signal{gate, attack, graph.Val(0), graph.Val(1), release}, nil
}

func buildDelay(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 3, 4); err != nil {
		return nil, nil, err
	}
	time, err := b.arg(call, 0, 0.25)
	if err != nil {
		return nil, nil, err
	}
	feedback, err := b.arg(call, 1, 0.3)
	if err != nil {
		return nil, nil, err
	}
	mix, err := b.arg(call, 2, 0.4)
	if err != nil {
		return nil, nil, err
	}
	maxSec, err := b.literal(call, 3, 2)
	if err != nil {
		return nil, nil, err
	}
	return node.NewDelay(b.sr, float32(maxSec)), []graph.Signal{chainIn, time, feedback, mix}, nil
}

func buildChorus(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 3, 4); err != nil {
		return nil, nil, err
	}
	base, err := b.arg(call, 0, 15)
	if err != nil {
		return nil, nil, err
	}
	depth, err := b.arg(call, 1, 5)
	if err != nil {
		return nil, nil, err
	}
	mix, err := b.arg(call, 2, 0.5)
	if err != nil {
		return nil, nil, err
	}
	rate, err := b.literal(call, 3, 0.5)
	if err != nil {
		return nil, nil, err
	}
	return node.NewChorus(b.sr, rate), []graph.Signal{chainIn, base, depth, mix}, nil
}

func buildFlanger(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 3, 4); err != nil {
		return nil, nil, err
	}
	depth, err := b.arg(call, 0, 3)
	if err != nil {
		return nil, nil, err
	}
	feedback, err := b.arg(call, 1, 0.5)
	if err != nil {
		return nil, nil, err
	}
	mix, err := b.arg(call, 2, 0.5)
	if err != nil {
		return nil, nil, err
	}
	rate, err := b.literal(call, 3, 0.2)
	if err != nil {
		return nil, nil, err
	}
	return node.NewFlanger(b.sr, rate), []graph.Signal{chainIn, depth, feedback, mix}, nil
}

func buildPitchShift(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 2); err != nil {
		return nil, nil, err
	}
	semitones, err := b.arg(call, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	window, err := b.arg(call, 1, 60)
	if err != nil {
		return nil, nil, err
	}
	return node.NewPitchShifter(b.sr), []graph.Signal{chainIn, semitones, window}, nil
}

func buildResample(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 1); err != nil {
		return nil, nil, err
	}
	ratio, err := b.arg(call, 0, 1)
	if err != nil {
		return nil, nil, err
	}
	return node.NewResampler(b.sr), []graph.Signal{chainIn, ratio}, nil
}

func buildBitcrush(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 2, 2); err != nil {
		return nil, nil, err
	}
	factor, err := b.arg(call, 0, 1)
	if err != nil {
		return nil, nil, err
	}
	bits, err := b.arg(call, 1, 16)
	if err != nil {
		return nil, nil, err
	}
	return &node.Bitcrush{}, []graph.Signal{chainIn, factor, bits}, nil
}

func buildDistortion(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 2, 2); err != nil {
		return nil, nil, err
	}
	drive, err := b.arg(call, 0, 1)
	if err != nil {
		return nil, nil, err
	}
	mix, err := b.arg(call, 1, 1)
	if err != nil {
		return nil, nil, err
	}
	return node.Distortion{}, []graph.Signal{chainIn, drive, mix}, nil
}

func buildFormant(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 2, 2); err != nil {
		return nil, nil, err
	}
	pos, err := b.arg(call, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	intensity, err := b.arg(call, 1, 1)
	if err != nil {
		return nil, nil, err
	}
	return node.NewFormant(), []graph.Signal{chainIn, pos, intensity}, nil
}

func buildHilbertI(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 0, 0); err != nil {
		return nil, nil, err
	}
	return node.NewHilbertI(), []graph.Signal{chainIn}, nil
}

func buildHilbertQ(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 0, 0); err != nil {
		return nil, nil, err
	}
	return node.NewHilbertQ(), []graph.Signal{chainIn}, nil
}

func buildWidener(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 1); err != nil {
		return nil, nil, err
	}
	width, err := b.arg(call, 0, 0.5)
	if err != nil {
		return nil, nil, err
	}
	return node.NewWidener(), []graph.Signal{chainIn, width}, nil
}

func buildReverbDattorro(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 2, 2); err != nil {
		return nil, nil, err
	}
	damping, err := b.arg(call, 0, 0.5)
	if err != nil {
		return nil, nil, err
	}
	mix, err := b.arg(call, 1, 0.3)
	if err != nil {
		return nil, nil, err
	}
	return node.NewReverbDattorro(b.sr), []graph.Signal{chainIn, damping, mix}, nil
}

func buildReverbLush(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 3, 3); err != nil {
		return nil, nil, err
	}
	decay, err := b.arg(call, 0, 0.5)
	if err != nil {
		return nil, nil, err
	}
	damping, err := b.arg(call, 1, 0.3)
	if err != nil {
		return nil, nil, err
	}
	mix, err := b.arg(call, 2, 0.3)
	if err != nil {
		return nil, nil, err
	}
	return node.NewReverbLush(b.sr), []graph.Signal{chainIn, decay, damping, mix}, nil
}

func buildRMS(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 0, 1); err != nil {
		return nil, nil, err
	}
	win, err := b.arg(call, 0, 0.05)
	if err != nil {
		return nil, nil, err
	}
	return node.NewRMS(), []graph.Signal{chainIn, win}, nil
}

func buildAdd(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, -1); err != nil {
		return nil, nil, err
	}
	sigs := make([]graph.Signal, len(call.Args))
	for i := range call.Args {
		s, err := b.arg(call, i, 0)
		if err != nil {
			return nil, nil, err
		}
		sigs[i] = s
	}
	return node.Add{}, sigs, nil
}

func buildMultiply(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, -1); err != nil {
		return nil, nil, err
	}
	sigs := make([]graph.Signal, len(call.Args))
	for i := range call.Args {
		s, err := b.arg(call, i, 1)
		if err != nil {
			return nil, nil, err
		}
		sigs[i] = s
	}
	return node.Multiply{}, sigs, nil
}

func buildScale(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 2, 2); err != nil {
		return nil, nil, err
	}
	min, err := b.literal(call, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	max, err := b.literal(call, 1, 1)
	if err != nil {
		return nil, nil, err
	}
	return node.Scale{Min: float32(min), Max: float32(max)}, []graph.Signal{chainIn}, nil
}

func buildWhen(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 1); err != nil {
		return nil, nil, err
	}
	cond, err := b.arg(call, 0, 0)
	if err != nil {
		return nil, nil, err
	}
	return node.When{}, []graph.Signal{chainIn, cond}, nil
}

func buildTransient(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 1); err != nil {
		return nil, nil, err
	}
	threshold, err := b.arg(call, 0, 0.5)
	if err != nil {
		return nil, nil, err
	}
	return &node.Transient{}, []graph.Signal{chainIn, threshold}, nil
}
