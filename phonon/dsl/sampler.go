package dsl

import (
	"github.com/noisefloor-audio/phonon-go/phonon/bridge"
	"github.com/noisefloor-audio/phonon-go/phonon/graph"
	"github.com/noisefloor-audio/phonon-go/phonon/mini"
	"github.com/noisefloor-audio/phonon-go/phonon/node"
	"github.com/noisefloor-audio/phonon-go/phonon/pattern"
)

// paramPattern interprets a sampler argument as a float64 pattern: a
// bare number becomes a constant pattern, a string is parsed as
// mini-notation. Bus/node references aren't accepted here since a
// SampleEvent's params are sampled directly against cyclic time
// (phonon/bridge), not through the graph's per-sample Signal
// resolution that bus/node references depend on.
func (b *builder) paramPattern(call Call, i int, def float64) (pattern.Pattern[float64], error) {
	if i >= len(call.Args) {
		return pattern.Pure(def), nil
	}
	a := call.Args[i]
	switch a.Kind {
	case ArgNumber:
		return pattern.Pure(a.Num), nil
	case ArgString:
		p, err := mini.ParseNumeric(a.Text)
		if err != nil {
			return pattern.Pattern[float64]{}, &ErrPatternParse{Text: a.Text, Pos: a.Pos, Err: err}
		}
		return p, nil
	default:
		return pattern.Pattern[float64]{}, &ParseError{Pos: a.Pos, Msg: "sampler: argument must be a number or a pattern string, not a bus/node reference"}
	}
}

// buildSampler wires a bridge.SampleEvent into the shared VoiceManager
// and returns a node.Sampler that pulls its mix into the graph, so
// sample playback can be patched through the same effects chain as any
// synth voice (e.g. "s: sampler(\"bd sn\") # rlpf(800, 0.7)").
func buildSampler(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 7); err != nil {
		return nil, nil, err
	}
	if b.voices == nil {
		return nil, nil, &ParseError{Pos: call.Pos, Msg: "sampler: no voice manager configured for this build"}
	}
	if len(call.Args) == 0 || call.Args[0].Kind != ArgString {
		pos := call.Pos
		if len(call.Args) > 0 {
			pos = call.Args[0].Pos
		}
		return nil, nil, &ParseError{Pos: pos, Msg: "sampler: first argument must be a sample-name pattern string"}
	}

	names, err := mini.Parse(call.Args[0].Text)
	if err != nil {
		return nil, nil, &ErrPatternParse{Text: call.Args[0].Text, Pos: call.Args[0].Pos, Err: err}
	}

	gain, err := b.paramPattern(call, 1, 1)
	if err != nil {
		return nil, nil, err
	}
	pan, err := b.paramPattern(call, 2, 0)
	if err != nil {
		return nil, nil, err
	}
	speed, err := b.paramPattern(call, 3, 1)
	if err != nil {
		return nil, nil, err
	}
	cutGroup, err := b.paramPattern(call, 4, 0)
	if err != nil {
		return nil, nil, err
	}
	attack, err := b.paramPattern(call, 5, 0.001)
	if err != nil {
		return nil, nil, err
	}
	release, err := b.paramPattern(call, 6, 0.1)
	if err != nil {
		return nil, nil, err
	}

	params := bridge.Params{Gain: gain, Pan: pan, Speed: speed, CutGroup: cutGroup, Attack: attack, Release: release}
	ev := bridge.NewSampleEvent(names, params, b.voices)
	b.sampleEvents = append(b.sampleEvents, ev)

	return node.NewSampler(b.voices), nil, nil
}
