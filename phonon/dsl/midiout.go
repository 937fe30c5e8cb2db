package dsl

import (
	"github.com/noisefloor-audio/phonon-go/phonon/bridge"
	"github.com/noisefloor-audio/phonon-go/phonon/graph"
	"github.com/noisefloor-audio/phonon-go/phonon/mini"
	"github.com/noisefloor-audio/phonon-go/phonon/node"
)

func init() {
	registry["midiout"] = buildMIDIOut
}

// buildMIDIOut wires a bridge.MIDIBridge from a note-number pattern
// (and optional velocity pattern and channel) onto the build's shared
// MIDI output channel. It contributes no audio; the node it returns
// always outputs silence so it can still occupy a chain slot.
func buildMIDIOut(b *builder, call Call, chainIn graph.Signal) (node.Processor, []graph.Signal, error) {
	if err := checkArity(call, 1, 3); err != nil {
		return nil, nil, err
	}
	if b.midiOut == nil {
		return nil, nil, &ParseError{Pos: call.Pos, Msg: "midiout: no MIDI output channel configured for this build"}
	}
	if len(call.Args) == 0 || call.Args[0].Kind != ArgString {
		pos := call.Pos
		if len(call.Args) > 0 {
			pos = call.Args[0].Pos
		}
		return nil, nil, &ParseError{Pos: pos, Msg: "midiout: first argument must be a note-number pattern string"}
	}

	notes, err := mini.ParseNumeric(call.Args[0].Text)
	if err != nil {
		return nil, nil, &ErrPatternParse{Text: call.Args[0].Text, Pos: call.Args[0].Pos, Err: err}
	}

	velocity, err := b.paramPattern(call, 1, 100)
	if err != nil {
		return nil, nil, err
	}
	channel, err := b.literal(call, 2, 0)
	if err != nil {
		return nil, nil, err
	}

	mb := bridge.NewMIDIBridge(notes, velocity, uint8(channel), b.midiOut)
	b.midiBridges = append(b.midiBridges, mb)

	return node.Add{}, nil, nil
}
