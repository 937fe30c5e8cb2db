package dsl

import (
	"log/slog"

	"github.com/noisefloor-audio/phonon-go/phonon/bridge"
	"github.com/noisefloor-audio/phonon-go/phonon/graph"
	"github.com/noisefloor-audio/phonon-go/phonon/midi"
	"github.com/noisefloor-audio/phonon-go/phonon/mini"
	"github.com/noisefloor-audio/phonon-go/phonon/sample"
)

// Deps carries the build's external collaborators. Bank/Voices may be
// nil if the program is known not to use sampler(); MIDIOut may be nil
// if it doesn't use midiout().
type Deps struct {
	Bank    *sample.Bank
	Voices  *sample.VoiceManager
	MIDIOut chan<- midi.Message
}

// Result is everything interpreting a Program produces: the built
// graph plus any pattern-to-signal bridges the engine must advance
// alongside it every sample. This extends the literal Build(prog)
// (*graph.Graph, error) shape with the side-channel bridges a
// sampler()/midiout() call registers, since those bridges are driven
// directly by phonon/engine rather than through the graph itself.
type Result struct {
	Graph        *graph.Graph
	SampleEvents []*bridge.SampleEvent
	MIDIBridges  []*bridge.MIDIBridge
}

type builder struct {
	g      *graph.Graph
	sr     int
	byName map[string]graph.NodeID

	noiseSeed uint32

	voices  *sample.VoiceManager
	midiOut chan<- midi.Message

	sampleEvents []*bridge.SampleEvent
	midiBridges  []*bridge.MIDIBridge

	log *slog.Logger
}

// Build interprets a parsed Program into a runnable Result at the
// given sample rate.
func Build(prog *Program, sr int, deps Deps) (*Result, error) {
	b := &builder{
		g:      graph.New(sr),
		sr:     sr,
		byName: make(map[string]graph.NodeID),
		voices: deps.Voices,
		midiOut: deps.MIDIOut,
		log:    slog.Default().With("component", "dsl"),
	}

	for _, def := range prog.Defs {
		if _, exists := b.byName[def.Name]; exists {
			return nil, &ErrDuplicateDefinition{Name: def.Name, Pos: def.Pos}
		}
		id, err := b.buildChain(def.Chain)
		if err != nil {
			return nil, err
		}
		b.byName[def.Name] = id
		if err := b.g.AddBus(def.Name, id); err != nil {
			return nil, err
		}
	}

	if prog.Out == "" {
		return nil, &ErrUndefinedBus{Name: "", Pos: prog.OutPos}
	}
	outID, ok := b.byName[prog.Out]
	if !ok {
		return nil, &ErrUndefinedBus{Name: prog.Out, Pos: prog.OutPos}
	}
	b.g.SetOutput(outID)

	if err := b.g.Build(); err != nil {
		return nil, err
	}

	b.log.Debug("dsl program built", "defs", len(prog.Defs), "out", prog.Out)
	return &Result{Graph: b.g, SampleEvents: b.sampleEvents, MIDIBridges: b.midiBridges}, nil
}

func (b *builder) buildChain(chain []Call) (graph.NodeID, error) {
	var chainIn graph.Signal
	var id graph.NodeID
	for _, call := range chain {
		nid, err := b.buildCall(call, chainIn)
		if err != nil {
			return 0, err
		}
		id = nid
		chainIn = graph.Ref(nid)
	}
	return id, nil
}

func (b *builder) buildCall(call Call, chainIn graph.Signal) (graph.NodeID, error) {
	fn, ok := registry[call.Name]
	if !ok {
		return 0, &ErrUnknownNode{Name: call.Name, Pos: call.Pos}
	}
	proc, inputs, err := fn(b, call, chainIn)
	if err != nil {
		return 0, err
	}
	return b.g.AddNode(proc, inputs), nil
}

// resolveArg turns a parsed Arg into a graph Signal: a number becomes a
// constant, a string is parsed as mini-notation and wrapped in a Held
// bridge, and a ~name or bareword name resolves against an
// already-built definition.
func (b *builder) resolveArg(a Arg) (graph.Signal, error) {
	switch a.Kind {
	case ArgNumber:
		return graph.Val(float32(a.Num)), nil
	case ArgString:
		p, err := mini.ParseNumeric(a.Text)
		if err != nil {
			return graph.Signal{}, &ErrPatternParse{Text: a.Text, Pos: a.Pos, Err: err}
		}
		return graph.Pat(bridge.NewHeld(p)), nil
	case ArgBus, ArgNode:
		id, ok := b.byName[a.Text]
		if !ok {
			return graph.Signal{}, &ErrUndefinedBus{Name: a.Text, Pos: a.Pos}
		}
		return graph.Ref(id), nil
	default:
		return graph.Signal{}, &ParseError{Pos: a.Pos, Msg: "unrecognized argument"}
	}
}
