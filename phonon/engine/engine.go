// Package engine is the scheduler/evaluator (spec §4.4): it owns the
// signal graph, the sample bank and voice pool, and the pattern-to-
// signal bridges, and drives them through the per-sample render loop.
// Grounded on the teacher's DMG/Emulator root type (jeebie/core.go,
// jeebie/emulator.go): a small owning struct plus a RunUntilFrame-style
// "render until I have N frames" method.
package engine

import (
	"log/slog"
	"sort"

	"github.com/noisefloor-audio/phonon-go/phonon/bridge"
	"github.com/noisefloor-audio/phonon-go/phonon/diag"
	"github.com/noisefloor-audio/phonon-go/phonon/graph"
	"github.com/noisefloor-audio/phonon-go/phonon/node"
	"github.com/noisefloor-audio/phonon-go/phonon/sample"
)

// Engine is the root scheduler: analogous to the teacher's DMG, it
// owns every stateful collaborator the render loop needs and exposes
// RenderBlock as its single entry point.
type Engine struct {
	graph  *graph.Graph
	bank   *sample.Bank
	voices *sample.VoiceManager
	diag   *diag.Counters

	sampleEvents []*bridge.SampleEvent
	midiBridges  []*bridge.MIDIBridge

	busNames []string
	busPeaks map[string]*diag.PeakTracker

	log *slog.Logger
}

// New builds an Engine around an already-populated graph (typically
// produced by phonon/dsl.Build). bank/voices may be nil if the graph
// has no Sampler nodes.
func New(g *graph.Graph, bank *sample.Bank, voices *sample.VoiceManager) *Engine {
	counters := &diag.Counters{}
	node.Anomalies = counters

	busNames := g.BusNames()
	sort.Strings(busNames)
	busPeaks := make(map[string]*diag.PeakTracker, len(busNames))
	for _, name := range busNames {
		busPeaks[name] = diag.NewPeakTracker(0.97)
	}

	return &Engine{
		graph:    g,
		bank:     bank,
		voices:   voices,
		diag:     counters,
		busNames: busNames,
		busPeaks: busPeaks,
		log:      slog.Default().With("component", "engine"),
	}
}

// Graph returns the underlying signal graph, for backends that need
// direct access (e.g. the terminal VU meter reading bus outputs).
func (e *Engine) Graph() *graph.Graph { return e.graph }

// Diagnostics returns the engine's anomaly counters.
func (e *Engine) Diagnostics() diag.Snapshot { return e.diag.Snapshot() }

// AddSampleEvent registers a pattern-to-sample-trigger bridge to be
// advanced alongside the render loop.
func (e *Engine) AddSampleEvent(se *bridge.SampleEvent) {
	e.sampleEvents = append(e.sampleEvents, se)
}

// AddMIDIBridge registers a pattern-to-MIDI bridge to be advanced
// alongside the render loop.
func (e *Engine) AddMIDIBridge(mb *bridge.MIDIBridge) {
	e.midiBridges = append(e.midiBridges, mb)
}

// SetCPS updates the transport tempo for the next RenderBlock call.
// Changing cps mid-render never resets node state (spec §8's "CPS
// change mid-render does not glitch state" coherence check): Step
// only ever reads the current cps when it resolves a Signal, so
// existing oscillator phases and filter memory carry over untouched.
func (e *Engine) SetCPS(cps float64) { e.graph.SetCPS(cps) }

// RenderBlock renders n samples and returns them as a flat mono
// buffer, advancing every registered bridge in lockstep with the
// graph's own transport.
func (e *Engine) RenderBlock(n int) []float32 {
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		sampleN := e.graph.NextSample()
		cps := e.graph.CPS()
		sr := e.graph.SampleRate()

		for _, se := range e.sampleEvents {
			se.Advance(sampleN, sr, cps)
		}
		for _, mb := range e.midiBridges {
			mb.Advance(sampleN, sr, cps)
		}

		out[i] = e.graph.Step()
		for _, name := range e.busNames {
			if v, ok := e.graph.BusValue(name); ok {
				e.busPeaks[name].Observe(v)
			}
		}
	}
	return out
}

// Status reports a snapshot of bus levels, voice usage, and anomaly
// counts for monitoring backends (phonon/backend/terminal's VU meter).
func (e *Engine) Status() diag.EngineStatus {
	buses := make([]diag.BusStatus, 0, len(e.busNames))
	for _, name := range e.busNames {
		last, _ := e.graph.BusValue(name)
		buses = append(buses, diag.BusStatus{Name: name, Last: last, Peak: e.busPeaks[name].Peak()})
	}

	used, free := 0, 0
	if e.voices != nil {
		used, free = e.voices.Usage()
	}

	return diag.EngineStatus{
		SampleRate: e.graph.SampleRate(),
		CPS:        e.graph.CPS(),
		Cycle:      float64(e.graph.NextSample()) * e.graph.CPS() / float64(e.graph.SampleRate()),
		VoicesUsed: used,
		VoicesFree: free,
		Buses:      buses,
		Anomalies:  e.diag.Snapshot(),
	}
}
