// Package graph implements the unified signal graph: a directed graph
// of per-sample DSP nodes whose parameter slots are a uniform Signal
// sum type, built once and evaluated one sample at a time by
// phonon/engine.
package graph

import (
	"log/slog"

	"github.com/noisefloor-audio/phonon-go/phonon/node"
)

// NodeID is a dense index into the graph's node vector.
type NodeID int

type entry struct {
	proc   node.Processor
	inputs []Signal
	out    float32
	in     node.Inputs // scratch buffer reused every Step, sized to inputs
}

// Graph owns the node vector, the bus table, the output root, and the
// transport. Each node's input scratch buffer is sized by AddNode (and
// re-sized by Build if the node's inputs changed), so Step reuses it
// rather than allocating one per sample. Step itself is not
// allocation-free: it creates a node.Context every sample, and every
// SignalPattern slot queries its pattern, which allocates.
type Graph struct {
	nodes     []*entry
	buses     map[string]NodeID
	output    NodeID
	hasOutput bool

	sr  int
	cps float64
	n   uint64

	order []NodeID
	dirty bool

	log *slog.Logger
}

// New creates an empty graph fixed at sample rate sr.
func New(sr int) *Graph {
	return &Graph{
		buses: make(map[string]NodeID),
		sr:    sr,
		cps:   1,
		dirty: true,
		log:   slog.Default().With("component", "graph"),
	}
}

// AddNode appends a processor with its resolved input slots and
// returns its dense id.
func (g *Graph) AddNode(proc node.Processor, inputs []Signal) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &entry{proc: proc, inputs: inputs, in: make(node.Inputs, len(inputs))})
	g.dirty = true
	return id
}

// AddBus registers name as an alias for id. A name may only be
// registered once.
func (g *Graph) AddBus(name string, id NodeID) error {
	if _, exists := g.buses[name]; exists {
		return &ErrDuplicateBus{Name: name}
	}
	g.buses[name] = id
	g.dirty = true
	return nil
}

// SetOutput chooses the graph's root node.
func (g *Graph) SetOutput(id NodeID) {
	g.output = id
	g.hasOutput = true
	g.dirty = true
}

// SetCPS updates the transport tempo. CPS may change between blocks;
// sample rate cannot change after construction.
func (g *Graph) SetCPS(cps float64) { g.cps = cps }

// SampleRate returns the graph's fixed sample rate.
func (g *Graph) SampleRate() int { return g.sr }

// NextSample returns the index n of the sample the next Step call will
// render: that Step covers the cyclic span [n, n+1)·cps/sr, the span
// phonon/bridge's sampleSpan(n) queries, and then leaves the transport
// counter at n+1. Engine-level bridges (phonon/bridge's SampleEvent and
// MIDIBridge, which are not themselves graph nodes) advance with this
// index so they stay in lockstep with the graph's own pattern slots.
func (g *Graph) NextSample() uint64 { return g.n }

// CPS returns the current transport tempo.
func (g *Graph) CPS() float64 { return g.cps }

// BusNames returns every registered bus name, for monitoring backends
// that want to display one meter per bus.
func (g *Graph) BusNames() []string {
	names := make([]string, 0, len(g.buses))
	for name := range g.buses {
		names = append(names, name)
	}
	return names
}

// BusValue returns the most recent value a named bus produced. Before
// the first Step call this is always 0.
func (g *Graph) BusValue(name string) (float32, bool) {
	id, ok := g.buses[name]
	if !ok {
		return 0, false
	}
	return g.nodes[id].out, true
}

// dfsColor marks DFS visitation state during Build's topo sort.
type dfsColor int

const (
	colorWhite dfsColor = iota
	colorGray
	colorBlack
)

// Build computes the topological evaluation order, validating bus
// references and rejecting cycles that do not pass through a
// feedback-breaking node. It must be called after the graph's
// structure is final and before the first Step.
func (g *Graph) Build() error {
	if !g.hasOutput {
		return ErrNoOutput
	}
	if err := g.checkBuses(); err != nil {
		return err
	}
	for _, e := range g.nodes {
		if len(e.in) != len(e.inputs) {
			e.in = make(node.Inputs, len(e.inputs))
		}
	}

	color := make([]dfsColor, len(g.nodes))
	var order []NodeID
	var stack []NodeID // nodes currently gray, outermost first
	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		color[id] = colorGray
		stack = append(stack, id)
		for _, dep := range g.deps(g.nodes[id].inputs) {
			switch color[dep] {
			case colorWhite:
				if err := visit(dep); err != nil {
					return err
				}
			case colorGray:
				// Back-edge: legal only if some node on the cycle
				// (dep ... id on the DFS stack) is a feedback breaker.
				// The edge is resolved at eval time by reading the
				// upstream node's previous-sample output instead of
				// forcing it to be computed first.
				breaker := false
				for j := len(stack) - 1; j >= 0 && !breaker; j-- {
					breaker = g.nodes[stack[j]].proc.ProvidesDelay()
					if stack[j] == dep {
						break
					}
				}
				if !breaker {
					return &ErrCycleWithoutDelay{Node: id}
				}
			case colorBlack:
				// already ordered
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = colorBlack
		order = append(order, id)
		return nil
	}

	if err := visit(g.output); err != nil {
		return err
	}
	g.order = order
	g.dirty = false
	g.log.Debug("graph built", "nodes", len(order))
	return nil
}

// checkBuses rejects registered buses that point outside the node
// vector and top-level input slots that name an unregistered bus. Bus
// names nested inside Expression arguments are not checked; they
// resolve to 0 at Step.
func (g *Graph) checkBuses() error {
	for name, id := range g.buses {
		if int(id) < 0 || int(id) >= len(g.nodes) {
			return &ErrBusUnresolved{Name: name}
		}
	}
	for _, e := range g.nodes {
		for _, s := range e.inputs {
			if s.Kind != SignalBus {
				continue
			}
			if _, ok := g.buses[s.Bus]; !ok {
				return &ErrBusUnresolved{Name: s.Bus}
			}
		}
	}
	return nil
}

// deps extracts the direct NodeID dependencies of a node's inputs,
// recursing into Expression trees; SignalPattern and SignalValue slots
// contribute no graph edges.
func (g *Graph) deps(inputs []Signal) []NodeID {
	var out []NodeID
	var walk func(s Signal)
	walk = func(s Signal) {
		switch s.Kind {
		case SignalNode:
			out = append(out, s.Node)
		case SignalBus:
			if id, ok := g.buses[s.Bus]; ok {
				out = append(out, id)
			}
		case SignalExpression:
			if s.Expr != nil {
				for _, a := range s.Expr.Args {
					walk(a)
				}
			}
		}
	}
	for _, s := range inputs {
		walk(s)
	}
	return out
}

// Step advances the transport by one sample and evaluates every node
// in topological order, returning the output node's sample.
//
// Nodes earlier in the order have already been recomputed this sample
// when a later node reads them, so Signal resolution naturally sees
// this-sample values for forward dependencies and the previous
// sample's value for any back-edge through a feedback breaker (its
// entry hasn't been overwritten yet this Step call).
func (g *Graph) Step() float32 {
	if g.dirty {
		return 0
	}
	g.n++
	cycle := float64(g.n) * g.cps / float64(g.sr)
	ctx := &node.Context{SampleRate: g.sr, N: g.n, CPS: g.cps, Cycle: cycle}

	for _, id := range g.order {
		e := g.nodes[id]
		for i, s := range e.inputs {
			e.in[i] = g.resolveSignal(s, ctx)
		}
		e.out = e.proc.Process(ctx, e.in)
	}

	return g.nodes[g.output].out
}

func (g *Graph) resolveSignal(s Signal, ctx *node.Context) float32 {
	switch s.Kind {
	case SignalValue:
		return s.Const
	case SignalNode:
		return g.nodes[s.Node].out
	case SignalBus:
		if id, ok := g.buses[s.Bus]; ok {
			return g.nodes[id].out
		}
		return 0
	case SignalExpression:
		return g.evalExpr(s.Expr, ctx)
	case SignalPattern:
		if s.Pattern == nil {
			return 0
		}
		v, _ := s.Pattern.ValueAt(g.n-1, g.sr, g.cps)
		return v
	default:
		return 0
	}
}

func (g *Graph) evalExpr(e *Expression, ctx *node.Context) float32 {
	if e == nil {
		return 0
	}
	switch e.Op {
	case ExprAdd:
		var sum float32
		for _, a := range e.Args {
			sum += g.resolveSignal(a, ctx)
		}
		return sum
	case ExprMultiply:
		if len(e.Args) == 0 {
			return 0
		}
		prod := g.resolveSignal(e.Args[0], ctx)
		for _, a := range e.Args[1:] {
			prod *= g.resolveSignal(a, ctx)
		}
		return prod
	case ExprScale:
		if len(e.Args) == 0 {
			return 0
		}
		v := g.resolveSignal(e.Args[0], ctx)
		return e.Min + v*(e.Max-e.Min)
	default:
		return 0
	}
}
