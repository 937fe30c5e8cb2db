package pattern

import "github.com/noisefloor-audio/phonon-go/phonon/rational"

// State is the input to a pattern query: the span of pattern time being
// asked about, plus an optional control environment. The control
// environment is unused by the core engine today but is threaded through
// so user-provided FMap callbacks can read ambient context if needed.
type State struct {
	Span     rational.TimeSpan
	Controls map[string]float64
}

// WithSpan returns a copy of the state with a different span.
func (s State) WithSpan(span rational.TimeSpan) State {
	return State{Span: span, Controls: s.Controls}
}
