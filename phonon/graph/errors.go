package graph

import "fmt"

// ErrNoOutput is returned by Build when no output node was set.
var ErrNoOutput = fmt.Errorf("graph: no output node set")

// ErrBusUnresolved reports a Signal referencing a bus name with no
// registered node.
type ErrBusUnresolved struct{ Name string }

func (e *ErrBusUnresolved) Error() string {
	return fmt.Sprintf("graph: bus %q is not resolved", e.Name)
}

// ErrDuplicateBus reports a second AddBus call for the same name.
type ErrDuplicateBus struct{ Name string }

func (e *ErrDuplicateBus) Error() string {
	return fmt.Sprintf("graph: bus %q already registered", e.Name)
}

// ErrCycleWithoutDelay reports a graph cycle that does not pass
// through any node tagged ProvidesDelay() == true.
type ErrCycleWithoutDelay struct{ Node NodeID }

func (e *ErrCycleWithoutDelay) Error() string {
	return fmt.Sprintf("graph: cycle through node %d has no feedback-breaking node", e.Node)
}
