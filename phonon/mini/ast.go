package mini

import "github.com/noisefloor-audio/phonon-go/phonon/rational"

// expr is the internal mini-notation subtree built by the parser before
// any Pattern closures are constructed, matching Design Note §9's
// recommendation that mini-notation not pay per-query closure-building
// cost.
type expr interface{ isExpr() }

type leaf struct{ value string }
type rest struct{}

// seqItem is one slot of a whitespace sequence, carrying its own
// elongation weight (from trailing `_` or `@N`).
type seqItem struct {
	node   expr
	weight rational.Rational
}

// seq is a cat built from weighted slots.
type seq struct{ items []seqItem }

// stackExpr is `{a, b, ...}`: each part plays as its own polymeter voice
// against a base step count taken from the first part.
type stackExpr struct{ parts []seq }

// alt is `<a b c>`: one item per cycle (slowcat).
type alt struct{ items []seqItem }

// choice is `a|b|c`: one alternative chosen pseudo-randomly per cycle.
type choice struct{ items []expr }

type fastOp struct {
	base expr
	n    rational.Rational
}

type slowOp struct {
	base expr
	n    rational.Rational
}

type euclidOp struct {
	base    expr
	k, n, r int
}

func (leaf) isExpr()      {}
func (rest) isExpr()      {}
func (seq) isExpr()       {}
func (stackExpr) isExpr() {}
func (alt) isExpr()       {}
func (choice) isExpr()    {}
func (fastOp) isExpr()    {}
func (slowOp) isExpr()    {}
func (euclidOp) isExpr()  {}
