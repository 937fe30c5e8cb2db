// Package dsl implements the graph-expression surface language: named
// node definitions chained with '#', bus references with '~', and an
// 'out:' binding choosing the render root. Two-phase exactly like the
// teacher's disassembler (jeebie/disasm) tokenizes then interprets,
// here split into lex/parse (producing an AST) and Build (interpreting
// the AST into a phonon/graph.Graph).
package dsl

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokColon
	tokHash
	tokTilde
	tokLParen
	tokRParen
	tokComma
	tokNewline
)

type token struct {
	kind tokenKind
	text string
	pos  int
	line int
}

func (k tokenKind) String() string {
	names := map[tokenKind]string{
		tokEOF: "EOF", tokIdent: "ident", tokNumber: "number", tokString: "string",
		tokColon: ":", tokHash: "#", tokTilde: "~", tokLParen: "(", tokRParen: ")",
		tokComma: ",", tokNewline: "newline",
	}
	return names[k]
}
