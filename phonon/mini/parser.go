package mini

import (
	"strconv"

	"github.com/noisefloor-audio/phonon-go/phonon/rational"
)

type parser struct {
	toks []token
	pos  int
}

func parse(src string) (expr, error) {
	p := &parser{toks: lex(src)}
	e, err := p.parseAlternatives(stopSet(tokEOF))
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, errUnexpectedToken(p.cur().pos, p.cur().text)
	}
	return e, nil
}

func stopSet(kinds ...tokenKind) map[tokenKind]bool {
	m := make(map[tokenKind]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance()    { p.pos++ }
func (p *parser) peekAt(o int) token {
	if p.pos+o >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+o]
}

// parseAlternatives parses one or more `|`-separated sequences, stopping
// at any token kind in stop. A single alternative collapses to its bare
// sequence rather than a one-element choice.
func (p *parser) parseAlternatives(stop map[tokenKind]bool) (expr, error) {
	var alts []expr
	for {
		s, err := p.parseSequence(mergeStop(stop, tokPipe))
		if err != nil {
			return nil, err
		}
		alts = append(alts, s)
		if p.cur().kind == tokPipe {
			p.advance()
			continue
		}
		break
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return choice{items: alts}, nil
}

func mergeStop(stop map[tokenKind]bool, extra tokenKind) map[tokenKind]bool {
	out := make(map[tokenKind]bool, len(stop)+1)
	for k, v := range stop {
		out[k] = v
	}
	out[extra] = true
	return out
}

// parseSequence parses whitespace-separated items (each with optional
// postfix modifiers) into a weighted cat, merging standalone `_` tokens
// into the previous item's weight.
func (p *parser) parseSequence(stop map[tokenKind]bool) (seq, error) {
	var items []seqItem
	for !stop[p.cur().kind] {
		if p.cur().kind == tokUnderscore {
			if len(items) == 0 {
				return seq{}, errUnexpectedToken(p.cur().pos, "_")
			}
			items[len(items)-1].weight = items[len(items)-1].weight.Add(rational.One)
			p.advance()
			continue
		}
		item, err := p.parseItem()
		if err != nil {
			return seq{}, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return seq{}, errEmptyGroup(p.cur().pos)
	}
	return seq{items: items}, nil
}

// parseItem parses one atom plus any postfix modifiers (*N, /N, @N,
// (k,n[,r])), in the order they appear.
func (p *parser) parseItem() (seqItem, error) {
	node, err := p.parseAtom()
	if err != nil {
		return seqItem{}, err
	}
	weight := rational.One

	for {
		switch p.cur().kind {
		case tokStar:
			p.advance()
			n, err := p.parseFactor()
			if err != nil {
				return seqItem{}, err
			}
			node = fastOp{base: node, n: n}
		case tokSlash:
			p.advance()
			n, err := p.parseFactor()
			if err != nil {
				return seqItem{}, err
			}
			node = slowOp{base: node, n: n}
		case tokAt:
			p.advance()
			if p.cur().kind != tokIdent {
				return seqItem{}, errUnexpectedToken(p.cur().pos, p.cur().text)
			}
			w, err := parseRationalLiteral(p.cur().text)
			if err != nil {
				return seqItem{}, errBadEuclid(p.cur().pos, "bad elongation factor")
			}
			weight = w
			p.advance()
		case tokLParen:
			node, err = p.parseEuclid(node)
			if err != nil {
				return seqItem{}, err
			}
		default:
			return seqItem{node: node, weight: weight}, nil
		}
	}
}

func (p *parser) parseFactor() (rational.Rational, error) {
	if p.cur().kind == tokLBracket || p.cur().kind == tokLAngle {
		// Patterned factor, e.g. x*<2 3>: parsing it as an atom and
		// collapsing to its first value keeps the grammar simple; the
		// common case (a plain number) goes through parseRationalLiteral.
		pos := p.cur().pos
		e, err := p.parseAtom()
		if err != nil {
			return rational.Rational{}, err
		}
		haps := compile(e).QuerySpan(rational.NewSpan(rational.FromInt(0), rational.FromInt(1)))
		if len(haps) == 0 {
			return rational.Rational{}, errUnexpectedToken(pos, "patterned factor")
		}
		v, err := parseRationalLiteral(haps[0].Value)
		if err != nil {
			return rational.Rational{}, errUnexpectedToken(pos, "patterned factor")
		}
		return v, nil
	}
	if p.cur().kind != tokIdent {
		return rational.Rational{}, errUnexpectedToken(p.cur().pos, p.cur().text)
	}
	n, err := parseRationalLiteral(p.cur().text)
	if err != nil {
		return rational.Rational{}, errUnexpectedToken(p.cur().pos, p.cur().text)
	}
	p.advance()
	return n, nil
}

func (p *parser) parseEuclid(base expr) (expr, error) {
	openPos := p.cur().pos
	p.advance() // consume '('
	k, err := p.parseInt()
	if err != nil {
		return nil, errBadEuclid(openPos, err.Error())
	}
	if p.cur().kind != tokComma {
		return nil, errBadEuclid(p.cur().pos, "expected ','")
	}
	p.advance()
	n, err := p.parseInt()
	if err != nil {
		return nil, errBadEuclid(openPos, err.Error())
	}
	r := 0
	if p.cur().kind == tokComma {
		p.advance()
		r, err = p.parseInt()
		if err != nil {
			return nil, errBadEuclid(openPos, err.Error())
		}
	}
	if p.cur().kind != tokRParen {
		return nil, errUnbalancedBracket(p.cur().pos, "(")
	}
	p.advance()
	if n <= 0 || k < 0 {
		return nil, errBadEuclid(openPos, "n must be positive and k non-negative")
	}
	return euclidOp{base: base, k: k, n: n, r: r}, nil
}

func (p *parser) parseInt() (int, error) {
	if p.cur().kind != tokIdent {
		return 0, errUnexpectedToken(p.cur().pos, p.cur().text)
	}
	v, err := strconv.Atoi(p.cur().text)
	if err != nil {
		return 0, err
	}
	p.advance()
	return v, nil
}

func (p *parser) parseAtom() (expr, error) {
	t := p.cur()
	switch t.kind {
	case tokRest:
		p.advance()
		return rest{}, nil
	case tokIdent:
		p.advance()
		return leaf{value: t.text}, nil
	case tokLBracket:
		p.advance()
		inner, err := p.parseAlternatives(stopSet(tokRBracket))
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRBracket {
			return nil, errUnbalancedBracket(t.pos, "[")
		}
		p.advance()
		return inner, nil
	case tokLAngle:
		p.advance()
		s, err := p.parseSequence(stopSet(tokRAngle))
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRAngle {
			return nil, errUnbalancedBracket(t.pos, "<")
		}
		p.advance()
		return alt{items: s.items}, nil
	case tokLBrace:
		p.advance()
		var parts []seq
		for {
			s, err := p.parseSequence(stopSet(tokComma, tokRBrace))
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if p.cur().kind != tokRBrace {
			return nil, errUnbalancedBracket(t.pos, "{")
		}
		p.advance()
		return stackExpr{parts: parts}, nil
	default:
		return nil, errUnexpectedToken(t.pos, t.text)
	}
}

func parseRationalLiteral(s string) (rational.Rational, error) {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return rational.FromFloat(f), nil
	}
	return rational.Rational{}, errUnexpectedTokenLiteral(s)
}

func errUnexpectedTokenLiteral(s string) error {
	return &ParseError{Msg: "expected a number, got " + s}
}
