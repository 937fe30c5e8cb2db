package dsl

import "strconv"

type parser struct {
	toks []token
	pos  int
}

// Parse tokenizes and parses DSL source into a Program. Each
// non-blank line is either a "name: chain" definition or the single
// "out: name" binding.
func Parse(src string) (*Program, error) {
	p := &parser{toks: lex(src)}
	return p.parseProgram()
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) skipNewlines() {
	for p.cur().kind == tokNewline {
		p.advance()
	}
}

func (p *parser) expect(k tokenKind) (token, error) {
	if p.cur().kind != k {
		return token{}, &ParseError{Pos: p.cur().pos, Msg: "expected " + k.String() + ", got " + p.cur().kind.String()}
	}
	return p.advance(), nil
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	p.skipNewlines()
	for p.cur().kind != tokEOF {
		nameTok, err := p.expect(tokIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokColon); err != nil {
			return nil, err
		}

		if nameTok.text == "out" {
			target, err := p.expect(tokIdent)
			if err != nil {
				return nil, err
			}
			prog.Out = target.text
			prog.OutPos = target.pos
		} else {
			chain, err := p.parseChain()
			if err != nil {
				return nil, err
			}
			prog.Defs = append(prog.Defs, Def{Name: nameTok.text, Chain: chain, Pos: nameTok.pos})
		}

		if p.cur().kind != tokEOF {
			if _, err := p.expect(tokNewline); err != nil {
				return nil, err
			}
		}
		p.skipNewlines()
	}
	return prog, nil
}

func (p *parser) parseChain() ([]Call, error) {
	var chain []Call
	for {
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		chain = append(chain, call)
		if p.cur().kind == tokHash {
			p.advance()
			continue
		}
		break
	}
	return chain, nil
}

func (p *parser) parseCall() (Call, error) {
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return Call{}, err
	}
	call := Call{Name: nameTok.text, Pos: nameTok.pos}

	if p.cur().kind != tokLParen {
		return call, nil
	}
	p.advance()

	for p.cur().kind != tokRParen {
		arg, err := p.parseArg()
		if err != nil {
			return Call{}, err
		}
		call.Args = append(call.Args, arg)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokRParen); err != nil {
		return Call{}, err
	}
	return call, nil
}

func (p *parser) parseArg() (Arg, error) {
	t := p.cur()
	switch t.kind {
	case tokNumber:
		p.advance()
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return Arg{}, &ParseError{Pos: t.pos, Msg: "bad number " + t.text}
		}
		return Arg{Kind: ArgNumber, Text: t.text, Num: v, Pos: t.pos}, nil
	case tokString:
		p.advance()
		return Arg{Kind: ArgString, Text: t.text, Pos: t.pos}, nil
	case tokTilde:
		p.advance()
		name, err := p.expect(tokIdent)
		if err != nil {
			return Arg{}, err
		}
		return Arg{Kind: ArgBus, Text: name.text, Pos: t.pos}, nil
	case tokIdent:
		p.advance()
		return Arg{Kind: ArgNode, Text: t.text, Pos: t.pos}, nil
	default:
		return Arg{}, &ParseError{Pos: t.pos, Msg: "unexpected token " + t.kind.String() + " in argument list"}
	}
}
