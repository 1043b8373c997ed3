package parser

import (
	"faraday/internal/source"
	"faraday/internal/syntax"
	"faraday/internal/token"
)

func isLiteral(kind token.Kind) bool {
	switch kind {
	case token.String, token.Int, token.Float, token.KwTrue, token.KwFalse:
		return true
	default:
		return false
	}
}

func literalKind(kind token.Kind) syntax.Kind {
	switch kind {
	case token.String:
		return syntax.KindString
	case token.Int:
		return syntax.KindInt
	case token.Float:
		return syntax.KindFloat
	default:
		return syntax.KindBool
	}
}

// valueEnds reports whether the value expression is complete after the token
// that ended at prevEnd: either a closing delimiter follows, or the next
// token sits on a later line.
func (p *Parser) valueEnds(prevEnd uint32) bool {
	switch p.peek().Kind {
	case token.Comma, token.RParen, token.RBrace, token.RBracket, token.EOF:
		return true
	}
	return p.lineOf(p.peek().Span.Start) > p.lineOf(prevEnd)
}

// parseValue parses the right-hand side of a binding or an enum variant.
// Single literals, identifiers, calls and table literals become structured
// nodes the checkers understand; anything more complex passes through as raw
// text, exactly as written.
func (p *Parser) parseValue() (*syntax.Node, error) {
	start := p.pos
	tok := p.peek()

	switch {
	case isLiteral(tok.Kind):
		p.next()
		if p.valueEnds(tok.Span.End) {
			return node(literalKind(tok.Kind), tok.Text, tok.Span), nil
		}
		p.pos = start
		return p.parseRawExpr(true)

	case tok.Kind == token.LBrace:
		return p.parseTableLiteral()

	case tok.Kind == token.Hash && p.peekAt(1).Kind == token.Ident:
		p.next()
		name, span, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		if !p.at(token.LParen) {
			return nil, p.errorf("expected call after async marker")
		}
		return p.parseCallTail(syntax.KindCall, "#"+name, tok.Span.Cover(span))

	case tok.Kind == token.Ident:
		name, span, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		switch {
		case p.at(token.Bang) && p.peekAt(1).Kind == token.LParen:
			p.next()
			return p.parseCallTail(syntax.KindMacroCall, name, span)
		case p.at(token.LParen):
			call, err := p.parseCallTail(syntax.KindCall, name, span)
			if err != nil {
				return nil, err
			}
			if p.valueEnds(call.Span.End) {
				return call, nil
			}
			p.pos = start
			return p.parseRawExpr(true)
		case p.at(token.LBrace):
			// Constructor-style table literal: Point{} / Point{ ... }.
			p.pos = start
			return p.parseTableLiteralFrom(start)
		case p.valueEnds(span.End):
			return node(syntax.KindIdent, name, span), nil
		default:
			p.pos = start
			return p.parseRawExpr(true)
		}

	default:
		return p.parseRawExpr(true)
	}
}

// parseTableLiteral consumes a balanced { ... } group as raw text.
func (p *Parser) parseTableLiteral() (*syntax.Node, error) {
	return p.parseTableLiteralFrom(p.pos)
}

func (p *Parser) parseTableLiteralFrom(start int) (*syntax.Node, error) {
	p.pos = start
	first := p.peek()
	depth := 0
	last := first
	for {
		if p.at(token.EOF) {
			return nil, p.errorf("unclosed table literal")
		}
		last = p.next()
		switch last.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		if depth == 0 && last.Kind == token.RBrace {
			break
		}
	}
	span := first.Span.Cover(last.Span)
	return node(syntax.KindTable, p.textBetween(first.Span, last.Span), span), nil
}

// parseRawExpr consumes an untypeable expression verbatim. When atValue is
// true the expression ends at a closing delimiter or line break; balanced
// groups may span lines.
func (p *Parser) parseRawExpr(atValue bool) (*syntax.Node, error) {
	first := p.peek()
	if first.Kind == token.EOF {
		return nil, p.errorf("expected expression")
	}
	depth := 0
	last := p.next()
	bump := func(kind token.Kind) {
		switch kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
	}
	bump(last.Kind)
	for !p.at(token.EOF) {
		if depth == 0 && atValue && p.valueEnds(last.Span.End) {
			break
		}
		if depth == 0 && !atValue && p.lineOf(p.peek().Span.Start) > p.lineOf(last.Span.End) {
			break
		}
		if depth == 0 && p.at(token.RBrace) {
			break
		}
		tok := p.next()
		bump(tok.Kind)
		last = tok
	}
	span := first.Span.Cover(last.Span)
	return node(syntax.KindExpr, p.textBetween(first.Span, last.Span), span), nil
}

// parseExprUntilBrace captures a loop iterator or branch condition: raw text
// up to the opening brace of the body.
func (p *Parser) parseExprUntilBrace() (*syntax.Node, error) {
	first := p.peek()
	if first.Kind == token.LBrace {
		return nil, p.errorf("expected expression before block")
	}
	depth := 0
	last := first
	for !p.at(token.EOF) {
		if depth == 0 && p.at(token.LBrace) {
			break
		}
		tok := p.next()
		switch tok.Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		}
		last = tok
	}
	span := first.Span.Cover(last.Span)
	return node(syntax.KindExpr, p.textBetween(first.Span, last.Span), span), nil
}

// parseCallTail parses "(args...)" after a callee name. The first child is
// the callee identifier; the rest are argument nodes in call order.
func (p *Parser) parseCallTail(kind syntax.Kind, name string, nameSpan source.Span) (*syntax.Node, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	children := []*syntax.Node{node(syntax.KindIdent, name, nameSpan)}
	for !p.at(token.RParen) {
		if p.at(token.EOF) {
			return nil, p.errorf("unclosed call")
		}
		arg, err := p.parseCallArg()
		if err != nil {
			return nil, err
		}
		children = append(children, arg)
		if p.at(token.Comma) {
			p.next()
		}
	}
	closing := p.next()
	return node(kind, name, nameSpan.Cover(closing.Span), children...), nil
}

// parseCallArg parses a single call argument.
func (p *Parser) parseCallArg() (*syntax.Node, error) {
	start := p.pos
	tok := p.peek()

	argEnds := func() bool {
		switch p.peek().Kind {
		case token.Comma, token.RParen:
			return true
		default:
			return false
		}
	}

	switch {
	case isLiteral(tok.Kind):
		p.next()
		if argEnds() {
			return node(literalKind(tok.Kind), tok.Text, tok.Span), nil
		}
	case tok.Kind == token.LBrace:
		return p.parseTableLiteral()
	case tok.Kind == token.Ident:
		name, span, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		if p.at(token.LParen) {
			call, err := p.parseCallTail(syntax.KindCall, name, span)
			if err != nil {
				return nil, err
			}
			if argEnds() {
				return call, nil
			}
		} else if argEnds() {
			return node(syntax.KindIdent, name, span), nil
		}
	}

	// Anything else: raw argument text until the list resumes.
	p.pos = start
	first := p.peek()
	depth := 0
	last := first
	for !p.at(token.EOF) {
		if depth == 0 && (p.at(token.Comma) || p.at(token.RParen)) {
			break
		}
		t := p.next()
		switch t.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
		last = t
	}
	return node(syntax.KindExpr, p.textBetween(first.Span, last.Span), first.Span.Cover(last.Span)), nil
}

// parseIdentStatement handles statements that begin with an identifier:
// calls, macro splices and reassignments. Anything else falls back to raw
// passthrough.
func (p *Parser) parseIdentStatement() (*syntax.Node, error) {
	start := p.pos

	async := false
	var hashSpan source.Span
	if p.at(token.Hash) {
		hash := p.next()
		async = true
		hashSpan = hash.Span
	}
	if !p.at(token.Ident) {
		p.pos = start
		return p.parseRawStatement()
	}

	name, span, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}
	if async {
		name = "#" + name
		span = hashSpan.Cover(span)
	}

	switch {
	case p.at(token.Bang) && p.peekAt(1).Kind == token.LParen:
		p.next()
		return p.parseCallTail(syntax.KindMacroCall, name, span)
	case p.at(token.LParen):
		return p.parseCallTail(syntax.KindCall, name, span)
	case p.at(token.Assign) && !async:
		p.next()
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return node(syntax.KindReassign, "", span.Cover(value.Span),
			node(syntax.KindIdent, name, span), value), nil
	default:
		p.pos = start
		return p.parseRawStatement()
	}
}

// parseRawStatement passes one source line through untouched; balanced
// groups may continue past the line break.
func (p *Parser) parseRawStatement() (*syntax.Node, error) {
	return p.parseRawExpr(false)
}
