package parser

import (
	"faraday/internal/syntax"
	"faraday/internal/token"
)

// parseFunction parses "fn name(params) [-> type] { body }" with any
// leading modifiers already collected.
func (p *Parser) parseFunction(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next() // fn
	return p.parseFunctionTail(syntax.KindFunction, kw, mods)
}

// parseMacro parses a compile-time expression macro; same shape as a
// function.
func (p *Parser) parseMacro(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next() // macro
	return p.parseFunctionTail(syntax.KindMacro, kw, mods)
}

func (p *Parser) parseFunctionTail(kind syntax.Kind, kw token.Token, mods []*syntax.Node) (*syntax.Node, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	children := append([]*syntax.Node{}, mods...)
	children = append(children, node(syntax.KindIdent, name.Text, name.Span))

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	for !p.at(token.RParen) {
		if p.at(token.KwSelf) {
			self := p.next()
			children = append(children, node(syntax.KindSelfParam, self.Text, self.Span))
		} else {
			pname, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}
			ptype, err := p.parseType()
			if err != nil {
				return nil, err
			}
			// Type node first, then identifier: the order builders rely on.
			children = append(children, node(syntax.KindTypedParam, "", pname.Span.Cover(ptype.Span),
				ptype, node(syntax.KindIdent, pname.Text, pname.Span)))
		}
		if p.at(token.Comma) {
			p.next()
		}
	}
	p.next() // )

	if p.at(token.Arrow) {
		p.next()
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		children = append(children, ret)
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	children = append(children, body)
	return node(kind, "", kw.Span.Cover(body.Span), children...), nil
}

// parsePair parses "let [ref] name: type = value" / "const ...".
func (p *Parser) parsePair(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next() // let | const
	children := append([]*syntax.Node{}, mods...)
	children = append(children, node(syntax.KindMutModifier, kw.Text, kw.Span))

	if p.at(token.KwRef) {
		ref := p.next()
		children = append(children, node(syntax.KindRefModifier, ref.Text, ref.Span))
	}

	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	children = append(children, node(syntax.KindIdent, name.Text, name.Span))

	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	declared, err := p.parseType()
	if err != nil {
		return nil, err
	}
	children = append(children, declared)

	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	children = append(children, value)
	return node(syntax.KindPair, "", kw.Span.Cover(value.Span), children...), nil
}

// parseStruct parses "struct Name<T> { pub x: int, ... }".
func (p *Parser) parseStruct(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next()
	header, err := p.parseType()
	if err != nil {
		return nil, err
	}

	children := append([]*syntax.Node{}, mods...)
	children = append(children, node(syntax.KindIdent, header.Text, header.Span))
	if generic := header.First(syntax.KindGeneric); generic != nil {
		children = append(children, generic)
	}

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.at(token.RBrace) {
		var fieldChildren []*syntax.Node
		if p.at(token.KwPub) || p.at(token.KwPrv) {
			mod := p.next()
			fieldChildren = append(fieldChildren, node(syntax.KindModifier, mod.Text, mod.Span))
		}
		fname, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fieldChildren = append(fieldChildren, ftype, node(syntax.KindIdent, fname.Text, fname.Span))
		children = append(children, node(syntax.KindStructField, "", fname.Span.Cover(ftype.Span), fieldChildren...))
		if p.at(token.Comma) {
			p.next()
		}
	}
	closing := p.next()
	return node(syntax.KindStruct, "", kw.Span.Cover(closing.Span), children...), nil
}

// parseEnum parses "enum Color { Red = 1, ... }".
func (p *Parser) parseEnum(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next()
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	children := append([]*syntax.Node{}, mods...)
	children = append(children, node(syntax.KindIdent, name.Text, name.Span))

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.at(token.RBrace) {
		vname, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Assign); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		children = append(children, node(syntax.KindEnumVariant, "", vname.Span.Cover(value.Span),
			node(syntax.KindIdent, vname.Text, vname.Span), value))
		if p.at(token.Comma) {
			p.next()
		}
	}
	closing := p.next()
	return node(syntax.KindEnum, "", kw.Span.Cover(closing.Span), children...), nil
}

// parseTypeAlias parses "type Name = Existing<A, B>".
func (p *Parser) parseTypeAlias(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next()
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	aliased, err := p.parseType()
	if err != nil {
		return nil, err
	}
	children := append([]*syntax.Node{}, mods...)
	children = append(children, node(syntax.KindIdent, name.Text, name.Span), aliased)
	return node(syntax.KindTypeAlias, "", kw.Span.Cover(aliased.Span), children...), nil
}

// parseImpl parses "impl Name { fn ... }".
func (p *Parser) parseImpl(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next()
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	children := append([]*syntax.Node{}, mods...)
	children = append(children, node(syntax.KindIdent, name.Text, name.Span))

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	for !p.at(token.RBrace) {
		methodMods, err := p.parseModifiers()
		if err != nil {
			return nil, err
		}
		if !p.at(token.KwFn) {
			return nil, p.errorf("only functions are allowed in impl blocks")
		}
		fn, err := p.parseFunction(methodMods)
		if err != nil {
			return nil, err
		}
		children = append(children, fn)
	}
	closing := p.next()
	return node(syntax.KindImpl, "", kw.Span.Cover(closing.Span), children...), nil
}

// parseUse parses `use "path" as alias`.
func (p *Parser) parseUse(mods []*syntax.Node) (*syntax.Node, error) {
	kw := p.next()
	path, err := p.expect(token.String)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KwAs); err != nil {
		return nil, err
	}
	alias, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	children := append([]*syntax.Node{}, mods...)
	children = append(children,
		node(syntax.KindString, path.Text, path.Span),
		node(syntax.KindIdent, alias.Text, alias.Span))
	return node(syntax.KindUse, "", kw.Span.Cover(alias.Span), children...), nil
}

// parseFor parses "for a, b in <iter> { ... }".
func (p *Parser) parseFor() (*syntax.Node, error) {
	kw := p.next()
	var children []*syntax.Node
	for {
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		children = append(children, node(syntax.KindIdent, name.Text, name.Span))
		if p.at(token.Comma) {
			p.next()
			continue
		}
		break
	}
	if _, err := p.expect(token.KwIn); err != nil {
		return nil, err
	}
	iter, err := p.parseExprUntilBrace()
	if err != nil {
		return nil, err
	}
	children = append(children, iter)
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	children = append(children, body)
	return node(syntax.KindForLoop, "", kw.Span.Cover(body.Span), children...), nil
}

// parseWhile parses "while <cond> { ... }".
func (p *Parser) parseWhile() (*syntax.Node, error) {
	kw := p.next()
	cond, err := p.parseExprUntilBrace()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return node(syntax.KindWhileLoop, "", kw.Span.Cover(body.Span), cond, body), nil
}

// parseConditional parses one branch and splices any trailing elseif/else
// branch in as a nested child, mirroring how the emitters reopen blocks.
func (p *Parser) parseConditional(lead token.Kind) (*syntax.Node, error) {
	kw := p.next()
	var children []*syntax.Node

	if lead != token.KwElse {
		cond, err := p.parseExprUntilBrace()
		if err != nil {
			return nil, err
		}
		children = append(children, cond)
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	children = append(children, body)
	span := kw.Span.Cover(body.Span)

	kind := syntax.KindConditional
	switch lead {
	case token.KwElseif:
		kind = syntax.KindConditionalElseif
	case token.KwElse:
		kind = syntax.KindConditionalElse
	}

	switch p.peek().Kind {
	case token.KwElseif, token.KwElse:
		nested, err := p.parseConditional(p.peek().Kind)
		if err != nil {
			return nil, err
		}
		children = append(children, nested)
		span = span.Cover(nested.Span)
	}
	return node(kind, "", span, children...), nil
}
