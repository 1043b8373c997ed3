// Package parser builds the tagged syntax tree the compiler consumes. It is
// the collaborator that guarantees the structural invariants builders assume
// (a typed parameter is always one type node then one identifier node, and
// so on); the compiler panics rather than re-verifying them.
package parser

import (
	"fmt"

	"faraday/internal/lexer"
	"faraday/internal/source"
	"faraday/internal/syntax"
	"faraday/internal/token"
)

// Parser turns one file's tokens into statement nodes.
type Parser struct {
	file *source.File
	fs   *source.FileSet
	toks []token.Token
	pos  int
}

// ParseFile tokenizes and parses a file into its top-level statements.
func ParseFile(fs *source.FileSet, id source.FileID) ([]*syntax.Node, error) {
	file := fs.Get(id)
	if file == nil {
		return nil, fmt.Errorf("unknown file id %d", id)
	}
	p := &Parser{file: file, fs: fs, toks: lexer.Tokenize(file)}
	var out []*syntax.Node
	for !p.at(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(off int) token.Token {
	if p.pos+off >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+off]
}

func (p *Parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, p.errorf("expected %v, got %q", kind, p.peek().Text)
	}
	return p.next(), nil
}

func (p *Parser) errorf(format string, args ...any) error {
	pos := p.fs.Position(p.file.ID, p.peek().Span.Start)
	return fmt.Errorf("%s:%s: %s", p.file.Path, pos, fmt.Sprintf(format, args...))
}

// lineOf returns the 1-based line of a byte offset.
func (p *Parser) lineOf(off uint32) uint32 {
	return p.fs.Position(p.file.ID, off).Line
}

// textBetween slices the original source between two spans, preserving the
// author's spacing for raw passthrough.
func (p *Parser) textBetween(start, end source.Span) string {
	return string(p.file.Content[start.Start:end.End])
}

func node(kind syntax.Kind, text string, span source.Span, children ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: kind, Text: text, Span: span, Children: children}
}

// parseStatement dispatches on the leading token.
func (p *Parser) parseStatement() (*syntax.Node, error) {
	mods, err := p.parseModifiers()
	if err != nil {
		return nil, err
	}

	switch p.peek().Kind {
	case token.KwFn:
		return p.parseFunction(mods)
	case token.KwMacro:
		return p.parseMacro(mods)
	case token.KwLet, token.KwConst:
		return p.parsePair(mods)
	case token.KwStruct:
		return p.parseStruct(mods)
	case token.KwEnum:
		return p.parseEnum(mods)
	case token.KwType:
		return p.parseTypeAlias(mods)
	case token.KwImpl:
		return p.parseImpl(mods)
	case token.KwUse:
		return p.parseUse(mods)
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwIf:
		return p.parseConditional(token.KwIf)
	case token.LBrace:
		return p.parseBlock()
	case token.Ident, token.Hash:
		return p.parseIdentStatement()
	default:
		if len(mods) > 0 {
			return nil, p.errorf("modifier without a declaration")
		}
		return p.parseRawStatement()
	}
}

// parseModifiers consumes leading pub/prv/async/sync markers.
func (p *Parser) parseModifiers() ([]*syntax.Node, error) {
	var out []*syntax.Node
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.KwPub, token.KwPrv:
			p.next()
			out = append(out, node(syntax.KindModifier, tok.Text, tok.Span))
		case token.KwAsync, token.KwSync:
			p.next()
			out = append(out, node(syntax.KindSyncModifier, tok.Text, tok.Span))
		default:
			return out, nil
		}
	}
}

// parseBlock parses a braced statement list.
func (p *Parser) parseBlock() (*syntax.Node, error) {
	open, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}
	var children []*syntax.Node
	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.errorf("unclosed block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		children = append(children, stmt)
	}
	closing := p.next()
	return node(syntax.KindBlock, "", open.Span.Cover(closing.Span), children...), nil
}

// parseType parses a (possibly namespaced, possibly generic) type
// reference: "int", "m.Point", "Table<String, int>".
func (p *Parser) parseType() (*syntax.Node, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	ident := name.Text
	span := name.Span
	for p.at(token.Dot) {
		p.next()
		seg, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		ident += "." + seg.Text
		span = span.Cover(seg.Span)
	}

	var children []*syntax.Node
	if p.at(token.Lt) {
		open := p.next()
		generic := node(syntax.KindGeneric, "", open.Span)
		for {
			arg, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			generic.Children = append(generic.Children, node(syntax.KindIdent, arg.Text, arg.Span))
			if p.at(token.Comma) {
				p.next()
				continue
			}
			break
		}
		closing, err := p.expect(token.Gt)
		if err != nil {
			return nil, err
		}
		generic.Span = generic.Span.Cover(closing.Span)
		span = span.Cover(closing.Span)
		children = append(children, generic)
	}
	return node(syntax.KindType, ident, span, children...), nil
}

// qualifiedName consumes Ident (. Ident | : Ident | [ ... ])* and returns the
// flat key the symbol table understands.
func (p *Parser) qualifiedName() (string, source.Span, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return "", source.Span{}, err
	}
	text := name.Text
	span := name.Span
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.next()
			seg, err := p.expect(token.Ident)
			if err != nil {
				return "", source.Span{}, err
			}
			text += "." + seg.Text
			span = span.Cover(seg.Span)
		case token.Colon:
			// Only a method reference when an identifier follows directly;
			// a bare colon belongs to a type annotation.
			if p.peekAt(1).Kind != token.Ident {
				return text, span, nil
			}
			p.next()
			seg, _ := p.expect(token.Ident)
			text += ":" + seg.Text
			span = span.Cover(seg.Span)
		case token.LBracket:
			open := p.next()
			depth := 1
			last := open
			for depth > 0 {
				if p.at(token.EOF) {
					return "", source.Span{}, p.errorf("unclosed index expression")
				}
				last = p.next()
				switch last.Kind {
				case token.LBracket:
					depth++
				case token.RBracket:
					depth--
				}
			}
			text += p.textBetween(open.Span, last.Span)
			span = span.Cover(last.Span)
		default:
			return text, span, nil
		}
	}
}
