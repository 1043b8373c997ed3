// Package lexer tokenizes surface-language source text.
package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"faraday/internal/source"
	"faraday/internal/token"
)

// Lexer walks a source file and produces tokens. Comments ("--" to end of
// line) and whitespace are skipped; newlines are not significant to the
// lexer, statement boundaries are the parser's business.
type Lexer struct {
	file *source.File
	pos  int
}

func New(file *source.File) *Lexer {
	return &Lexer{file: file}
}

// Tokenize consumes the whole file and returns its tokens, terminated by an
// EOF token.
func Tokenize(file *source.File) []token.Token {
	lx := New(file)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) span(start int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](lx.pos)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: lx.file.ID, Start: s, End: e}
}

func (lx *Lexer) peek() byte {
	if lx.pos >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[lx.pos]
}

func (lx *Lexer) peekAt(off int) byte {
	if lx.pos+off >= len(lx.file.Content) {
		return 0
	}
	return lx.file.Content[lx.pos+off]
}

func (lx *Lexer) skipTrivia() {
	for lx.pos < len(lx.file.Content) {
		c := lx.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			lx.pos++
		case c == '-' && lx.peekAt(1) == '-':
			for lx.pos < len(lx.file.Content) && lx.peek() != '\n' {
				lx.pos++
			}
		default:
			return
		}
	}
}

// Next returns the next token.
func (lx *Lexer) Next() token.Token {
	lx.skipTrivia()
	start := lx.pos
	if lx.pos >= len(lx.file.Content) {
		return token.Token{Kind: token.EOF, Span: lx.span(start)}
	}

	c := lx.peek()
	switch {
	case isIdentStart(c):
		return lx.ident(start)
	case c >= '0' && c <= '9':
		return lx.number(start)
	case c == '"':
		return lx.str(start)
	}

	lx.pos++
	text := func() string { return string(lx.file.Content[start:lx.pos]) }
	switch c {
	case '(':
		return token.Token{Kind: token.LParen, Text: text(), Span: lx.span(start)}
	case ')':
		return token.Token{Kind: token.RParen, Text: text(), Span: lx.span(start)}
	case '{':
		return token.Token{Kind: token.LBrace, Text: text(), Span: lx.span(start)}
	case '}':
		return token.Token{Kind: token.RBrace, Text: text(), Span: lx.span(start)}
	case '[':
		return token.Token{Kind: token.LBracket, Text: text(), Span: lx.span(start)}
	case ']':
		return token.Token{Kind: token.RBracket, Text: text(), Span: lx.span(start)}
	case ',':
		return token.Token{Kind: token.Comma, Text: text(), Span: lx.span(start)}
	case ':':
		return token.Token{Kind: token.Colon, Text: text(), Span: lx.span(start)}
	case '.':
		return token.Token{Kind: token.Dot, Text: text(), Span: lx.span(start)}
	case '#':
		return token.Token{Kind: token.Hash, Text: text(), Span: lx.span(start)}
	case '!':
		if lx.peek() == '=' {
			lx.pos++
			return token.Token{Kind: token.Op, Text: text(), Span: lx.span(start)}
		}
		return token.Token{Kind: token.Bang, Text: text(), Span: lx.span(start)}
	case '=':
		if lx.peek() == '=' {
			lx.pos++
			return token.Token{Kind: token.Op, Text: text(), Span: lx.span(start)}
		}
		return token.Token{Kind: token.Assign, Text: text(), Span: lx.span(start)}
	case '-':
		if lx.peek() == '>' {
			lx.pos++
			return token.Token{Kind: token.Arrow, Text: text(), Span: lx.span(start)}
		}
		return token.Token{Kind: token.Op, Text: text(), Span: lx.span(start)}
	case '<':
		if lx.peek() == '=' {
			lx.pos++
			return token.Token{Kind: token.Op, Text: text(), Span: lx.span(start)}
		}
		return token.Token{Kind: token.Lt, Text: text(), Span: lx.span(start)}
	case '>':
		if lx.peek() == '=' {
			lx.pos++
			return token.Token{Kind: token.Op, Text: text(), Span: lx.span(start)}
		}
		return token.Token{Kind: token.Gt, Text: text(), Span: lx.span(start)}
	default:
		return token.Token{Kind: token.Op, Text: text(), Span: lx.span(start)}
	}
}

func (lx *Lexer) ident(start int) token.Token {
	for lx.pos < len(lx.file.Content) && isIdentPart(lx.peek()) {
		lx.pos++
	}
	text := string(lx.file.Content[start:lx.pos])
	return token.Token{Kind: token.Lookup(text), Text: text, Span: lx.span(start)}
}

func (lx *Lexer) number(start int) token.Token {
	kind := token.Int
	for lx.pos < len(lx.file.Content) {
		c := lx.peek()
		if c >= '0' && c <= '9' {
			lx.pos++
			continue
		}
		// A dot only stays part of the number when a digit follows; "1.x"
		// is a property access on a literal, which the parser rejects.
		if c == '.' && kind == token.Int && lx.peekAt(1) >= '0' && lx.peekAt(1) <= '9' {
			kind = token.Float
			lx.pos++
			continue
		}
		break
	}
	return token.Token{Kind: kind, Text: string(lx.file.Content[start:lx.pos]), Span: lx.span(start)}
}

func (lx *Lexer) str(start int) token.Token {
	lx.pos++ // opening quote
	for lx.pos < len(lx.file.Content) {
		c := lx.peek()
		if c == '\\' {
			lx.pos += 2
			continue
		}
		lx.pos++
		if c == '"' {
			break
		}
	}
	return token.Token{Kind: token.String, Text: string(lx.file.Content[start:lx.pos]), Span: lx.span(start)}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
