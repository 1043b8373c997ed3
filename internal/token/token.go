// Package token defines the lexical vocabulary of the surface language.
package token

import "faraday/internal/source"

// Kind classifies a token.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	Int
	Float
	String

	// Structure.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Colon
	Dot
	Hash
	Bang
	Assign
	Arrow
	Lt
	Gt
	// Any other operator or punctuation; Text carries the exact spelling.
	Op

	// Keywords.
	KwFn
	KwLet
	KwConst
	KwMut
	KwRef
	KwPub
	KwPrv
	KwAsync
	KwSync
	KwStruct
	KwEnum
	KwType
	KwImpl
	KwUse
	KwAs
	KwFor
	KwIn
	KwWhile
	KwIf
	KwElseif
	KwElse
	KwMacro
	KwSelf
	KwTrue
	KwFalse
)

var keywords = map[string]Kind{
	"fn":     KwFn,
	"let":    KwLet,
	"const":  KwConst,
	"mut":    KwMut,
	"ref":    KwRef,
	"pub":    KwPub,
	"prv":    KwPrv,
	"async":  KwAsync,
	"sync":   KwSync,
	"struct": KwStruct,
	"enum":   KwEnum,
	"type":   KwType,
	"impl":   KwImpl,
	"use":    KwUse,
	"as":     KwAs,
	"for":    KwFor,
	"in":     KwIn,
	"while":  KwWhile,
	"if":     KwIf,
	"elseif": KwElseif,
	"else":   KwElse,
	"macro":  KwMacro,
	"self":   KwSelf,
	"true":   KwTrue,
	"false":  KwFalse,
}

// Lookup maps an identifier spelling to its keyword kind, or Ident.
func Lookup(text string) Kind {
	if kw, ok := keywords[text]; ok {
		return kw
	}
	return Ident
}

// Token is a single lexeme with its source location.
type Token struct {
	Kind Kind
	Text string
	Span source.Span
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn
}

// IsModifier reports whether the token alters a declaration (visibility,
// execution, mutability, reference marker).
func (t Token) IsModifier() bool {
	switch t.Kind {
	case KwPub, KwPrv, KwAsync, KwSync, KwMut, KwRef:
		return true
	default:
		return false
	}
}
