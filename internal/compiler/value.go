package compiler

import (
	"strings"

	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// valueInfo renders a value node and infers its type. Raw expressions and
// macro splices come back with an empty type; callers treat that as a
// deliberate bypass of the equality check.
func (c *Compiler) valueInfo(n *syntax.Node, regs *symbols.Registers) (string, types.Type, error) {
	switch n.Kind {
	case syntax.KindString:
		return n.Text, types.New(types.NameString), nil
	case syntax.KindInt:
		return n.Text, types.New(types.NameInt), nil
	case syntax.KindFloat:
		return n.Text, types.New(types.NameFloat), nil
	case syntax.KindBool:
		return n.Text, types.New(types.NameBool), nil
	case syntax.KindIdent:
		v, err := regs.GetVar(n.Text)
		if err != nil {
			return "", types.Type{}, err
		}
		return n.Text, v.Type, nil
	case syntax.KindCall:
		return c.buildCall(n, regs)
	case syntax.KindTable:
		return n.Text, types.NewGeneric(types.NameTable, types.NameAny, types.NameAny), nil
	case syntax.KindMacroCall:
		text, err := c.spliceMacro(n, regs)
		return text, types.Type{}, err
	default:
		return n.Text, types.Type{}, nil
	}
}

// plainIdent reports whether a resolved name is a bare variable reference,
// with no property, method or index segment.
func plainIdent(name string) bool {
	return !strings.ContainsAny(name, ".:[")
}
