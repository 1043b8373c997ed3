package compiler

import (
	"strings"

	"faraday/internal/render"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// selfType is the placeholder methods use to name their subject.
const selfType = "Self"

// buildImpl attaches methods to an already-declared type. Every method's
// signature registers before any body compiles, so sibling methods can call
// each other regardless of declaration order.
func (c *Compiler) buildImpl(n *syntax.Node, regs *symbols.Registers) (string, error) {
	ident := n.First(syntax.KindIdent)
	if ident == nil {
		panic("compiler: malformed impl node")
	}
	subject, err := regs.GetType(ident.Text)
	if err != nil {
		return "", err
	}

	scope := regs.Clone()
	scope.Types[selfType] = subject.Clone()

	type method struct {
		parts functionParts
		assoc types.Association
		ident string
		args  types.Args
		ret   types.Type
	}
	var methods []method

	for _, ch := range n.Children {
		if ch.Kind != syntax.KindFunction {
			continue
		}
		parts := classifyFunction(ch)

		assoc := types.StaticAssociation
		qualified := subject.Ident + "." + parts.name
		if parts.hasSelf {
			assoc = types.AssociatedAssociation
			qualified = subject.Ident + ":" + parts.name
		}

		args, ret, err := c.signatureOf(parts, scope)
		if err != nil {
			return "", err
		}
		rewriteSelf(&args, &ret, subject.Ident)

		fn := types.Function{
			Ident:       qualified,
			Arguments:   args,
			ReturnType:  ret,
			Visibility:  types.Public,
			Execution:   parts.exec,
			Association: assoc,
		}
		regs.Functions[qualified] = fn
		scope.Functions[qualified] = fn
		methods = append(methods, method{parts, assoc, qualified, args, ret})
	}

	set := render.Active()
	var out strings.Builder
	for _, m := range methods {
		fn, err := c.buildClassified(m.parts, scope, m.assoc, &subject)
		if err != nil {
			return "", err
		}
		fn.Ident = m.ident
		fn.Arguments = m.args
		fn.ReturnType = m.ret
		fn.Visibility = types.Public
		regs.Functions[m.ident] = fn
		out.WriteString(render.FunctionText(set, fn))
	}
	return out.String(), nil
}

// rewriteSelf replaces the placeholder with the subject's real name in a
// resolved signature.
func rewriteSelf(args *types.Args, ret *types.Type, subject string) {
	if ret.Ident == selfType {
		ret.Ident = subject
	}
	for i := range args.Types {
		if args.Types[i].Ident == selfType {
			args.Types[i].Ident = subject
		}
	}
}
