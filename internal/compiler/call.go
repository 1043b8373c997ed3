package compiler

import (
	"strings"

	"faraday/internal/diag"
	"faraday/internal/render"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// buildCall checks and renders one call expression. A leading "#" on the
// callee marks an async call routed through the resume wrapper.
func (c *Compiler) buildCall(n *syntax.Node, regs *symbols.Registers) (string, types.Type, error) {
	name := strings.TrimPrefix(n.Text, "#")
	async := name != n.Text

	fn, err := regs.GetFn(name)
	if err != nil {
		return "", types.Type{}, err
	}

	args, err := c.callArgs(n.Children[1:], fn.Arguments, regs)
	if err != nil {
		return "", types.Type{}, err
	}

	set := render.Active()
	return render.CallText(set, name, render.ParamsText(set, args), async), fn.ReturnType, nil
}

// callArgs renders an argument list in call order, holding each argument
// with a matching parameter slot against the declared type. Untypeable raw
// arguments pass unchecked, as do extra arguments to variadic builtins.
func (c *Compiler) callArgs(nodes []*syntax.Node, params types.Args, regs *symbols.Registers) ([]string, error) {
	out := make([]string, 0, len(nodes))
	for i, arg := range nodes {
		text, inferred, err := c.valueInfo(arg, regs)
		if err != nil {
			return nil, err
		}
		if key, required, ok := params.Get(i); ok && inferred.Ident != "" && !inferred.Equal(required) {
			return nil, diag.Errorf(diag.InvalidType,
				"argument %q expects %q, got %q", key, required.Ident, inferred.Ident)
		}
		out = append(out, text)
	}
	return out, nil
}
