package compiler

import (
	"strings"

	"faraday/internal/render"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// functionParts is the classified shape of a function node.
type functionParts struct {
	name    string
	vis     types.Visibility
	exec    types.Execution
	params  []*syntax.Node
	hasSelf bool
	ret     *syntax.Node
	body    *syntax.Node
}

// classifyFunction splits a function node's children by role. The parser
// guarantees the shape; a malformed node is an internal bug, not a user
// error.
func classifyFunction(n *syntax.Node) functionParts {
	var parts functionParts
	for _, ch := range n.Children {
		switch ch.Kind {
		case syntax.KindModifier:
			if ch.Text == "pub" {
				parts.vis = types.Public
			}
		case syntax.KindSyncModifier:
			if ch.Text == "async" {
				parts.exec = types.Async
			}
		case syntax.KindIdent:
			if parts.name == "" {
				parts.name = ch.Text
			}
		case syntax.KindSelfParam:
			parts.hasSelf = true
		case syntax.KindTypedParam:
			parts.params = append(parts.params, ch)
		case syntax.KindType:
			parts.ret = ch
		case syntax.KindBlock:
			parts.body = ch
		}
	}
	if parts.name == "" || parts.body == nil {
		panic("compiler: malformed function node")
	}
	return parts
}

// signatureOf resolves the declared parameter and return types. Every named
// type must be registered; the body's actual produced value is never held
// against the return type.
func (c *Compiler) signatureOf(parts functionParts, regs *symbols.Registers) (types.Args, types.Type, error) {
	var args types.Args
	for _, p := range parts.params {
		tnode := p.First(syntax.KindType)
		ident := p.First(syntax.KindIdent)
		if tnode == nil || ident == nil {
			panic("compiler: malformed typed parameter")
		}
		t, err := c.resolveTypeRef(tnode, regs)
		if err != nil {
			return types.Args{}, types.Type{}, err
		}
		args.Keys = append(args.Keys, ident.Text)
		args.Types = append(args.Types, t)
	}

	ret := types.New(types.NameEmpty)
	if parts.ret != nil {
		r, err := c.resolveTypeRef(parts.ret, regs)
		if err != nil {
			return types.Args{}, types.Type{}, err
		}
		ret = r
	}
	return args, ret, nil
}

func (c *Compiler) buildFunction(n *syntax.Node, regs *symbols.Registers, assoc types.Association) (types.Function, error) {
	return c.buildClassified(classifyFunction(n), regs, assoc, nil)
}

// buildClassified compiles the body against a scope clone pre-seeded with
// the parameter bindings. A static "new" under a known subject gets the
// constructor boilerplate prefixed onto its body.
func (c *Compiler) buildClassified(parts functionParts, regs *symbols.Registers, assoc types.Association, self *types.Type) (types.Function, error) {
	args, ret, err := c.signatureOf(parts, regs)
	if err != nil {
		return types.Function{}, err
	}

	seed := make([]types.Variable, 0, len(args.Keys)+1)
	if self != nil && assoc == types.AssociatedAssociation {
		seed = append(seed, types.Variable{Ident: "self", Type: *self})
	}
	for i, key := range args.Keys {
		seed = append(seed, types.Variable{Ident: key, Type: args.Types[i]})
	}

	body, err := c.subScope(parts.body, regs, seed)
	if err != nil {
		return types.Function{}, err
	}
	body = strings.TrimRight(body, "\n")

	if self != nil && assoc == types.StaticAssociation && parts.name == "new" {
		body = render.ConstructorText(render.Active(), self.Ident, body)
	}

	return types.Function{
		Ident:       parts.name,
		Arguments:   args,
		ReturnType:  ret,
		Body:        body,
		Visibility:  parts.vis,
		Execution:   parts.exec,
		Association: assoc,
	}, nil
}
