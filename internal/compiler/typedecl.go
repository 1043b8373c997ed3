package compiler

import (
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// resolveTypeRef validates a use-site type reference: the base name must be
// registered, and any generic arguments must satisfy the declaring site.
func (c *Compiler) resolveTypeRef(n *syntax.Node, regs *symbols.Registers) (types.Type, error) {
	declared, err := regs.GetType(n.Text)
	if err != nil {
		return types.Type{}, err
	}
	supplied := genericNames(n)
	if len(supplied) > 0 || len(declared.Generics) > 0 {
		if err := regs.CheckGenerics(declared, supplied); err != nil {
			return types.Type{}, err
		}
	}
	return types.Type{Ident: n.Text, Generics: supplied, Visibility: declared.Visibility}, nil
}

func genericNames(n *syntax.Node) []string {
	g := n.First(syntax.KindGeneric)
	if g == nil {
		return nil
	}
	out := make([]string, 0, len(g.Children))
	for _, ch := range g.Children {
		out = append(out, ch.Text)
	}
	return out
}

// buildType compiles a struct or enum declaration into a nominal type.
// Exactly one of properties and variants ends up populated.
func (c *Compiler) buildType(n *syntax.Node, regs *symbols.Registers) (types.Type, error) {
	var t types.Type
	for _, ch := range n.Children {
		switch ch.Kind {
		case syntax.KindModifier:
			if ch.Text == "pub" {
				t.Visibility = types.Public
			}
		case syntax.KindIdent:
			t.Ident = ch.Text
		case syntax.KindGeneric:
			for _, g := range ch.Children {
				t.Generics = append(t.Generics, g.Text)
			}
		}
	}
	if t.Ident == "" {
		panic("compiler: malformed type node")
	}

	// Declared generic parameters resolve as type names inside the body.
	scope := regs
	if len(t.Generics) > 0 {
		scope = regs.Clone()
		for _, g := range t.Generics {
			scope.Types[g] = types.New(g)
		}
	}

	for _, ch := range n.Children {
		switch ch.Kind {
		case syntax.KindStructField:
			tnode := ch.First(syntax.KindType)
			ident := ch.First(syntax.KindIdent)
			if tnode == nil || ident == nil {
				panic("compiler: malformed struct field")
			}
			ft, err := c.resolveTypeRef(tnode, scope)
			if err != nil {
				return types.Type{}, err
			}
			vis := types.Private
			if mod := ch.First(syntax.KindModifier); mod != nil && mod.Text == "pub" {
				vis = types.Public
			}
			if t.Properties == nil {
				t.Properties = make(map[string]types.StructField)
			}
			t.Properties[ident.Text] = types.StructField{Ident: ident.Text, Type: ft, Visibility: vis}

		case syntax.KindEnumVariant:
			ident := ch.Children[0]
			text, inferred, err := c.valueInfo(ch.Children[1], scope)
			if err != nil {
				return types.Type{}, err
			}
			if t.Variants == nil {
				t.Variants = make(map[string]types.Variable)
			}
			t.Variants[ident.Text] = types.Variable{
				Ident:      ident.Text,
				Type:       inferred,
				Value:      text,
				Visibility: t.Visibility,
			}
		}
	}
	return t, nil
}

// buildAlias copies an existing type's full definition under a new name.
// Generic arguments on the aliased reference are validated and recorded as
// the alias's own generics.
func (c *Compiler) buildAlias(n *syntax.Node, regs *symbols.Registers) (types.TypeAlias, types.Type, error) {
	var name string
	vis := types.Private
	var ref *syntax.Node
	for _, ch := range n.Children {
		switch ch.Kind {
		case syntax.KindModifier:
			if ch.Text == "pub" {
				vis = types.Public
			}
		case syntax.KindIdent:
			name = ch.Text
		case syntax.KindType:
			ref = ch
		}
	}
	if name == "" || ref == nil {
		panic("compiler: malformed type alias node")
	}

	base, err := regs.GetType(ref.Text)
	if err != nil {
		return types.TypeAlias{}, types.Type{}, err
	}
	resolved := base.Clone()
	resolved.Ident = name
	resolved.Visibility = vis
	if supplied := genericNames(ref); len(supplied) > 0 {
		if err := regs.CheckGenerics(base, supplied); err != nil {
			return types.TypeAlias{}, types.Type{}, err
		}
		resolved.Generics = supplied
	}

	alias := types.TypeAlias{Ident: name, Type: base, Visibility: vis}
	return alias, resolved, nil
}
