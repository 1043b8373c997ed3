package compiler

import (
	"faraday/internal/diag"
	"faraday/internal/render"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// buildVariable compiles a let/const declaration: infer the value's type and
// hold it against the annotation.
func (c *Compiler) buildVariable(n *syntax.Node, regs *symbols.Registers) (types.Variable, error) {
	var v types.Variable
	var declaredNode, valueNode *syntax.Node
	for _, ch := range n.Children {
		switch ch.Kind {
		case syntax.KindModifier:
			if ch.Text == "pub" {
				v.Visibility = types.Public
			}
		case syntax.KindMutModifier:
			if ch.Text == "const" {
				v.Mutability = types.Constant
			}
		case syntax.KindRefModifier:
			v.Referenced = true
		case syntax.KindIdent:
			// First identifier is the binding name; a second one is a
			// bare identifier value.
			if v.Ident == "" {
				v.Ident = ch.Text
			} else {
				valueNode = ch
			}
		case syntax.KindType:
			declaredNode = ch
		default:
			valueNode = ch
		}
	}
	if v.Ident == "" || declaredNode == nil || valueNode == nil {
		panic("compiler: malformed pair node")
	}

	declared, err := c.resolveTypeRef(declaredNode, regs)
	if err != nil {
		return types.Variable{}, err
	}

	if valueNode.Kind == syntax.KindIdent && plainIdent(valueNode.Text) {
		// Binding one variable to another stores a reference; the source
		// must have opted in with the ref marker.
		src, err := regs.ShallowGetVar(valueNode.Text)
		if err != nil {
			return types.Variable{}, err
		}
		if !src.Referenced {
			return types.Variable{}, diag.Errorf(diag.ExpectedReference,
				"%q is not marked ref; cannot bind it to %q", valueNode.Text, v.Ident)
		}
		v.Type = types.New(types.NameRef)
		v.Value = valueNode.Text
		return v, nil
	}

	text, inferred, err := c.valueInfo(valueNode, regs)
	if err != nil {
		return types.Variable{}, err
	}
	// Table literals always satisfy the annotation; untypeable expressions
	// come back with an empty type and skip the check.
	if valueNode.Kind != syntax.KindTable && inferred.Ident != "" && !inferred.Equal(declared) {
		return types.Variable{}, diag.Errorf(diag.InvalidType,
			"cannot assign %q to %q (declared %q)", inferred.Ident, v.Ident, declared.Ident)
	}
	v.Type = declared
	v.Value = text
	return v, nil
}

// buildReassign checks an assignment to an existing binding and renders it.
func (c *Compiler) buildReassign(n *syntax.Node, regs *symbols.Registers) (string, error) {
	target := n.Children[0]
	valueNode := n.Children[1]

	existing, err := regs.GetVar(target.Text)
	if err != nil {
		return "", err
	}
	if existing.Mutability == types.Constant {
		return "", diag.Errorf(diag.CannotAssignConst,
			"cannot assign to constant %q", target.Text)
	}

	var text string
	if valueNode.Kind == syntax.KindIdent && plainIdent(valueNode.Text) {
		src, err := regs.ShallowGetVar(valueNode.Text)
		if err != nil {
			return "", err
		}
		if !src.Referenced {
			return "", diag.Errorf(diag.ExpectedReference,
				"%q is not marked ref; cannot bind it to %q", valueNode.Text, target.Text)
		}
		text = valueNode.Text
	} else {
		var inferred types.Type
		text, inferred, err = c.valueInfo(valueNode, regs)
		if err != nil {
			return "", err
		}
		if valueNode.Kind != syntax.KindTable && inferred.Ident != "" && !inferred.Equal(existing.Type) {
			return "", diag.Errorf(diag.InvalidType,
				"cannot assign %q to %q (declared %q)", inferred.Ident, target.Text, existing.Type.Ident)
		}
	}

	if plainIdent(target.Text) {
		existing.Value = text
		regs.Variables[target.Text] = existing
	}

	set := render.Active()
	return render.Expand(set.Variable, map[string]string{
		"visibility": "",
		"mutability": "",
		"ident":      target.Text,
		"value":      text,
		"typename":   existing.Type.Ident,
	}), nil
}
