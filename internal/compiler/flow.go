package compiler

import (
	"strings"

	"faraday/internal/render"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// buildForLoop compiles a for loop. Loop idents are pre-declared in the body
// scope with the universal type; the iterator expression passes through
// verbatim.
func (c *Compiler) buildForLoop(n *syntax.Node, regs *symbols.Registers) (string, error) {
	var idents []string
	var seed []types.Variable
	var iter, body *syntax.Node
	for _, ch := range n.Children {
		switch ch.Kind {
		case syntax.KindIdent:
			idents = append(idents, ch.Text)
			seed = append(seed, types.Variable{Ident: ch.Text, Type: types.New(types.NameAny)})
		case syntax.KindExpr:
			iter = ch
		case syntax.KindBlock:
			body = ch
		}
	}
	if len(idents) == 0 || iter == nil || body == nil {
		panic("compiler: malformed for loop node")
	}

	text, err := c.subScope(body, regs, seed)
	if err != nil {
		return "", err
	}
	return render.ForText(render.Active(), idents, iter.Text, strings.TrimRight(text, "\n")), nil
}

// buildWhileLoop compiles a while loop against a body scope clone.
func (c *Compiler) buildWhileLoop(n *syntax.Node, regs *symbols.Registers) (string, error) {
	cond := n.First(syntax.KindExpr)
	body := n.First(syntax.KindBlock)
	if cond == nil || body == nil {
		panic("compiler: malformed while loop node")
	}
	text, err := c.subScope(body, regs, nil)
	if err != nil {
		return "", err
	}
	return render.WhileText(render.Active(), cond.Text, strings.TrimRight(text, "\n")), nil
}

// buildConditional compiles an if/elseif/else chain. Branches nest inside
// each other; only the branch with no successor renders the closing token,
// so a chain of any length terminates exactly once.
func (c *Compiler) buildConditional(n *syntax.Node, regs *symbols.Registers) (string, error) {
	return c.conditionalBranch(n, regs, "if")
}

func (c *Compiler) conditionalBranch(n *syntax.Node, regs *symbols.Registers, keyword string) (string, error) {
	condition := ""
	if keyword != "else" {
		cond := n.First(syntax.KindExpr)
		if cond == nil {
			panic("compiler: conditional branch missing condition")
		}
		condition = cond.Text
	}

	body := n.First(syntax.KindBlock)
	if body == nil {
		panic("compiler: conditional branch missing body")
	}
	text, err := c.subScope(body, regs, nil)
	if err != nil {
		return "", err
	}

	var nested *syntax.Node
	nextKeyword := ""
	if x := n.First(syntax.KindConditionalElseif); x != nil {
		nested, nextKeyword = x, "elseif"
	} else if x := n.First(syntax.KindConditionalElse); x != nil {
		nested, nextKeyword = x, "else"
	}

	out := render.ConditionalText(render.Active(), keyword, condition, strings.TrimRight(text, "\n"), nested == nil)
	if nested != nil {
		rest, err := c.conditionalBranch(nested, regs, nextKeyword)
		if err != nil {
			return "", err
		}
		out += rest
	}
	return out, nil
}
