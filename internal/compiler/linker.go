package compiler

import (
	"os"
	"path/filepath"
	"strings"

	"faraday/internal/render"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// linkModule resolves a use import: compile the sibling file with fresh
// Registers, merge its symbols under the alias prefix, and mirror its output
// into the build directory.
func (c *Compiler) linkModule(n *syntax.Node, regs *symbols.Registers, doCompile bool) (string, error) {
	pathNode := n.First(syntax.KindString)
	aliasNode := n.First(syntax.KindIdent)
	if pathNode == nil || aliasNode == nil {
		panic("compiler: malformed use node")
	}
	alias := aliasNode.Text
	rel := strings.Trim(pathNode.Text, "\"")

	vis := types.Private
	if mod := n.First(syntax.KindModifier); mod != nil && mod.Text == "pub" {
		vis = types.Public
	}

	parent, err := regs.ShallowGetVar(varParent)
	if err != nil {
		return "", err
	}
	full := filepath.Join(parent.Value, rel+SourceExt)

	out, child, err := c.ProcessFile(full, symbols.New(), !doCompile)
	if err != nil {
		return "", err
	}

	regs.MergeNamespaced(alias, child)
	regs.Variables[alias] = types.Variable{
		Ident:      alias,
		Type:       types.NewGeneric(types.NameTable, types.NameAny, types.NameAny),
		Value:      rel,
		Visibility: vis,
	}

	if doCompile {
		target := filepath.Join(c.opts.BuildDir, rel+TargetExt)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
			return "", err
		}
	}

	return render.UseText(render.Active(), alias, rel), nil
}
