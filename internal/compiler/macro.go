package compiler

import (
	"os"
	"os/exec"
	"strings"
	"sync"

	"faraday/internal/diag"
	"faraday/internal/render"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// Compiled expression macros live process-wide so an imported module's
// macros stay callable from the importer.
var macroStore = struct {
	mu sync.Mutex
	m  map[string]types.Function
}{m: make(map[string]types.Function)}

// ResetMacros clears the macro store. Tests use it to isolate cases.
func ResetMacros() {
	macroStore.mu.Lock()
	defer macroStore.mu.Unlock()
	macroStore.m = make(map[string]types.Function)
}

// buildMacro compiles a macro definition like a function and stores it for
// later splicing. Macros emit nothing at their definition site.
func (c *Compiler) buildMacro(n *syntax.Node, regs *symbols.Registers) error {
	fn, err := c.buildFunction(n, regs, types.NoAssociation)
	if err != nil {
		return err
	}
	macroStore.mu.Lock()
	defer macroStore.mu.Unlock()
	macroStore.m[fn.Ident] = fn
	return nil
}

// spliceMacro evaluates a macro call at compile time: render the stored
// body plus a generated call expression to a temp file, run the external
// interpreter, and splice its captured stdout verbatim.
func (c *Compiler) spliceMacro(n *syntax.Node, regs *symbols.Registers) (string, error) {
	macroStore.mu.Lock()
	fn, ok := macroStore.m[n.Text]
	macroStore.mu.Unlock()
	if !ok {
		return "", diag.Errorf(diag.NoSuchFunction, "no such macro: %q", n.Text)
	}

	args, err := c.callArgs(n.Children[1:], fn.Arguments, regs)
	if err != nil {
		return "", err
	}

	set := render.Active()
	script := render.FunctionText(set, fn) +
		"print(" + render.CallText(set, fn.Ident, render.ParamsText(set, args), false) + ")\n"

	tmp, err := os.CreateTemp("", "faraday-macro-*"+TargetExt)
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	stdout, err := exec.Command(c.opts.Interpreter, tmp.Name()).Output()
	if err != nil {
		return "", diag.Errorf(diag.Unknown, "macro %q: %s failed: %v", n.Text, c.opts.Interpreter, err)
	}
	return strings.TrimRight(string(stdout), "\n"), nil
}
