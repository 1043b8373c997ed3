// Package compiler lowers parsed surface-language trees into target source
// text, type-checking as it emits. It consumes only syntax.Node trees; the
// front end is injected so the two never couple.
package compiler

import (
	"fmt"
	"path/filepath"
	"strings"

	"faraday/internal/diag"
	"faraday/internal/render"
	"faraday/internal/source"
	"faraday/internal/symbols"
	"faraday/internal/syntax"
	"faraday/internal/types"
)

// Bootstrap pseudo-variables every file compilation runs under. The linker
// and conditional emission read them back out of the Registers.
const (
	varPath      = "@@FARADAY_PATH"
	varParent    = "@@FARADAY_PATH_PARENT"
	varNoCompile = "@@FARADAY_NO_COMPILE"
)

// SourceExt is the surface-language file extension.
const SourceExt = ".fd"

// TargetExt is the emitted file extension.
const TargetExt = ".lua"

// ParseFunc is the injected front end.
type ParseFunc func(fs *source.FileSet, id source.FileID) ([]*syntax.Node, error)

// Options configures one compilation.
type Options struct {
	// BuildDir receives compiled output for imported modules, mirrored by
	// relative path.
	BuildDir string
	// Interpreter is the external evaluator for expression macros.
	Interpreter string
}

// Compiler drives the single interleaved check-and-emit pass.
type Compiler struct {
	fs    *source.FileSet
	parse ParseFunc
	opts  Options
}

func New(fs *source.FileSet, parse ParseFunc, opts Options) *Compiler {
	if opts.Interpreter == "" {
		opts.Interpreter = "lua"
	}
	if opts.BuildDir == "" {
		opts.BuildDir = "build"
	}
	return &Compiler{fs: fs, parse: parse, opts: opts}
}

// ProcessFile compiles one file: parse, walk, append the export manifest.
// The returned Registers hold everything the file declared.
func (c *Compiler) ProcessFile(path string, regs *symbols.Registers, checkOnly bool) (string, *symbols.Registers, error) {
	Bootstrap(regs, path, checkOnly)

	id, err := c.fs.Load(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	nodes, err := c.parse(c.fs, id)
	if err != nil {
		return "", nil, err
	}

	out, regs, err := c.Process(nodes, regs)
	if err != nil {
		return "", nil, err
	}
	return out + exportManifest(regs), regs, nil
}

// Bootstrap seeds the per-file pseudo-variables.
func Bootstrap(regs *symbols.Registers, path string, checkOnly bool) {
	define := func(name, value string) {
		regs.Variables[name] = types.Variable{
			Ident: name,
			Type:  types.New(types.NameAny),
			Value: value,
		}
	}
	define(varPath, path)
	define(varParent, filepath.Dir(path))
	define(varNoCompile, fmt.Sprintf("%v", checkOnly))
}

// Process walks statement nodes, dispatching by tag. Unknown statement tags
// pass their text through verbatim; that is the contract for raw target
// expressions the checkers cannot type.
func (c *Compiler) Process(nodes []*syntax.Node, regs *symbols.Registers) (string, *symbols.Registers, error) {
	pathVar, err := regs.ShallowGetVar(varPath)
	if err != nil {
		return "", nil, err
	}
	noCompile, err := regs.ShallowGetVar(varNoCompile)
	if err != nil {
		return "", nil, err
	}
	doCompile := noCompile.Value == "false"
	path := pathVar.Value

	var out strings.Builder
	set := render.Active()

	for _, n := range nodes {
		c.mark(path, n)

		switch n.Kind {
		case syntax.KindFunction:
			fn, err := c.buildFunction(n, regs, types.NoAssociation)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(render.FunctionText(set, fn))
			}
			regs.Functions[fn.Ident] = fn

		case syntax.KindBlock:
			text, _, err := c.Process(n.Children, regs.Clone())
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text)
			}

		case syntax.KindPair:
			v, err := c.buildVariable(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(render.VariableText(set, v))
			}
			regs.Variables[v.Ident] = v

		case syntax.KindReassign:
			text, err := c.buildReassign(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text)
			}

		case syntax.KindCall:
			text, _, err := c.buildCall(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text + "\n")
			}

		case syntax.KindStruct, syntax.KindEnum:
			t, err := c.buildType(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(render.TypeText(set, t))
			}
			regs.Types[t.Ident] = t
			regs.Variables[t.Ident] = types.Variable{Ident: t.Ident, Type: t, Visibility: t.Visibility}

		case syntax.KindTypeAlias:
			alias, resolved, err := c.buildAlias(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(render.AliasText(set, alias))
			}
			regs.Types[alias.Ident] = resolved
			regs.Variables[alias.Ident] = types.Variable{Ident: alias.Ident, Type: resolved, Visibility: alias.Visibility}

		case syntax.KindForLoop:
			text, err := c.buildForLoop(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text)
			}

		case syntax.KindWhileLoop:
			text, err := c.buildWhileLoop(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text)
			}

		case syntax.KindConditional:
			text, err := c.buildConditional(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text)
			}

		case syntax.KindImpl:
			text, err := c.buildImpl(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text)
			}

		case syntax.KindUse:
			text, err := c.linkModule(n, regs, doCompile)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text)
			}

		case syntax.KindMacro:
			if err := c.buildMacro(n, regs); err != nil {
				return "", nil, err
			}

		case syntax.KindMacroCall:
			text, err := c.spliceMacro(n, regs)
			if err != nil {
				return "", nil, err
			}
			if doCompile {
				out.WriteString(text + "\n")
			}

		default:
			if doCompile {
				out.WriteString(n.Text + "\n")
			}
		}
	}
	return out.String(), regs, nil
}

// mark records the node's position for diagnostics.
func (c *Compiler) mark(path string, n *syntax.Node) {
	diag.SetMarker(path, c.fs.Position(n.Span.File, n.Span.Start))
}

// subScope clones regs and compiles a block against the clone, so nothing
// the block declares leaks upward.
func (c *Compiler) subScope(block *syntax.Node, regs *symbols.Registers, seed []types.Variable) (string, error) {
	scope := regs.Clone()
	for _, v := range seed {
		scope.Variables[v.Ident] = v
	}
	text, _, err := c.Process(block.Children, scope)
	return text, err
}
