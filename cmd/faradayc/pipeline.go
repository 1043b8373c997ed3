package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"faraday/internal/compiler"
	"faraday/internal/diag"
	"faraday/internal/parser"
	"faraday/internal/project"
	"faraday/internal/render"
	"faraday/internal/source"
	"faraday/internal/symbols"
)

// compileResult carries everything subcommands need after a compilation.
type compileResult struct {
	Output     string
	OutputPath string
	Registers  *symbols.Registers
	Entry      string
	BuildDir   string
}

// compileTarget resolves the entry file and project settings, runs the
// compiler, and renders any diagnostic to stderr. An explicit file argument
// overrides the manifest's entry.
func compileTarget(args []string, checkOnly bool, interpreter string) (*compileResult, error) {
	var entry string
	startDir := "."
	if len(args) == 1 {
		entry = args[0]
		startDir = filepath.Dir(entry)
	}

	manifest, root, err := project.Resolve(startDir)
	if err != nil {
		return nil, err
	}
	if entry == "" {
		entry = filepath.Join(root, manifest.Package.Entry)
	}

	if manifest.Templates.Path != "" {
		templatePath := manifest.Templates.Path
		if !filepath.IsAbs(templatePath) {
			templatePath = filepath.Join(root, templatePath)
		}
		set, err := render.Load(templatePath)
		if err != nil {
			return nil, err
		}
		render.Swap(set)
	}

	buildDir := manifest.Build.Dir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(root, buildDir)
	}
	if !checkOnly {
		if err := project.RecreateBuildDir(buildDir); err != nil {
			return nil, err
		}
	}

	fs := source.NewFileSet()
	c := compiler.New(fs, parser.ParseFile, compiler.Options{
		BuildDir:    buildDir,
		Interpreter: interpreter,
	})

	diag.ResetMarker()
	out, regs, err := c.ProcessFile(entry, symbols.New(), checkOnly)
	if err != nil {
		var ce *diag.Error
		if errors.As(err, &ce) {
			diag.Render(os.Stderr, ce, fs)
			return nil, fmt.Errorf("compilation failed")
		}
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(entry), compiler.SourceExt)
	outPath := filepath.Join(buildDir, stem+compiler.TargetExt)
	if !checkOnly {
		if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
			return nil, err
		}
	}

	return &compileResult{
		Output:     out,
		OutputPath: outPath,
		Registers:  regs,
		Entry:      entry,
		BuildDir:   buildDir,
	}, nil
}
