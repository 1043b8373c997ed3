package compiler

import (
	"os"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"faraday/internal/symbols"
	"faraday/internal/types"
)

// exportable reports whether a name belongs in the export manifest: public
// entries only, and never dotted, colon-joined, indexed or bootstrap names.
func exportable(name string) bool {
	if strings.HasPrefix(name, "@@") {
		return false
	}
	return plainIdent(name)
}

// exportManifest appends the module's public surface as a returned table, so
// importers can require the compiled file directly. Files with nothing
// public export nothing.
func exportManifest(regs *symbols.Registers) string {
	section := func(names []string) []string {
		sort.Strings(names)
		return names
	}

	var typeNames, fnNames, varNames []string
	for name, t := range regs.Types {
		if exportable(name) && t.Visibility == types.Public {
			typeNames = append(typeNames, name)
		}
	}
	for name, fn := range regs.Functions {
		if exportable(name) && fn.Visibility == types.Public {
			fnNames = append(fnNames, name)
		}
	}
	for name, v := range regs.Variables {
		// Types register a carrier variable under their own name; the
		// manifest lists them once, under types.
		if _, isType := regs.Types[name]; isType {
			continue
		}
		if exportable(name) && v.Visibility == types.Public {
			varNames = append(varNames, name)
		}
	}
	if len(typeNames)+len(fnNames)+len(varNames) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString("\n-- faraday.module\nreturn {\n")
	write := func(header string, names []string) {
		if len(names) == 0 {
			return
		}
		out.WriteString("    -- faraday.registers:" + header + "\n")
		for _, name := range section(names) {
			out.WriteString("    " + name + " = " + name + ",\n")
		}
	}
	write("types", typeNames)
	write("functions", fnNames)
	write("variables", varNames)
	out.WriteString("}\n")
	return out.String()
}

// Symbol is one entry of the machine-readable symbol manifest.
type Symbol struct {
	Name string
	Kind string
	Type string
}

// SymbolManifest is the msgpack artifact build --emit-symbols writes next to
// the compiled output, for editor tooling and build introspection.
type SymbolManifest struct {
	Source  string
	Symbols []Symbol
}

// WriteSymbols serializes the public surface of regs to path.
func WriteSymbols(path, sourcePath string, regs *symbols.Registers) error {
	manifest := SymbolManifest{Source: sourcePath}
	for name, t := range regs.Types {
		if exportable(name) && t.Visibility == types.Public {
			manifest.Symbols = append(manifest.Symbols, Symbol{Name: name, Kind: "type", Type: t.Ident})
		}
	}
	for name, fn := range regs.Functions {
		if exportable(name) && fn.Visibility == types.Public {
			manifest.Symbols = append(manifest.Symbols, Symbol{Name: name, Kind: "function", Type: fn.ReturnType.Ident})
		}
	}
	for name, v := range regs.Variables {
		// Carrier variables duplicate their type's entry; list types once.
		if _, isType := regs.Types[name]; isType {
			continue
		}
		if exportable(name) && v.Visibility == types.Public {
			manifest.Symbols = append(manifest.Symbols, Symbol{Name: name, Kind: "variable", Type: v.Type.Ident})
		}
	}
	sort.Slice(manifest.Symbols, func(i, j int) bool {
		return manifest.Symbols[i].Name < manifest.Symbols[j].Name
	})

	raw, err := msgpack.Marshal(manifest)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
