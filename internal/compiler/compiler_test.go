package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"faraday/internal/diag"
	"faraday/internal/parser"
	"faraday/internal/source"
	"faraday/internal/symbols"
	"faraday/internal/types"
)

func compileSource(t *testing.T, src string, checkOnly bool) (string, *symbols.Registers, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("main.fd", []byte(src))
	nodes, err := parser.ParseFile(fs, id)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := New(fs, parser.ParseFile, Options{BuildDir: t.TempDir()})
	regs := symbols.New()
	Bootstrap(regs, "main.fd", checkOnly)
	return c.Process(nodes, regs)
}

func TestStructPropertyResolution(t *testing.T) {
	src := `struct Point { pub x: int, pub y: int }
let p: Point = Point{}
`
	_, regs, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	x, err := regs.GetVar("p.x")
	if err != nil {
		t.Fatalf("p.x: %v", err)
	}
	if x.Type.Ident != types.NameInt {
		t.Fatalf("p.x type = %q, want int", x.Type.Ident)
	}

	_, err = regs.GetVar("p.z")
	if diag.CodeOf(err) != diag.NoSuchProperty {
		t.Fatalf("p.z err = %v, want NoSuchProperty", err)
	}
}

func TestConstReassignFails(t *testing.T) {
	src := `const x: int = 1
x = 2
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.CannotAssignConst {
		t.Fatalf("err = %v, want CannotAssignConst", err)
	}
}

func TestVariableTypeMismatch(t *testing.T) {
	src := `let x: int = "hi"
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.InvalidType {
		t.Fatalf("err = %v, want InvalidType", err)
	}
}

func TestReferenceRule(t *testing.T) {
	src := `let a: int = 5
let b: int = a
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.ExpectedReference {
		t.Fatalf("err = %v, want ExpectedReference", err)
	}

	src = `let ref a: int = 5
let b: int = a
`
	_, regs, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := regs.ShallowGetVar("b")
	if err != nil {
		t.Fatalf("b: %v", err)
	}
	if b.Type.Ident != types.NameRef || b.Value != "a" {
		t.Fatalf("b = %+v, want ref binding to a", b)
	}
}

func TestTableGenericsChecked(t *testing.T) {
	src := `let d: Table = {}
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.InvalidGenericCount {
		t.Fatalf("err = %v, want InvalidGenericCount", err)
	}

	src = `let d: Table<String, int> = {}
`
	if _, _, err := compileSource(t, src, false); err != nil {
		t.Fatalf("compile: %v", err)
	}
}

func TestCallArgumentRendering(t *testing.T) {
	src := `fn add(x: int, y: int) -> int { return x + y }
add(1, 2)
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out, "add(1, 2)") {
		t.Fatalf("output missing call:\n%s", out)
	}
}

func TestCallArgumentTypeChecked(t *testing.T) {
	src := `fn add(x: int, y: int) -> int { return x + y }
add("no", 2)
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.InvalidType {
		t.Fatalf("err = %v, want InvalidType", err)
	}
}

func TestConditionalChainSingleClosing(t *testing.T) {
	src := `if x > 1 { print("a") } elseif x > 0 { print("b") } else { print("c") }
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := strings.Count(out, "end"); got != 1 {
		t.Fatalf("closing tokens = %d, want 1:\n%s", got, out)
	}
	for _, want := range []string{"if x > 1 then", "elseif x > 0 then", "else"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestForLoopScope(t *testing.T) {
	src := `let d: Table<String, int> = {}
for k, v in pairs(d) { print(k) }
print(k)
`
	// The loop ident stays scoped to the body; the trailing print(k) is a
	// raw unchecked argument only if k resolves, so expect a failure.
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.NoSuchVariable {
		t.Fatalf("err = %v, want NoSuchVariable", err)
	}

	src = `let d: Table<String, int> = {}
for k, v in pairs(d) { print(k) }
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out, "for k, v in pairs(d) do") {
		t.Fatalf("output missing loop header:\n%s", out)
	}
}

func TestEnumVariants(t *testing.T) {
	src := `enum Color { Red = 1, Green = 2 }
`
	out, regs, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	red, err := regs.GetVar("Color.Red")
	if err != nil {
		t.Fatalf("Color.Red: %v", err)
	}
	if red.Type.Ident != types.NameInt {
		t.Fatalf("Color.Red type = %q, want int", red.Type.Ident)
	}
	_, err = regs.GetVar("Color.Blue")
	if diag.CodeOf(err) != diag.NoSuchVariant {
		t.Fatalf("Color.Blue err = %v, want NoSuchVariant", err)
	}
	if !strings.Contains(out, "Red = 1,") {
		t.Fatalf("output missing variant:\n%s", out)
	}
}

func TestImplRegistersMethods(t *testing.T) {
	src := `struct Point { pub x: int }
impl Point {
	fn new() -> Point { return 0 }
	fn get(self) -> int { return self.x }
}
let p: Point = Point{}
p:get()
`
	out, regs, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := regs.Functions["Point.new"]; !ok {
		t.Fatalf("Point.new not registered")
	}
	fn, ok := regs.Functions["Point:get"]
	if !ok {
		t.Fatalf("Point:get not registered")
	}
	if fn.Association != types.AssociatedAssociation || fn.Visibility != types.Public {
		t.Fatalf("Point:get = %+v", fn)
	}
	if !strings.Contains(out, "Point.__index = Point") {
		t.Fatalf("output missing constructor boilerplate:\n%s", out)
	}
	if !strings.Contains(out, "p:get()") {
		t.Fatalf("output missing method call:\n%s", out)
	}
}

func TestImplOrderIndependence(t *testing.T) {
	src := `struct Counter { pub n: int }
impl Counter {
	fn bump(self) -> int { return self:peek() }
	fn peek(self) -> int { return self.n }
}
`
	if _, _, err := compileSource(t, src, false); err != nil {
		t.Fatalf("compile: %v", err)
	}
}

func TestImplUnknownSubject(t *testing.T) {
	src := `impl Ghost { fn haunt(self) { return 0 } }
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.NoSuchType {
		t.Fatalf("err = %v, want NoSuchType", err)
	}
}

func TestAsyncCallRendering(t *testing.T) {
	src := `async fn tick() { print("t") }
#tick()
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out, "coroutine.create") {
		t.Fatalf("output missing async function wrapper:\n%s", out)
	}
	if !strings.Contains(out, "select(2, coroutine.resume(tick()))") {
		t.Fatalf("output missing async call wrapper:\n%s", out)
	}
}

func TestCheckOnlyEmitsNothing(t *testing.T) {
	src := `fn add(x: int, y: int) -> int { return x + y }
let z: int = add(1, 2)
`
	out, regs, err := compileSource(t, src, true)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if out != "" {
		t.Fatalf("check-only output = %q, want empty", out)
	}
	// Checking still registers everything.
	if _, err := regs.GetFn("add"); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestReassignRawExpressionBypasses(t *testing.T) {
	src := `let ref x: int = 5
x = x + 1
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out, "x = x + 1") {
		t.Fatalf("output missing reassignment:\n%s", out)
	}
}

func TestUnknownStatementPassesThrough(t *testing.T) {
	src := `goto continue
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out, "goto continue") {
		t.Fatalf("output missing raw statement:\n%s", out)
	}
}

func TestModuleImport(t *testing.T) {
	dir := t.TempDir()
	lib := `pub fn greet(name: String) -> String { return name }
`
	if err := os.WriteFile(filepath.Join(dir, "lib.fd"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}
	main := `use "lib" as m
m.greet("hi")
`
	mainPath := filepath.Join(dir, "main.fd")
	if err := os.WriteFile(mainPath, []byte(main), 0o644); err != nil {
		t.Fatal(err)
	}

	buildDir := t.TempDir()
	c := New(source.NewFileSet(), parser.ParseFile, Options{BuildDir: buildDir})
	out, regs, err := c.ProcessFile(mainPath, symbols.New(), false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if _, err := regs.GetFn("m.greet"); err != nil {
		t.Fatalf("m.greet: %v", err)
	}
	if !strings.Contains(out, `local m = require "lib"`) {
		t.Fatalf("output missing require:\n%s", out)
	}
	if !strings.Contains(out, `m.greet("hi")`) {
		t.Fatalf("output missing namespaced call:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(buildDir, "lib"+TargetExt)); err != nil {
		t.Fatalf("imported module output not mirrored: %v", err)
	}
}

func TestExportManifest(t *testing.T) {
	dir := t.TempDir()
	src := `pub struct Point { pub x: int }
pub fn origin() -> Point { return 0 }
fn hidden() { return 0 }
pub let answer: int = 42
`
	path := filepath.Join(dir, "main.fd")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(source.NewFileSet(), parser.ParseFile, Options{BuildDir: t.TempDir()})
	out, _, err := c.ProcessFile(path, symbols.New(), false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if !strings.Contains(out, "-- faraday.module") {
		t.Fatalf("output missing manifest header:\n%s", out)
	}
	for _, want := range []string{"Point = Point,", "origin = origin,", "answer = answer,"} {
		if !strings.Contains(out, want) {
			t.Fatalf("manifest missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden = hidden") {
		t.Fatalf("manifest leaks private function:\n%s", out)
	}
}

func TestWhileLoop(t *testing.T) {
	src := `let ref n: int = 0
while n < 3 { n = n + 1 }
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !strings.Contains(out, "while n < 3 do") {
		t.Fatalf("output missing loop header:\n%s", out)
	}
}

func TestWriteSymbols(t *testing.T) {
	src := `pub fn origin() -> int { return 0 }
`
	_, regs, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	path := filepath.Join(t.TempDir(), "main.symbols")
	if err := WriteSymbols(path, "main.fd", regs); err != nil {
		t.Fatalf("write symbols: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil || len(raw) == 0 {
		t.Fatalf("manifest empty or unreadable: %v", err)
	}
}

func TestMacroUnknownSplice(t *testing.T) {
	ResetMacros()
	src := `shout!("hi")
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.NoSuchFunction {
		t.Fatalf("err = %v, want NoSuchFunction", err)
	}
}

func TestMacroDefinitionStoresQuietly(t *testing.T) {
	ResetMacros()
	src := `macro shout(word: String) -> String { return word }
`
	out, _, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if out != "" {
		t.Fatalf("macro definition emitted %q, want nothing", out)
	}
	macroStore.mu.Lock()
	_, ok := macroStore.m["shout"]
	macroStore.mu.Unlock()
	if !ok {
		t.Fatalf("macro not stored")
	}
}

func TestTypeAliasCopiesDefinition(t *testing.T) {
	src := `type Dict = Table<String, int>
let d: Dict<String, int> = {}
`
	out, regs, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	alias, err := regs.GetType("Dict")
	if err != nil {
		t.Fatalf("Dict: %v", err)
	}
	if len(alias.Generics) != 2 || alias.Generics[0] != "String" || alias.Generics[1] != "int" {
		t.Fatalf("alias generics = %v, want [String int]", alias.Generics)
	}

	d, err := regs.GetVar("d")
	if err != nil {
		t.Fatalf("d: %v", err)
	}
	if d.Type.Ident != "Dict" {
		t.Fatalf("d type = %q, want Dict", d.Type.Ident)
	}
	if !strings.Contains(out, "Dict = Table") {
		t.Fatalf("output missing alias binding:\n%s", out)
	}
}

func TestTypeAliasGenericCountEnforced(t *testing.T) {
	src := `type Dict = Table<String, int>
let d: Dict = {}
`
	_, _, err := compileSource(t, src, false)
	if diag.CodeOf(err) != diag.InvalidGenericCount {
		t.Fatalf("err = %v, want InvalidGenericCount", err)
	}
}

func TestMacroSpliceRunsInterpreter(t *testing.T) {
	ResetMacros()
	interp := filepath.Join(t.TempDir(), "interp")
	if err := os.WriteFile(interp, []byte("#!/bin/sh\necho 42\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	fs := source.NewFileSet()
	id := fs.Add("main.fd", []byte(`macro shout(word: String) -> String { return word }
let x: int = shout!("hi")
`))
	nodes, err := parser.ParseFile(fs, id)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := New(fs, parser.ParseFile, Options{BuildDir: t.TempDir(), Interpreter: interp})
	regs := symbols.New()
	Bootstrap(regs, "main.fd", false)
	out, _, err := c.Process(nodes, regs)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if !strings.Contains(out, "42") {
		t.Fatalf("interpreter output not spliced:\n%s", out)
	}
	if strings.Contains(out, "shout") {
		t.Fatalf("macro body leaked into output:\n%s", out)
	}
}

func TestPublicImportReExported(t *testing.T) {
	dir := t.TempDir()
	lib := `pub fn greet(name: String) -> String { return name }
`
	if err := os.WriteFile(filepath.Join(dir, "lib.fd"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}
	main := `pub use "lib" as m
`
	mainPath := filepath.Join(dir, "main.fd")
	if err := os.WriteFile(mainPath, []byte(main), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(source.NewFileSet(), parser.ParseFile, Options{BuildDir: t.TempDir()})
	out, regs, err := c.ProcessFile(mainPath, symbols.New(), false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	alias, err := regs.ShallowGetVar("m")
	if err != nil {
		t.Fatalf("m: %v", err)
	}
	if alias.Visibility != types.Public {
		t.Fatalf("pub use alias visibility = %v, want public", alias.Visibility)
	}
	if !strings.Contains(out, "m = m,") {
		t.Fatalf("export manifest missing re-exported alias:\n%s", out)
	}

	private := `use "lib" as m
`
	privatePath := filepath.Join(dir, "private.fd")
	if err := os.WriteFile(privatePath, []byte(private), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err = c.ProcessFile(privatePath, symbols.New(), false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if strings.Contains(out, "m = m,") {
		t.Fatalf("plain use alias leaked into manifest:\n%s", out)
	}
}

func TestWriteSymbolsListsTypesOnce(t *testing.T) {
	src := `pub struct Point { pub x: int }
`
	_, regs, err := compileSource(t, src, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	path := filepath.Join(t.TempDir(), "main.symbols")
	if err := WriteSymbols(path, "main.fd", regs); err != nil {
		t.Fatalf("write symbols: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var manifest SymbolManifest
	if err := msgpack.Unmarshal(raw, &manifest); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var hits int
	for _, s := range manifest.Symbols {
		if s.Name == "Point" {
			hits++
			if s.Kind != "type" {
				t.Fatalf("Point kind = %q, want type", s.Kind)
			}
		}
	}
	if hits != 1 {
		t.Fatalf("Point listed %d times, want once", hits)
	}
}
