package render

import (
	"strings"
	"testing"

	"faraday/internal/types"
)

func TestExpandLongestFirst(t *testing.T) {
	got := Expand("for $idents in $iter", map[string]string{
		"idents": "k, v",
		"iter":   "pairs(t)",
		"ident":  "WRONG",
	})
	if got != "for k, v in pairs(t)" {
		t.Fatalf("got %q", got)
	}
}

func TestParamsTextSeparators(t *testing.T) {
	set := Lua()
	cases := []struct {
		params []string
		want   string
	}{
		{[]string{}, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a, b"},
		{[]string{"a", "b", "c"}, "a, b, c"},
	}
	for _, c := range cases {
		if got := ParamsText(set, c.params); got != c.want {
			t.Fatalf("params %v: got %q, want %q", c.params, got, c.want)
		}
	}
}

func TestFunctionText(t *testing.T) {
	set := Lua()
	fn := types.Function{
		Ident:      "add",
		Arguments:  types.Args{Keys: []string{"x", "y"}},
		Visibility: types.Private,
		Body:       "return x + y",
	}
	got := FunctionText(set, fn)
	if got != "local function add(x, y)\n    return x + y\nend\n" {
		t.Fatalf("got %q", got)
	}
}

func TestAsyncFunctionText(t *testing.T) {
	set := Lua()
	fn := types.Function{
		Ident:      "tick",
		Execution:  types.Async,
		Visibility: types.Public,
		Body:       "return 1",
	}
	got := FunctionText(set, fn)
	if !strings.Contains(got, "coroutine.create") {
		t.Fatalf("async function must render through the coroutine pattern: %q", got)
	}
}

func TestEnumTextSortsVariants(t *testing.T) {
	set := Lua()
	enum := types.Type{
		Ident: "Color",
		Variants: map[string]types.Variable{
			"Red":   {Ident: "Red", Value: "1"},
			"Green": {Ident: "Green", Value: "2"},
		},
		Visibility: types.Public,
	}
	got := TypeText(set, enum)
	want := "Color = {\nGreen = 2,\nRed = 1,\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConditionalClosesOnce(t *testing.T) {
	set := Lua()
	chain := ConditionalText(set, "if", "x > 1", "y = 1", false) +
		ConditionalText(set, "else", "", "y = 2", true)
	if n := strings.Count(chain, set.ConditionalClosing); n != 1 {
		t.Fatalf("chain must emit exactly one closing token, got %d in %q", n, chain)
	}
}

func TestConditionalElseKeywordLine(t *testing.T) {
	set := Lua()
	branch := ConditionalText(set, "else", "", "y = 2", true)
	if strings.Contains(branch, "else ") {
		t.Fatalf("else keyword line carries a trailing space: %q", branch)
	}
	branch = ConditionalText(set, "if", "x > 1", "y = 1", false)
	if !strings.Contains(branch, "if x > 1 then") {
		t.Fatalf("condition separator missing: %q", branch)
	}
}

func TestSwapChangesOutput(t *testing.T) {
	custom := Lua()
	custom.Variable = "$ident := $value;\n"
	prev := Swap(custom)
	defer Swap(prev)

	got := VariableText(Active(), types.Variable{Ident: "x", Value: "1"})
	if got != "x := 1;\n" {
		t.Fatalf("swapped set not in effect: %q", got)
	}
}

func TestCallText(t *testing.T) {
	set := Lua()
	if got := CallText(set, "print", "\"hi\"", false); got != "print(\"hi\")" {
		t.Fatalf("sync call: %q", got)
	}
	if got := CallText(set, "tick", "", true); !strings.Contains(got, "coroutine.resume(tick())") {
		t.Fatalf("async call: %q", got)
	}
}
