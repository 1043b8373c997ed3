package render

import (
	"slices"
	"sort"
	"strings"

	"faraday/internal/types"
)

// Expand substitutes $name placeholders in pattern. Longer names are
// replaced first so $idents never collides with $ident.
func Expand(pattern string, vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	out := pattern
	for _, k := range keys {
		out = strings.ReplaceAll(out, "$"+k, vars[k])
	}
	return out
}

// VisibilityText renders the marker for a visibility level.
func VisibilityText(set TemplateSet, v types.Visibility) string {
	if v == types.Public {
		return set.VisibilityPublic
	}
	return set.VisibilityPrivate
}

// MutabilityText renders the marker for a mutability level.
func MutabilityText(set TemplateSet, m types.Mutability) string {
	if m == types.Constant {
		return set.MutabilityConstant
	}
	return set.MutabilityMutable
}

// ParamsText joins a parameter list: n-1 separators for n entries.
func ParamsText(set TemplateSet, params []string) string {
	var out strings.Builder
	for i, p := range params {
		pattern := set.Arg
		if i == len(params)-1 {
			pattern = set.LastArg
		}
		out.WriteString(Expand(pattern, map[string]string{"param": p}))
	}
	return out.String()
}

// FunctionText renders a function definition through the sync or async
// pattern.
func FunctionText(set TemplateSet, fn types.Function) string {
	pattern := set.Function
	if fn.Execution == types.Async {
		pattern = set.AsyncFunction
	}
	return Expand(pattern, map[string]string{
		"visibility": VisibilityText(set, fn.Visibility),
		"ident":      fn.Ident,
		"args":       ParamsText(set, fn.Arguments.Keys),
		"body":       fn.Body,
	})
}

// VariableText renders a variable declaration.
func VariableText(set TemplateSet, v types.Variable) string {
	return Expand(set.Variable, map[string]string{
		"visibility": VisibilityText(set, v.Visibility),
		"mutability": MutabilityText(set, v.Mutability),
		"ident":      v.Ident,
		"value":      v.Value,
		"typename":   v.Type.Ident,
	})
}

// TypeText renders a type declaration: enums list their variants in sorted
// order, everything else renders as a bare table.
func TypeText(set TemplateSet, t types.Type) string {
	if len(t.Variants) > 0 {
		var body strings.Builder
		names := make([]string, 0, len(t.Variants))
		for name := range t.Variants {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			body.WriteString(Expand(set.EnumField, map[string]string{
				"ident": name,
				"value": t.Variants[name].Value,
			}))
		}
		return Expand(set.Enum, map[string]string{
			"visibility": VisibilityText(set, t.Visibility),
			"ident":      t.Ident,
			"body":       body.String(),
		})
	}
	return Expand(set.Type, map[string]string{
		"visibility": VisibilityText(set, t.Visibility),
		"ident":      t.Ident,
	})
}

// AliasText renders a type alias as a binding to the aliased type.
func AliasText(set TemplateSet, a types.TypeAlias) string {
	return Expand(set.TypeAlias, map[string]string{
		"visibility": VisibilityText(set, a.Visibility),
		"ident":      a.Ident,
		"value":      a.Type.Ident,
	})
}

// CallText renders a call expression; async calls go through the resume
// wrapper pattern.
func CallText(set TemplateSet, ident, args string, async bool) string {
	pattern := set.Call
	if async {
		pattern = set.AsyncCall
	}
	return Expand(pattern, map[string]string{"ident": ident, "args": args})
}

// ConstructorText prefixes the class-imitation boilerplate onto a
// constructor body.
func ConstructorText(set TemplateSet, typeName, body string) string {
	return Expand(set.Constructor, map[string]string{"type": typeName, "body": body})
}

// ForText renders a for loop.
func ForText(set TemplateSet, idents []string, iter, body string) string {
	return Expand(set.For, map[string]string{
		"idents": ParamsText(set, idents),
		"iter":   iter,
		"body":   body,
	})
}

// WhileText renders a while loop.
func WhileText(set TemplateSet, condition, body string) string {
	return Expand(set.While, map[string]string{
		"condition": condition,
		"body":      body,
	})
}

// ConditionalText renders one branch of a conditional chain. Only the
// terminal branch carries the closing token; earlier branches leave their
// rendering open for the next branch to splice into, so a whole chain
// terminates exactly once.
func ConditionalText(set TemplateSet, keyword, condition, body string, terminal bool) string {
	opening := set.ConditionalOpeningNoElse
	if keyword == "else" {
		opening = set.ConditionalOpeningElse
	}
	closing := ""
	if terminal {
		closing = set.ConditionalClosing
	}
	// The separator travels with the condition: else branches have none and
	// must not end their keyword line with a stray space.
	if condition != "" {
		condition = " " + condition
	}
	return Expand(set.Conditional, map[string]string{
		"keyword":   keyword,
		"condition": condition,
		"opening":   opening,
		"body":      body,
		"closing":   closing,
	})
}

// UseText renders a module import binding.
func UseText(set TemplateSet, ident, path string) string {
	return Expand(set.Use, map[string]string{"ident": ident, "path": path})
}
