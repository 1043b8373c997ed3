// Package render is the only place concrete target syntax lives. Builders
// and checkers hand it semantic entities; swapping the active TemplateSet
// changes all output syntax without touching either.
package render

import (
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

// TemplateSet holds one string pattern per renderable entity kind.
// Placeholders are "$name" tokens substituted by Expand.
type TemplateSet struct {
	// An argument in a parameter list, except the last one. Variables: $param
	Arg string `toml:"arg"`
	// The last argument in a parameter list. Variables: $param
	LastArg string `toml:"last_arg"`
	// An asynchronous function. Variables: $visibility, $ident, $args, $body
	AsyncFunction string `toml:"async_function"`
	// A synchronous function. Variables: $visibility, $ident, $args, $body
	Function string `toml:"function"`
	// A variable declaration. Variables: $visibility, $mutability, $ident, $value, $typename
	Variable string `toml:"variable"`
	// A struct-like type. Variables: $visibility, $ident
	Type string `toml:"type"`
	// An enum definition. Variables: $visibility, $ident, $body
	Enum string `toml:"enum"`
	// One enum field. Variables: $ident, $value
	EnumField string `toml:"enum_field"`
	// A type alias. Variables: $visibility, $ident, $value
	TypeAlias string `toml:"type_alias"`
	// Constructor boilerplate prefixed to a static "new" body. Variables: $type, $body
	Constructor string `toml:"constructor"`
	// Visibility markers.
	VisibilityPublic  string `toml:"visibility_public"`
	VisibilityPrivate string `toml:"visibility_private"`
	// Mutability markers.
	MutabilityMutable  string `toml:"mutability_mutable"`
	MutabilityConstant string `toml:"mutability_constant"`
	// An asynchronous call. Variables: $ident, $args
	AsyncCall string `toml:"async_call"`
	// A synchronous call. Variables: $ident, $args
	Call string `toml:"call"`
	// A for loop. Variables: $idents, $iter, $body
	For string `toml:"for"`
	// A while loop. Variables: $condition, $body
	While string `toml:"while"`
	// A conditional branch. Variables: $keyword, $condition, $opening, $body,
	// $closing. A non-empty $condition carries its own leading separator, so
	// an else branch renders without a dangling one.
	Conditional string `toml:"conditional"`
	// Branch opening marker for else branches.
	ConditionalOpeningElse string `toml:"conditional_opening_else"`
	// Branch opening marker for if/elseif branches.
	ConditionalOpeningNoElse string `toml:"conditional_opening_no_else"`
	// The single terminating token of a conditional chain.
	ConditionalClosing string `toml:"conditional_closing"`
	// A module import. Variables: $ident, $path
	Use string `toml:"use"`
}

// Lua returns the default target configuration.
func Lua() TemplateSet {
	return TemplateSet{
		Arg:                      "$param, ",
		LastArg:                  "$param",
		AsyncFunction:            "$visibility$ident = function ($args)\n   return coroutine.create(function ()\n    $body\nend)\nend\n",
		Function:                 "$visibilityfunction $ident($args)\n    $body\nend\n",
		Variable:                 "$visibility$ident = $value\n",
		Type:                     "$visibility$ident = {}\n",
		Enum:                     "$visibility$ident = {\n$body}\n",
		EnumField:                "$ident = $value,\n",
		TypeAlias:                "$visibility$ident = $value\n",
		Constructor:              "$type.__index = $type\nlocal self = {}\nsetmetatable(self, $type)\n$body\nreturn self",
		VisibilityPublic:         "",
		VisibilityPrivate:        "local ",
		MutabilityMutable:        "",
		MutabilityConstant:       "",
		AsyncCall:                "select(2, coroutine.resume($ident($args)))",
		Call:                     "$ident($args)",
		For:                      "for $idents in $iter do\n$body\nend\n",
		While:                    "while $condition do\n$body\nend\n",
		Conditional:              "\n$keyword$condition$opening\n$body\n$closing",
		ConditionalOpeningElse:   "",
		ConditionalOpeningNoElse: " then",
		ConditionalClosing:       "end\n",
		Use:                      "local $ident = require \"$path\"\n",
	}
}

// The active set is read-mostly and exclusively swapped.
var active = struct {
	mu  sync.RWMutex
	set TemplateSet
}{set: Lua()}

// Active returns a copy of the current template set.
func Active() TemplateSet {
	active.mu.RLock()
	defer active.mu.RUnlock()
	return active.set
}

// Swap installs a new template set and returns the previous one.
func Swap(set TemplateSet) TemplateSet {
	active.mu.Lock()
	defer active.mu.Unlock()
	prev := active.set
	active.set = set
	return prev
}

// Load reads a template set from a TOML file. Fields absent from the file
// keep their Lua defaults, so a target override only lists what changes.
func Load(path string) (TemplateSet, error) {
	set := Lua()
	if _, err := toml.DecodeFile(path, &set); err != nil {
		return TemplateSet{}, err
	}
	return set, nil
}

// Save writes a template set as TOML.
func Save(path string, set TemplateSet) error {
	f, err := os.Create(path) // #nosec G304 -- path comes from the caller
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(set)
}
