// Package types holds the nominal entities the compiler tracks: types,
// struct fields, variables, functions and aliases.
package types

import "strings"

// Built-in type names seeded into every fresh symbol table.
const (
	NameEmpty    = "empty"
	NameEmptyAlt = "#"
	NameAny      = "any"
	NameInt      = "int"
	NameFloat    = "float"
	NameNumber   = "number"
	NameBool     = "bool"
	NameString   = "String"
	NameTable    = "Table"
	NameRef      = "ref"
)

// StructField is one declared field of a struct. Immutable once declared.
type StructField struct {
	Ident      string
	Type       Type
	Visibility Visibility
}

// Variable is a named binding: let/const declarations, parameters, loop
// indices and module aliases. Value holds the already-rendered target text.
type Variable struct {
	Ident      string
	Type       Type
	Value      string
	Visibility Visibility
	Mutability Mutability
	Referenced bool
}

// Args keeps function parameters in declaration order, names parallel to
// types.
type Args struct {
	Keys  []string
	Types []Type
}

// Get returns the name and required type of the parameter at index.
func (a Args) Get(index int) (string, Type, bool) {
	if index < 0 || index >= len(a.Keys) {
		return "", Type{}, false
	}
	return a.Keys[index], a.Types[index], true
}

// Function is a typed function definition. Ident is dotted for static
// members ("Point.new") and colon-joined for associated methods
// ("Point:get"). Body is fully rendered target text.
type Function struct {
	Ident       string
	Arguments   Args
	ReturnType  Type
	Body        string
	Visibility  Visibility
	Execution   Execution
	Association Association
}

// Type is the nominal type entity. Exactly one of Properties/Variants is
// populated for struct-like respectively enum-like types; both stay empty for
// primitives.
type Type struct {
	Ident      string
	Generics   []string
	Properties map[string]StructField
	Variants   map[string]Variable
	Visibility Visibility
}

// TypeAlias binds a new ident to an existing type's full definition.
type TypeAlias struct {
	Ident      string
	Type       Type
	Visibility Visibility
}

// New builds a plain named type with no generics.
func New(ident string) Type {
	return Type{Ident: ident}
}

// NewGeneric builds a named type carrying generic parameter names.
func NewGeneric(ident string, generics ...string) Type {
	return Type{Ident: ident, Generics: generics}
}

// localIdent strips one leading namespace segment: "m.Point" -> "Point".
func localIdent(ident string) string {
	if _, rest, ok := strings.Cut(ident, "."); ok {
		return rest
	}
	return ident
}

// Equal implements nominal equality. Either side being "any" matches
// unconditionally; otherwise idents are compared after stripping one level of
// namespace prefix. Generics never participate; they are validated
// separately at declaration and use sites.
func (t Type) Equal(other Type) bool {
	if t.Ident == NameAny || other.Ident == NameAny {
		return true
	}
	return localIdent(t.Ident) == localIdent(other.Ident)
}

// IsTable reports whether the type is the built-in open map type, which
// bypasses property-existence checks entirely.
func (t Type) IsTable() bool {
	return localIdent(t.Ident) == NameTable
}

// IsString reports whether the type is the built-in string type.
func (t Type) IsString() bool {
	return localIdent(t.Ident) == NameString
}

// Clone deep-copies the type so a scope clone can never alias the parent's
// field or variant maps.
func (t Type) Clone() Type {
	out := t
	if t.Generics != nil {
		out.Generics = append([]string(nil), t.Generics...)
	}
	if t.Properties != nil {
		out.Properties = make(map[string]StructField, len(t.Properties))
		for k, v := range t.Properties {
			out.Properties[k] = v
		}
	}
	if t.Variants != nil {
		out.Variants = make(map[string]Variable, len(t.Variants))
		for k, v := range t.Variants {
			out.Variants[k] = v
		}
	}
	return out
}
