// Package symbols implements Registers, the compiler's scoped symbol table.
// Registers are value objects: every nested lexical scope compiles against a
// clone, and mutations inside a scope stay invisible to the caller unless
// explicitly merged back.
package symbols

import (
	"strings"

	"faraday/internal/diag"
	"faraday/internal/types"
)

// Registers holds the three namespaces of one scope.
type Registers struct {
	Types     map[string]types.Type
	Functions map[string]types.Function
	Variables map[string]types.Variable
}

// New returns Registers seeded with the built-in prelude.
func New() *Registers {
	typeMap, fnMap := prelude()
	r := &Registers{
		Types:     make(map[string]types.Type, len(typeMap)),
		Functions: make(map[string]types.Function, len(fnMap)),
		Variables: make(map[string]types.Variable),
	}
	for k, v := range typeMap {
		r.Types[k] = v.Clone()
	}
	for k, v := range fnMap {
		r.Functions[k] = v
	}
	return r
}

// Clone copies the table for a nested scope. Type entries are deep-copied so
// neither side can alias the other's field or variant maps.
func (r *Registers) Clone() *Registers {
	out := &Registers{
		Types:     make(map[string]types.Type, len(r.Types)),
		Functions: make(map[string]types.Function, len(r.Functions)),
		Variables: make(map[string]types.Variable, len(r.Variables)),
	}
	for k, v := range r.Types {
		out.Types[k] = v.Clone()
	}
	for k, v := range r.Functions {
		out.Functions[k] = v
	}
	for k, v := range r.Variables {
		out.Variables[k] = v
	}
	return out
}

// MergeNamespaced imports every entry of child under "<prefix>.<name>".
// Used by the module linker and compatible with the single-segment stripping
// in type equality.
func (r *Registers) MergeNamespaced(prefix string, child *Registers) {
	for k, v := range child.Types {
		r.Types[prefix+"."+k] = v
	}
	for k, v := range child.Functions {
		r.Functions[prefix+"."+k] = v
	}
	for k, v := range child.Variables {
		r.Variables[prefix+"."+k] = v
	}
}

// GetType resolves a type name directly.
func (r *Registers) GetType(key string) (types.Type, error) {
	if t, ok := r.Types[key]; ok {
		return t, nil
	}
	return types.Type{}, diag.Errorf(diag.NoSuchType, "no such type: %q", key)
}

// definitionOf expands a use-site type reference into its full declared
// definition; built-ins and unregistered carriers fall back to the reference
// itself.
func (r *Registers) definitionOf(ref types.Type) types.Type {
	if t, ok := r.Types[ref.Ident]; ok {
		return t
	}
	return ref
}

// ShallowGetVar resolves a plain identifier, skipping the dotted and indexed
// tiers.
func (r *Registers) ShallowGetVar(key string) (types.Variable, error) {
	if v, ok := r.Variables[key]; ok {
		return v, nil
	}
	return types.Variable{}, diag.Errorf(diag.NoSuchVariable, "no such variable: %q", key)
}

// GetVar resolves a variable through three tiers: dotted property access,
// indexed access, then plain lookup.
func (r *Registers) GetVar(key string) (types.Variable, error) {
	bracket := strings.Index(key, "[")
	dot := strings.Index(key, ".")

	switch {
	case dot >= 0 && (bracket < 0 || dot < bracket):
		root, prop, _ := strings.Cut(key, ".")
		return r.propertyVar(key, root, prop)
	case bracket >= 0:
		return r.indexedVar(key, key[:bracket])
	default:
		return r.ShallowGetVar(key)
	}
}

func (r *Registers) propertyVar(key, root, prop string) (types.Variable, error) {
	base, err := r.ShallowGetVar(root)
	if err != nil {
		return types.Variable{}, err
	}

	// The open map type bypasses property checks entirely.
	if base.Type.IsTable() {
		return types.Variable{Ident: key, Type: types.New(types.NameAny)}, nil
	}

	def := r.definitionOf(base.Type)
	if field, ok := def.Properties[prop]; ok {
		return types.Variable{Ident: key, Type: field.Type, Visibility: field.Visibility}, nil
	}
	if variant, ok := def.Variants[prop]; ok {
		variant.Ident = key
		return variant, nil
	}
	if len(def.Variants) > 0 {
		return types.Variable{}, diag.Errorf(diag.NoSuchVariant, "no such variant: %q", def.Ident+"."+prop)
	}
	return types.Variable{}, diag.Errorf(diag.NoSuchProperty, "no such property: %q", def.Ident+"."+prop)
}

func (r *Registers) indexedVar(key, root string) (types.Variable, error) {
	base, err := r.ShallowGetVar(root)
	if err != nil {
		return types.Variable{}, err
	}

	if base.Type.IsTable() {
		// Indexing an open map yields its value generic.
		value := types.NameAny
		if len(base.Type.Generics) == 2 {
			value = base.Type.Generics[1]
		}
		return types.Variable{Ident: key, Type: types.New(value)}, nil
	}
	if base.Type.IsString() {
		// String slicing.
		return types.Variable{Ident: key, Type: types.New(types.NameString)}, nil
	}
	return types.Variable{}, diag.Errorf(diag.InvalidType, "cannot index into %q (type %q)", root, base.Type.Ident)
}

// GetFn resolves a function name. "recv:method" resolves recv as a variable
// and looks up the method under its type's ident.
func (r *Registers) GetFn(key string) (types.Function, error) {
	if recv, method, ok := strings.Cut(key, ":"); ok {
		v, err := r.ShallowGetVar(recv)
		if err != nil {
			return types.Function{}, err
		}
		qualified := v.Type.Ident + ":" + method
		if fn, found := r.Functions[qualified]; found {
			return fn, nil
		}
		return types.Function{}, diag.Errorf(diag.NoSuchFunction, "no such function: %q", qualified)
	}
	if fn, ok := r.Functions[key]; ok {
		return fn, nil
	}
	return types.Function{}, diag.Errorf(diag.NoSuchFunction, "no such function: %q", key)
}

// CheckGenerics validates a use site's generic arguments against the
// declaring site: the count must match exactly and every supplied name must
// resolve to a registered type.
func (r *Registers) CheckGenerics(t types.Type, supplied []string) error {
	if len(supplied) != len(t.Generics) {
		return diag.Errorf(diag.InvalidGenericCount,
			"%q expects %d generic(s), got %d", t.Ident, len(t.Generics), len(supplied))
	}
	for _, name := range supplied {
		if _, err := r.GetType(name); err != nil {
			return err
		}
	}
	return nil
}
