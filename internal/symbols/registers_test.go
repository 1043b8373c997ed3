package symbols

import (
	"testing"

	"faraday/internal/diag"
	"faraday/internal/types"
)

func declarePoint(r *Registers) {
	point := types.Type{
		Ident: "Point",
		Properties: map[string]types.StructField{
			"x": {Ident: "x", Type: types.New(types.NameInt), Visibility: types.Public},
			"y": {Ident: "y", Type: types.New(types.NameInt), Visibility: types.Public},
		},
		Visibility: types.Public,
	}
	r.Types["Point"] = point
	r.Variables["p"] = types.Variable{Ident: "p", Type: types.New("Point")}
}

func TestGetVarProperty(t *testing.T) {
	r := New()
	declarePoint(r)

	v, err := r.GetVar("p.x")
	if err != nil {
		t.Fatalf("p.x: %v", err)
	}
	if v.Type.Ident != types.NameInt {
		t.Fatalf("p.x type: got %q", v.Type.Ident)
	}
}

func TestGetVarMissingProperty(t *testing.T) {
	r := New()
	declarePoint(r)

	_, err := r.GetVar("p.z")
	if diag.CodeOf(err) != diag.NoSuchProperty {
		t.Fatalf("expected NoSuchProperty, got %v", err)
	}
}

func TestGetVarTableBypassesPropertyCheck(t *testing.T) {
	r := New()
	r.Variables["t"] = types.Variable{Ident: "t", Type: types.NewGeneric(types.NameTable, "K", "V")}

	v, err := r.GetVar("t.anything")
	if err != nil {
		t.Fatalf("table access: %v", err)
	}
	if v.Type.Ident != types.NameAny {
		t.Fatalf("table access must yield any, got %q", v.Type.Ident)
	}
}

func TestGetVarIndexed(t *testing.T) {
	r := New()
	r.Variables["t"] = types.Variable{Ident: "t", Type: types.NewGeneric(types.NameTable, types.NameString, types.NameInt)}
	r.Variables["s"] = types.Variable{Ident: "s", Type: types.New(types.NameString)}
	r.Variables["n"] = types.Variable{Ident: "n", Type: types.New(types.NameInt)}

	v, err := r.GetVar("t[0]")
	if err != nil || v.Type.Ident != types.NameInt {
		t.Fatalf("t[0]: got %q, err %v", v.Type.Ident, err)
	}
	v, err = r.GetVar("s[1]")
	if err != nil || v.Type.Ident != types.NameString {
		t.Fatalf("s[1]: got %q, err %v", v.Type.Ident, err)
	}
	_, err = r.GetVar("n[2]")
	if diag.CodeOf(err) != diag.InvalidType {
		t.Fatalf("indexing an int must fail InvalidType, got %v", err)
	}
}

func TestGetVarEnumVariant(t *testing.T) {
	r := New()
	r.Types["Color"] = types.Type{
		Ident: "Color",
		Variants: map[string]types.Variable{
			"Red": {Ident: "Red", Type: types.New(types.NameInt), Value: "1"},
		},
	}
	r.Variables["Color"] = types.Variable{Ident: "Color", Type: types.New("Color")}

	v, err := r.GetVar("Color.Red")
	if err != nil {
		t.Fatalf("Color.Red: %v", err)
	}
	if v.Value != "1" {
		t.Fatalf("variant value: got %q", v.Value)
	}
	_, err = r.GetVar("Color.Blue")
	if diag.CodeOf(err) != diag.NoSuchVariant {
		t.Fatalf("expected NoSuchVariant, got %v", err)
	}
}

func TestGetFnAssociated(t *testing.T) {
	r := New()
	declarePoint(r)
	r.Functions["Point:get"] = types.Function{
		Ident:       "Point:get",
		ReturnType:  types.New(types.NameInt),
		Association: types.AssociatedAssociation,
	}

	fn, err := r.GetFn("p:get")
	if err != nil {
		t.Fatalf("p:get: %v", err)
	}
	if fn.Ident != "Point:get" {
		t.Fatalf("resolved %q", fn.Ident)
	}
	_, err = r.GetFn("p:missing")
	if diag.CodeOf(err) != diag.NoSuchFunction {
		t.Fatalf("expected NoSuchFunction, got %v", err)
	}
}

func TestCheckGenericsExactCount(t *testing.T) {
	r := New()
	table, err := r.GetType(types.NameTable)
	if err != nil {
		t.Fatalf("Table missing from prelude: %v", err)
	}

	if err := r.CheckGenerics(table, []string{types.NameString, types.NameInt}); err != nil {
		t.Fatalf("two generics must pass: %v", err)
	}
	err = r.CheckGenerics(table, []string{types.NameString})
	if diag.CodeOf(err) != diag.InvalidGenericCount {
		t.Fatalf("one generic must fail InvalidGenericCount, got %v", err)
	}
	err = r.CheckGenerics(table, []string{types.NameString, types.NameInt, types.NameFloat})
	if diag.CodeOf(err) != diag.InvalidGenericCount {
		t.Fatalf("three generics must fail InvalidGenericCount, got %v", err)
	}
	err = r.CheckGenerics(table, []string{types.NameString, "Missing"})
	if diag.CodeOf(err) != diag.NoSuchType {
		t.Fatalf("unknown generic must fail NoSuchType, got %v", err)
	}
}

func TestCloneIsolation(t *testing.T) {
	parent := New()
	declarePoint(parent)

	child := parent.Clone()
	child.Variables["local"] = types.Variable{Ident: "local", Type: types.New(types.NameInt)}
	childPoint := child.Types["Point"]
	childPoint.Properties["z"] = types.StructField{Ident: "z", Type: types.New(types.NameInt)}

	if _, ok := parent.Variables["local"]; ok {
		t.Fatalf("child variable leaked into parent")
	}
	if _, ok := parent.Types["Point"].Properties["z"]; ok {
		t.Fatalf("child type mutation leaked into parent")
	}
}

func TestMergeNamespaced(t *testing.T) {
	parent := New()
	child := New()
	child.Functions["greet"] = types.Function{Ident: "greet", ReturnType: types.New(types.NameString), Visibility: types.Public}

	parent.MergeNamespaced("m", child)
	if _, err := parent.GetFn("m.greet"); err != nil {
		t.Fatalf("m.greet after merge: %v", err)
	}
}
