package symbols

import (
	"sync"

	"faraday/internal/types"
)

// The default environment is built once and copied into every fresh
// Registers, so no lookup ever depends on ambient global state.
var prelude = sync.OnceValues(func() (map[string]types.Type, map[string]types.Function) {
	typeMap := make(map[string]types.Type)
	for _, name := range []string{
		types.NameString,
		types.NameInt,
		types.NameFloat,
		types.NameNumber,
		types.NameBool,
		types.NameEmpty,
		types.NameEmptyAlt,
		types.NameAny,
		types.NameRef,
	} {
		typeMap[name] = types.New(name)
	}
	typeMap[types.NameTable] = types.NewGeneric(types.NameTable, "K", "V")

	fnMap := make(map[string]types.Function)
	builtinFn := func(ident string, keys []string, argTypes []string, ret string) {
		args := types.Args{Keys: keys}
		for _, t := range argTypes {
			args.Types = append(args.Types, types.New(t))
		}
		fnMap[ident] = types.Function{
			Ident:       ident,
			Arguments:   args,
			ReturnType:  types.New(ret),
			Association: types.StaticAssociation,
		}
	}

	builtinFn("print", []string{"message"}, []string{types.NameAny}, types.NameString)
	builtinFn("tonumber", []string{"value"}, []string{types.NameAny}, types.NameInt)
	builtinFn("tostring", []string{"value"}, []string{types.NameAny}, types.NameString)
	builtinFn("pairs", []string{"value"}, []string{types.NameTable}, types.NameAny)
	builtinFn("ipairs", []string{"value"}, []string{types.NameTable}, types.NameAny)

	builtinFn("String.format", []string{"format", "value"}, []string{types.NameString, types.NameAny}, types.NameString)

	builtinFn("io.read", []string{"_"}, []string{types.NameEmpty}, types.NameEmpty)
	builtinFn("io.write", []string{"message"}, []string{types.NameString}, types.NameEmpty)

	return typeMap, fnMap
})
