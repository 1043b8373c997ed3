// Package syntax defines the tagged node tree produced by the parser and
// consumed by the compiler. The compiler never imports the parser; everything
// it needs travels through Node.
package syntax

import "faraday/internal/source"

// Kind tags a node with its grammatical role.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Statement-level nodes the driver dispatches on.
	KindFunction
	KindBlock
	KindPair
	KindReassign
	KindCall
	KindStruct
	KindEnum
	KindTypeAlias
	KindForLoop
	KindWhileLoop
	KindConditional
	KindImpl
	KindUse
	KindMacro
	KindMacroCall

	// Nested structure.
	KindConditionalElseif
	KindConditionalElse
	KindIdent
	KindType
	KindTypedParam
	KindModifier
	KindSyncModifier
	KindMutModifier
	KindRefModifier
	KindGeneric
	KindStructField
	KindEnumVariant
	KindSelfParam

	// Value leaves.
	KindString
	KindInt
	KindFloat
	KindBool
	KindTable
	KindExpr
)

var kindNames = map[Kind]string{
	KindInvalid:           "invalid",
	KindFunction:          "function",
	KindBlock:             "block",
	KindPair:              "pair",
	KindReassign:          "reassign",
	KindCall:              "call",
	KindStruct:            "struct",
	KindEnum:              "enum",
	KindTypeAlias:         "type_alias",
	KindForLoop:           "for_loop",
	KindWhileLoop:         "while_loop",
	KindConditional:       "conditional",
	KindImpl:              "impl",
	KindUse:               "use",
	KindMacro:             "macro",
	KindMacroCall:         "macro_call",
	KindConditionalElseif: "conditional_elseif",
	KindConditionalElse:   "conditional_else",
	KindIdent:             "identifier",
	KindType:              "type",
	KindTypedParam:        "typed_parameter",
	KindModifier:          "modifier",
	KindSyncModifier:      "sync_modifier",
	KindMutModifier:       "mut_modifier",
	KindRefModifier:       "ref_modifier",
	KindGeneric:           "generic",
	KindStructField:       "struct_field",
	KindEnumVariant:       "enum_variant",
	KindSelfParam:         "self_parameter",
	KindString:            "string",
	KindInt:               "int",
	KindFloat:             "float",
	KindBool:              "bool",
	KindTable:             "table",
	KindExpr:              "expr",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Node is one tagged syntax-tree node. Text carries the literal source text
// of the node (for leaves and raw expressions); structured nodes carry their
// parts in Children.
type Node struct {
	Kind     Kind
	Text     string
	Span     source.Span
	Children []*Node
}

// New builds a node; tests and the parser share this constructor.
func New(kind Kind, text string, children ...*Node) *Node {
	return &Node{Kind: kind, Text: text, Children: children}
}

// First returns the first child of the given kind, or nil.
func (n *Node) First(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}
