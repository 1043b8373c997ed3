package types

// Visibility controls whether an entity is exported from its file and how it
// renders (Lua: public globals vs. locals).
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "pub"
	}
	return "prv"
}

// Mutability of a variable binding.
type Mutability uint8

const (
	Mutable Mutability = iota
	Constant
)

func (m Mutability) String() string {
	if m == Constant {
		return "const"
	}
	return "mut"
}

// Execution marks a function sync or async.
type Execution uint8

const (
	Sync Execution = iota
	Async
)

func (e Execution) String() string {
	if e == Async {
		return "async"
	}
	return "sync"
}

// Association classifies how a function hangs off a type: not at all, as a
// static member (dotted name), or as an associated method (colon-joined name,
// implicit instance).
type Association uint8

const (
	NoAssociation Association = iota
	StaticAssociation
	AssociatedAssociation
)

func (a Association) String() string {
	switch a {
	case StaticAssociation:
		return "static"
	case AssociatedAssociation:
		return "associated"
	default:
		return "none"
	}
}
