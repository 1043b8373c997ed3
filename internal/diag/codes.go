package diag

// Code identifies one category of compile error. The compiler aborts on the
// first error it reports; there is no recoverable variant.
type Code uint16

const (
	Unknown Code = iota
	InvalidGenericCount
	NoSuchFunction
	NoSuchVariable
	NoSuchProperty
	NoSuchVariant
	InvalidType
	NoSuchType
	ExpectedReference
	CannotAssignConst
)

func (c Code) String() string {
	switch c {
	case InvalidGenericCount:
		return "InvalidGenericCount"
	case NoSuchFunction:
		return "NoSuchFunction"
	case NoSuchVariable:
		return "NoSuchVariable"
	case NoSuchProperty:
		return "NoSuchProperty"
	case NoSuchVariant:
		return "NoSuchVariant"
	case InvalidType:
		return "InvalidType"
	case NoSuchType:
		return "NoSuchType"
	case ExpectedReference:
		return "ExpectedReference"
	case CannotAssignConst:
		return "CannotAssignConst"
	default:
		return "Unknown"
	}
}
