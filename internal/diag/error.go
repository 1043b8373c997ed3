package diag

import (
	"errors"
	"fmt"

	"faraday/internal/source"
)

// Error is the single fatal error kind the compiler produces for user
// mistakes. Internal contract violations (broken parser invariants) panic
// instead and are not represented here.
type Error struct {
	Code    Code
	Message string
	Path    string
	Pos     source.LineCol
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s %s)", e.Code, e.Message, e.Path, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds a fatal compile error stamped with the last visited source
// position.
func Errorf(code Code, format string, args ...any) *Error {
	path, pos := Marker()
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Pos:     pos,
	}
}

// CodeOf extracts the diagnostic code from err, or Unknown when err is not a
// compile error.
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return Unknown
}
