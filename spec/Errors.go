package spec

import (
	"errors"
	"fmt"
)

// ErrType is the error wrapped by every TypeError
var ErrType = errors.New("unexpected type")

// TypeError reports that a value was not of a type that an operation
// can handle.
type TypeError struct {
	Op   string
	Want string
	Got  string
}

// Error satisifes the error interface
func (e *TypeError) Error() string {
	return fmt.Sprintf("%v: expected %v, got %v", e.Op, e.Want, e.Got)
}

// Unwrap returns ErrType
func (e *TypeError) Unwrap() error {
	return ErrType
}

// IsTypeError returns whether or not an error reports a value of an
// unexpected type.
func IsTypeError(err error) bool {
	return errors.Is(err, ErrType)
}

func newTypeError(op, want string, got interface{}) *TypeError {
	return &TypeError{Op: op, Want: want, Got: fmt.Sprintf("%T", got)}
}
