package pipeline

import (
	"errors"
	"fmt"

	"github.com/roach88/cjsongen/internal/node"
)

// CodeInternal is the CLI error code for internal faults.
const CodeInternal = "E900"

// InternalError reports a compiler bug hit while compiling a struct.
type InternalError struct {
	Struct string
	Fault  *node.Fault
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error compiling %q: %s", e.Struct, e.Fault.Error())
}

func (e *InternalError) Unwrap() error { return e.Fault }

// Code returns the CLI error code.
func (e *InternalError) Code() string { return CodeInternal }

// internal converts a fault found anywhere in err's chain into an
// *InternalError. Other errors are returned unchanged.
func internal(name string, err error) error {
	var f *node.Fault
	if errors.As(err, &f) {
		return &InternalError{Struct: name, Fault: f}
	}
	return err
}
