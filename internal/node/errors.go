package node

import "fmt"

// Fault is a compiler-internal invariant violation. It is never caused by
// user input that passed front-end validation.
type Fault struct {
	Op      string
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("internal fault in %s: %s", f.Op, f.Message)
}

func faultf(op, format string, args ...any) *Fault {
	return &Fault{Op: op, Message: fmt.Sprintf(format, args...)}
}

// CollisionError reports two distinct nodes deriving the same C identifier.
type CollisionError struct {
	Kind       string // "type", "function", "member"
	Identifier string
	First      string // qualified name of the first owner
	Second     string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s name %q is derived from both %q and %q",
		e.Kind, e.Identifier, e.First, e.Second)
}

// NestedArrayError reports an array whose element is itself an array.
type NestedArrayError struct {
	Path string
}

func (e *NestedArrayError) Error() string {
	return fmt.Sprintf("%s: nested arrays are not supported", e.Path)
}

// Recover converts a panicking *Fault into an error. Other panics are
// re-raised. Use it as: defer node.Recover(&err)
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if f, ok := r.(*Fault); ok {
		*err = f
		return
	}
	panic(r)
}
