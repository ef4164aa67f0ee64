package jsonmodel

import "fmt"

// ErrorBufferSize mirrors DE_CTX_ERROR_SIZE: messages are truncated to
// ErrorBufferSize-1 bytes as snprintf would.
const ErrorBufferSize = 128

// DecodeError is a DeCtxResult_BadInput outcome: the message the parser
// wrote into ctx->error and the cursor offset at the time.
type DecodeError struct {
	Message string
	Offset  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bad input at offset %d: %s", e.Offset, e.Message)
}

func (d *decoder) fail(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if len(msg) > ErrorBufferSize-1 {
		msg = msg[:ErrorBufferSize-1]
	}
	return &DecodeError{Message: msg, Offset: d.pos}
}

// ShapeError reports a Value that does not fit the node it was encoded
// against.
type ShapeError struct {
	Path    string
	Message string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("value at '%s': %s", e.Path, e.Message)
}
