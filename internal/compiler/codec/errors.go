// Package codec implements the binary serialization core for interned type
// layer entities: a cursor codec over a growable byte buffer with
// variable-length integers, a shorthand layer that replaces re-encodings of
// previously seen values with back-references into the stream, and one
// typed encode/decode binding per entity kind.
//
// Streams are always produced and consumed by matching codec versions;
// a malformed stream is an internal-consistency defect, not an input error.
// Internally the package panics with *StreamError and the exported
// Encode*/Decode* entry points recover that panic into an error return, so
// one corrupt read aborts the whole (de)serialization step instead of
// silently corrupting structural sharing.
package codec

import "fmt"

// StreamError reports a malformed or truncated stream. It is unrecoverable:
// callers must abandon the containing encode/decode operation.
type StreamError struct {
	Offset int
	Msg    string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("codec: malformed stream at offset %d: %s", e.Offset, e.Msg)
}

// fail aborts the current (de)serialization with a StreamError panic. The
// top-level entry points translate it into an error return.
func fail(offset int, format string, args ...any) {
	panic(&StreamError{Offset: offset, Msg: fmt.Sprintf(format, args...)})
}

// catch recovers a StreamError panic into *err. Any other panic value is a
// genuine bug and keeps unwinding.
func catch(err *error) {
	if r := recover(); r != nil {
		if se, ok := r.(*StreamError); ok {
			*err = se
			return
		}
		panic(r)
	}
}
