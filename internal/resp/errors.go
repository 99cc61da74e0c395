package resp

import (
	"errors"
	"fmt"
)

// ErrIncompleteMessage is returned when the peer closes the stream in the
// middle of a value: an EOF after at least one byte of the value has been
// consumed. A clean EOF at a message boundary surfaces as io.EOF instead.
var ErrIncompleteMessage = errors.New("incomplete message")

// FramingError reports a stream that does not follow the wire grammar: an
// unknown type tag, a non-numeric length, or a malformed CRLF terminator.
// After a FramingError the read position within the stream is undefined.
type FramingError struct {
	Detail string
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("invalid framing: %s", e.Detail)
}

func framingErrorf(format string, args ...interface{}) error {
	return &FramingError{Detail: fmt.Sprintf(format, args...)}
}

// InvalidUtf8Error is returned only when the caller asked for a textual
// interpretation of wire bytes (command names) and the bytes are not valid
// UTF-8. Keys and payloads are opaque bytes and never produce it.
type InvalidUtf8Error struct {
	Raw string
}

func (e *InvalidUtf8Error) Error() string {
	return fmt.Sprintf("invalid utf-8 in command name: %q", e.Raw)
}
