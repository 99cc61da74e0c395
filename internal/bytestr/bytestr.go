// Package bytestr provides the binary-safe byte string used for keys,
// hash fields, channel names and string payloads throughout the server.
package bytestr

import "fmt"

// ByteStr is an immutable, binary-safe sequence of bytes. It is backed by a
// Go string so it is comparable and usable as a map key; there is no UTF-8
// requirement on the contents.
type ByteStr string

// FromBytes copies b into a new ByteStr.
func FromBytes(b []byte) ByteStr {
	return ByteStr(b)
}

// Bytes returns a fresh copy of the underlying bytes.
func (b ByteStr) Bytes() []byte {
	return []byte(b)
}

// Len returns the number of bytes.
func (b ByteStr) Len() int {
	return len(b)
}

// Display renders the bytes for logs: lossy and quoted, so arbitrary binary
// payloads never corrupt the log stream.
func (b ByteStr) Display() string {
	return fmt.Sprintf("%q", string(b))
}
