// Package resp implements the RESP wire format: a typed value model and a
// streaming reader/writer that understand both the RESP2 and RESP3 dialects.
package resp

import (
	"strings"

	"github.com/respkv/respkv/internal/bytestr"
)

// ValueType identifies the kind of a RESP value. Each type corresponds to
// the single-byte prefix tag used on the wire.
type ValueType byte

// RESP value type tags.
const (
	BULK    ValueType = '$' // Bulk string: $<length>\r\n<data>\r\n
	STRING  ValueType = '+' // Simple string: +<data>\r\n
	ERROR   ValueType = '-' // Simple error: -<message>\r\n
	INTEGER ValueType = ':' // Integer: :<number>\r\n
	ARRAY   ValueType = '*' // Array: *<count>\r\n<elements>...
	MAP     ValueType = '%' // Map: %<count>\r\n<pairs>... (RESP3)
	NULL    ValueType = '_' // Null: _\r\n (RESP3), $-1 or *-1 (RESP2)
)

// Proto selects the reply dialect negotiated on a connection.
type Proto int

// Supported protocol versions. Connections start in Proto2 until a HELLO 3.
const (
	Proto2 Proto = 2
	Proto3 Proto = 3
)

// MapPair is one key-value entry of a MAP value. Map replies carry their
// entries as an ordered slice so that a single reply serializes the pairs in
// one stable order regardless of dialect.
type MapPair struct {
	Key bytestr.ByteStr
	Val Value
}

// Value is a parsed or to-be-serialized RESP value. Only the field matching
// Typ is meaningful.
//
//   - BULK: Blk holds the binary-safe payload
//   - STRING: Str holds the line (no CR or LF)
//   - ERROR: Err holds the message line (no CR or LF)
//   - INTEGER: Num holds the number
//   - ARRAY: Arr holds the elements
//   - MAP: Pairs holds the entries
//   - NULL: NullOf records whether a RESP2 peer expects bulk ($-1) or
//     array (*-1) framing at this position
type Value struct {
	Typ ValueType

	Blk bytestr.ByteStr
	Str string
	Err string
	Num int64

	Arr   []Value
	Pairs []MapPair

	NullOf ValueType
}

// NewStringValue creates a simple string value. The line must not contain CR
// or LF; that is enforced here rather than at serialization time, so every
// call site passes a well-formed line. Panics otherwise.
func NewStringValue(s string) *Value {
	mustSimpleLine(s)
	return &Value{Typ: STRING, Str: s}
}

// NewErrorValue creates a simple error value. Same line rules as
// NewStringValue.
func NewErrorValue(msg string) *Value {
	mustSimpleLine(msg)
	return &Value{Typ: ERROR, Err: msg}
}

// NewBulkValue creates a bulk string value.
func NewBulkValue(b bytestr.ByteStr) *Value {
	return &Value{Typ: BULK, Blk: b}
}

// NewIntegerValue creates an integer value.
func NewIntegerValue(n int64) *Value {
	return &Value{Typ: INTEGER, Num: n}
}

// NewArrayValue creates an array value.
func NewArrayValue(arr []Value) *Value {
	return &Value{Typ: ARRAY, Arr: arr}
}

// NewMapValue creates a map value from an ordered pair slice.
func NewMapValue(pairs []MapPair) *Value {
	return &Value{Typ: MAP, Pairs: pairs}
}

// NewNullBulkValue creates a null that frames as $-1 on RESP2.
func NewNullBulkValue() *Value {
	return &Value{Typ: NULL, NullOf: BULK}
}

// NewNullArrayValue creates a null that frames as *-1 on RESP2.
func NewNullArrayValue() *Value {
	return &Value{Typ: NULL, NullOf: ARRAY}
}

// IsNull reports whether v is a null of either framing.
func (v *Value) IsNull() bool {
	return v.Typ == NULL
}

func mustSimpleLine(s string) {
	if strings.ContainsAny(s, "\r\n") {
		panic("resp: simple line must not contain CR or LF: " + bytestr.ByteStr(s).Display())
	}
}
