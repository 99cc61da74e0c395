// Package store implements the shared in-memory key space and the
// publish/subscribe bus. One Store instance is shared by every connection.
package store

import (
	"errors"

	"github.com/respkv/respkv/internal/bytestr"
)

// Store-level conditions reported back to clients as protocol errors.
var (
	// ErrWrongType: the key exists but holds a different kind of value
	// than the operation expects.
	ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

	// ErrNoSuchKey: RENAME named a source key that does not exist.
	ErrNoSuchKey = errors.New("no such key")
)

// Kind is the data type of a stored value.
type Kind int

const (
	KindString Kind = iota
	KindList
	KindHash
)

// Item is one stored value. Only the field matching Kind is populated.
//
// Fields:
//   - Str: string values
//   - List: ordered list values
//   - Hash: field-to-value hash values
type Item struct {
	Kind Kind

	Str  bytestr.ByteStr
	List []bytestr.ByteStr
	Hash map[bytestr.ByteStr]bytestr.ByteStr
}

// NewStringItem creates a string item.
func NewStringItem(s bytestr.ByteStr) *Item {
	return &Item{Kind: KindString, Str: s}
}

// NewListItem creates a list item.
func NewListItem(elems []bytestr.ByteStr) *Item {
	return &Item{Kind: KindList, List: elems}
}

// NewHashItem creates an empty hash item.
func NewHashItem() *Item {
	return &Item{Kind: KindHash, Hash: make(map[bytestr.ByteStr]bytestr.ByteStr)}
}

// IsString reports whether the item holds a string value.
func (it *Item) IsString() bool {
	return it.Kind == KindString
}

// IsHash reports whether the item holds a hash value.
func (it *Item) IsHash() bool {
	return it.Kind == KindHash
}

// Clone returns a deep copy of the item, so callers that take a value out
// of the store never alias the stored one.
func (it *Item) Clone() *Item {
	cp := &Item{Kind: it.Kind, Str: it.Str}
	if it.List != nil {
		cp.List = make([]bytestr.ByteStr, len(it.List))
		copy(cp.List, it.List)
	}
	if it.Hash != nil {
		cp.Hash = make(map[bytestr.ByteStr]bytestr.ByteStr, len(it.Hash))
		for f, v := range it.Hash {
			cp.Hash[f] = v
		}
	}
	return cp
}
