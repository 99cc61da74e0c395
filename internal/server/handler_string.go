package server

import (
	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
	"github.com/respkv/respkv/internal/store"
)

// Set handles the SET command.
// Syntax: SET <key> <value>
func Set(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 2 {
		return errWrongArgs("set")
	}
	s.Store.Set(args[0], store.NewStringItem(args[1]))
	return resp.NewStringValue("OK")
}

// Get handles the GET command. Missing keys reply null; a key holding a
// non-string value is a type error on every path.
// Syntax: GET <key>
func Get(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 1 {
		return errWrongArgs("get")
	}

	var reply *resp.Value
	s.Store.View(args[0], func(it *store.Item) {
		switch {
		case it == nil:
			reply = resp.NewNullBulkValue()
		case !it.IsString():
			reply = resp.NewErrorValue(store.ErrWrongType.Error())
		default:
			reply = resp.NewBulkValue(it.Str)
		}
	})
	return reply
}
