package server

import (
	"errors"

	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
	"github.com/respkv/respkv/internal/store"
)

// Del handles the DEL command.
// Syntax: DEL <key> [<key> ...]
func Del(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) < 1 {
		return errWrongArgs("del")
	}
	return resp.NewIntegerValue(s.Store.Del(args...))
}

// Exists handles the EXISTS command. A key named more than once counts
// once per occurrence.
// Syntax: EXISTS <key> [<key> ...]
func Exists(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) < 1 {
		return errWrongArgs("exists")
	}
	return resp.NewIntegerValue(s.Store.Exists(args...))
}

// Rename handles the RENAME command: an atomic move that overwrites the
// destination.
// Syntax: RENAME <key> <newkey>
func Rename(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 2 {
		return errWrongArgs("rename")
	}
	if err := s.Store.Rename(args[0], args[1]); err != nil {
		if errors.Is(err, store.ErrNoSuchKey) {
			return resp.NewErrorValue("ERR no such key")
		}
		return resp.NewErrorValue("ERR " + err.Error())
	}
	return resp.NewStringValue("OK")
}

// FlushAll handles the FLUSHALL command.
// Syntax: FLUSHALL
func FlushAll(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	if len(cmd) != 1 {
		return errWrongArgs("flushall")
	}
	s.Store.FlushAll()
	return resp.NewStringValue("OK")
}
