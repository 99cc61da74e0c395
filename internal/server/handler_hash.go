package server

import (
	"errors"

	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
	"github.com/respkv/respkv/internal/store"
)

// Hset handles the HSET command. The hash is created if the key is absent.
// Syntax: HSET <key> <field> <value>
// Returns: integer 1 if the field was new, 0 if it was updated.
func Hset(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 3 {
		return errWrongArgs("hset")
	}
	_, existed, err := s.Store.HSet(args[0], args[1], args[2])
	if err != nil {
		if errors.Is(err, store.ErrWrongType) {
			return resp.NewErrorValue(store.ErrWrongType.Error())
		}
		return resp.NewErrorValue("ERR " + err.Error())
	}
	if existed {
		return resp.NewIntegerValue(0)
	}
	return resp.NewIntegerValue(1)
}

// Hget handles the HGET command.
// Syntax: HGET <key> <field>
// Returns: the field value, null if the key or field is absent.
func Hget(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 2 {
		return errWrongArgs("hget")
	}

	var reply *resp.Value
	s.Store.View(args[0], func(it *store.Item) {
		switch {
		case it == nil:
			reply = resp.NewNullBulkValue()
		case !it.IsHash():
			reply = resp.NewErrorValue(store.ErrWrongType.Error())
		default:
			if v, ok := it.Hash[args[1]]; ok {
				reply = resp.NewBulkValue(v)
			} else {
				reply = resp.NewNullBulkValue()
			}
		}
	})
	return reply
}

// Hgetall handles the HGETALL command. The hash is snapshotted into one
// pair list under the read lock; the reply serializes that list, so field
// order is stable within a reply whichever dialect frames it. An absent
// key replies as an empty map.
// Syntax: HGETALL <key>
func Hgetall(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 1 {
		return errWrongArgs("hgetall")
	}

	var reply *resp.Value
	s.Store.View(args[0], func(it *store.Item) {
		switch {
		case it == nil:
			reply = resp.NewMapValue(nil)
		case !it.IsHash():
			reply = resp.NewErrorValue(store.ErrWrongType.Error())
		default:
			pairs := make([]resp.MapPair, 0, len(it.Hash))
			for f, v := range it.Hash {
				pairs = append(pairs, resp.MapPair{Key: f, Val: *resp.NewBulkValue(v)})
			}
			reply = resp.NewMapValue(pairs)
		}
	})
	return reply
}

// Hlen handles the HLEN command.
// Syntax: HLEN <key>
func Hlen(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 1 {
		return errWrongArgs("hlen")
	}

	var reply *resp.Value
	s.Store.View(args[0], func(it *store.Item) {
		switch {
		case it == nil:
			reply = resp.NewIntegerValue(0)
		case !it.IsHash():
			reply = resp.NewErrorValue(store.ErrWrongType.Error())
		default:
			reply = resp.NewIntegerValue(int64(len(it.Hash)))
		}
	})
	return reply
}

// Hexists handles the HEXISTS command.
// Syntax: HEXISTS <key> <field>
func Hexists(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 2 {
		return errWrongArgs("hexists")
	}

	var reply *resp.Value
	s.Store.View(args[0], func(it *store.Item) {
		switch {
		case it == nil:
			reply = resp.NewIntegerValue(0)
		case !it.IsHash():
			reply = resp.NewErrorValue(store.ErrWrongType.Error())
		default:
			if _, ok := it.Hash[args[1]]; ok {
				reply = resp.NewIntegerValue(1)
			} else {
				reply = resp.NewIntegerValue(0)
			}
		}
	})
	return reply
}
