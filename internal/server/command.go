package server

import (
	"fmt"
	"strings"

	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
)

// Handler executes one command. cmd[0] is the command name, the rest are
// its arguments. A nil reply means the handler already wrote everything it
// wanted to (the pub/sub confirmations do this).
type Handler func(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value

// Handlers maps the uppercased command name to its handler.
var Handlers = map[string]Handler{

	// connection housekeeping
	"PING":    Ping,
	"ECHO":    Echo,
	"HELLO":   Hello,
	"CLIENT":  Client,
	"CONFIG":  Config,
	"COMMAND": Command,
	"QUIT":    Quit,
	"INFO":    Info,

	// string commands
	"SET": Set,
	"GET": Get,

	// key commands
	"DEL":      Del,
	"EXISTS":   Exists,
	"RENAME":   Rename,
	"FLUSHALL": FlushAll,

	// hash commands
	"HSET":    Hset,
	"HGET":    Hget,
	"HGETALL": Hgetall,
	"HLEN":    Hlen,
	"HEXISTS": Hexists,

	// pubsub
	"SUBSCRIBE":   Subscribe,
	"UNSUBSCRIBE": Unsubscribe,
	"PUBLISH":     Publish,
}

func errWrongArgs(name string) *resp.Value {
	return resp.NewErrorValue(fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(name)))
}
