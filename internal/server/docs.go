package server

import (
	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
)

type cmdDoc struct {
	name    string
	summary string
	arity   int64 // total token count, negative means "at least"
}

// The COMMAND DOCS table. Kept in the order the commands are documented
// so the reply is stable run to run.
var cmdDocsTable = []cmdDoc{
	{"PING", "Return PONG, or echo the given message.", -1},
	{"ECHO", "Echo the given message.", 2},
	{"HELLO", "Switch the connection to another protocol version.", 2},
	{"SET", "Set a key to a string value.", 3},
	{"GET", "Get the string value of a key.", 2},
	{"DEL", "Delete one or more keys.", -2},
	{"EXISTS", "Count how many of the given keys exist.", -2},
	{"RENAME", "Rename a key, overwriting the destination.", 3},
	{"FLUSHALL", "Remove every key.", 1},
	{"HSET", "Set a field of a hash.", 4},
	{"HGET", "Get a field of a hash.", 3},
	{"HGETALL", "Get all fields and values of a hash.", 2},
	{"HLEN", "Count the fields of a hash.", 2},
	{"HEXISTS", "Check whether a hash field exists.", 3},
	{"SUBSCRIBE", "Subscribe to one or more channels.", -2},
	{"UNSUBSCRIBE", "Unsubscribe from the given channels, or all of them.", -1},
	{"PUBLISH", "Publish a message to a channel.", 3},
	{"INFO", "Return server information and statistics.", 1},
}

func commandDocs() *resp.Value {
	pairs := make([]resp.MapPair, 0, len(cmdDocsTable))
	for _, d := range cmdDocsTable {
		doc := resp.NewMapValue([]resp.MapPair{
			{Key: "summary", Val: *resp.NewBulkValue(bytestr.ByteStr(d.summary))},
			{Key: "arity", Val: *resp.NewIntegerValue(d.arity)},
		})
		pairs = append(pairs, resp.MapPair{Key: bytestr.ByteStr(d.name), Val: *doc})
	}
	return resp.NewMapValue(pairs)
}
