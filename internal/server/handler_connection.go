package server

import (
	"strings"

	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/config"
	"github.com/respkv/respkv/internal/resp"
)

// Ping handles the PING command.
// Syntax: PING [message]
func Ping(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) > 1 {
		return errWrongArgs("ping")
	}
	if len(args) == 1 {
		// a simple string cannot carry line breaks, fall back to bulk
		msg := string(args[0])
		if strings.ContainsAny(msg, "\r\n") {
			return resp.NewBulkValue(args[0])
		}
		return resp.NewStringValue(msg)
	}
	return resp.NewStringValue("PONG")
}

// Echo handles the ECHO command.
// Syntax: ECHO message
func Echo(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 1 {
		return errWrongArgs("echo")
	}
	return resp.NewBulkValue(args[0])
}

// Hello negotiates the protocol version for this connection.
// Syntax: HELLO <2|3>
//
// HELLO 2 sets the connection to the default RESP2 dialect (also after an
// earlier HELLO 3) and confirms with a simple OK. HELLO 3
// switches the connection to RESP3 and replies with the server
// identification map, framed in the newly negotiated dialect.
func Hello(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) != 1 {
		return errWrongArgs("hello")
	}
	switch string(args[0]) {
	case "2":
		c.setProto(resp.Proto2)
		return resp.NewStringValue("OK")
	case "3":
		c.setProto(resp.Proto3)
		return resp.NewMapValue([]resp.MapPair{
			{Key: "server", Val: *resp.NewBulkValue(ServerName)},
			{Key: "version", Val: *resp.NewBulkValue(Version)},
			{Key: "proto", Val: *resp.NewIntegerValue(3)},
			{Key: "id", Val: *resp.NewIntegerValue(int64(c.id))},
			{Key: "mode", Val: *resp.NewBulkValue("standalone")},
			{Key: "role", Val: *resp.NewBulkValue("master")},
			{Key: "modules", Val: *resp.NewArrayValue(nil)},
		})
	default:
		return resp.NewErrorValue("ERR Invalid protocol version")
	}
}

// Client handles the CLIENT command. Only the SETINFO subcommand is
// recognized; clients send it on connect to register their library name
// and version, which this server acknowledges and forgets.
// Syntax: CLIENT SETINFO <attr> <value>
func Client(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) == 0 {
		return errWrongArgs("client")
	}
	sub, err := resp.CommandName(args[0])
	if err != nil {
		return resp.NewErrorValue("ERR Invalid command")
	}
	if sub != "SETINFO" {
		return resp.NewErrorValue("ERR unknown CLIENT subcommand " + quoteName(sub))
	}
	if len(args) != 3 {
		return errWrongArgs("client|setinfo")
	}
	return resp.NewStringValue("OK")
}

// Config handles the CONFIG command. CONFIG GET serves the static default
// table; a known key replies as a one-pair map, an unknown key as an empty
// map.
// Syntax: CONFIG GET <key>
func Config(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) == 0 {
		return errWrongArgs("config")
	}
	sub, err := resp.CommandName(args[0])
	if err != nil {
		return resp.NewErrorValue("ERR Invalid command")
	}
	if sub != "GET" {
		return resp.NewErrorValue("ERR unknown CONFIG subcommand " + quoteName(sub))
	}
	if len(args) != 2 {
		return errWrongArgs("config|get")
	}
	key := string(args[1])
	if val, ok := config.StaticDefaults[key]; ok {
		return resp.NewMapValue([]resp.MapPair{
			{Key: args[1], Val: *resp.NewBulkValue(bytestr.ByteStr(val))},
		})
	}
	return resp.NewMapValue(nil)
}

// Command handles the COMMAND command. With no subcommand it is a
// handshake stub; COMMAND DOCS serves the static documentation table.
func Command(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	args := cmd[1:]
	if len(args) == 0 {
		return resp.NewStringValue("OK")
	}
	sub, err := resp.CommandName(args[0])
	if err != nil {
		return resp.NewErrorValue("ERR Invalid command")
	}
	if sub != "DOCS" || len(args) != 1 {
		return resp.NewErrorValue("ERR unknown COMMAND subcommand " + quoteName(sub))
	}
	return commandDocs()
}

// Quit handles the QUIT command: confirm, then close the connection once
// the confirmation is on the wire.
func Quit(c *Conn, cmd []bytestr.ByteStr, s *State) *resp.Value {
	if len(cmd) != 1 {
		return errWrongArgs("quit")
	}
	c.closing = true
	return resp.NewStringValue("OK")
}
