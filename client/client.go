// Package client is a small client library for the respkv server. It is
// what the bundled CLI uses and doubles as the reference for how the wire
// protocol is driven from the client side.
package client

import (
	"fmt"
	"net"

	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
)

// Client is one connection to a server. Not safe for concurrent use; open
// one Client per goroutine.
type Client struct {
	conn   net.Conn
	reader *resp.Reader
	writer *resp.Writer
}

// Dial connects to a server at addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:   conn,
		reader: resp.NewReader(conn),
		writer: resp.NewWriter(conn),
	}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Do sends one command as an array of bulk strings and reads one reply.
func (c *Client) Do(args ...string) (*resp.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("client: empty command")
	}
	arr := make([]resp.Value, len(args))
	for i, a := range args {
		arr[i] = *resp.NewBulkValue(bytestr.ByteStr(a))
	}
	if err := c.writer.WriteValue(resp.NewArrayValue(arr)); err != nil {
		return nil, err
	}
	if err := c.writer.Flush(); err != nil {
		return nil, err
	}
	return c.reader.ReadValue()
}

// Read reads one server-initiated value, such as a pushed pub/sub message
// while subscribed.
func (c *Client) Read() (*resp.Value, error) {
	return c.reader.ReadValue()
}
