package server

import (
	"errors"
	"io"
	"net"
	"sync"

	"github.com/respkv/respkv/internal/bytestr"
	"github.com/respkv/respkv/internal/resp"
)

// Depth of the per-connection delivery queue for pub/sub pushes. A
// publisher blocks once a subscriber is this far behind.
const pushQueueDepth = 64

// Conn is the actor owning one client socket: it reads a command, executes
// it, writes the reply, and repeats until the peer goes away. A connection
// with at least one subscription additionally receives pushed messages
// through its delivery queue, written out by a separate pump goroutine.
//
// All fields except push, done and the write path are touched only by the
// serve goroutine. wmu serializes socket writes between the serve loop and
// the push pump so frames never interleave.
type Conn struct {
	id    uint64
	sock  net.Conn
	state *State

	reader *resp.Reader

	wmu    sync.Mutex
	writer *resp.Writer

	// channel name -> subscription id; non-empty means subscribe sub-mode
	subs map[bytestr.ByteStr]uint64

	push chan *resp.Value
	done chan struct{}

	closing bool
}

func newConn(sock net.Conn, id uint64, state *State) *Conn {
	return &Conn{
		id:     id,
		sock:   sock,
		state:  state,
		reader: resp.NewReader(sock),
		writer: resp.NewWriter(sock),
		subs:   make(map[bytestr.ByteStr]uint64),
		push:   make(chan *resp.Value, pushQueueDepth),
		done:   make(chan struct{}),
	}
}

// serve runs the per-iteration step until the connection dies: read one
// request, dispatch it, write the reply. Replies for command i are fully
// written before command i+1 is read.
func (c *Conn) serve() {
	defer c.teardown()
	go c.pushLoop()

	for {
		cmd, err := c.reader.ReadCommand()
		if err != nil {
			c.handleReadError(err)
			return
		}
		c.dispatch(cmd)
		if c.closing {
			return
		}
	}
}

// handleReadError closes out the connection according to what went wrong.
// A clean EOF at a command boundary is a normal disconnect and stays quiet.
// A framing error gets one last error reply; the stream position is
// undefined after it, so the connection closes rather than resync.
func (c *Conn) handleReadError(err error) {
	var framing *resp.FramingError
	switch {
	case err == io.EOF:
		log.Debugf("conn[%d]: peer closed", c.id)
	case errors.As(err, &framing):
		log.Warningf("conn[%d]: %v, closing", c.id, err)
		c.writeReply(resp.NewErrorValue("ERR Invalid command"))
	case errors.Is(err, resp.ErrIncompleteMessage):
		log.Warningf("conn[%d]: peer closed mid-message", c.id)
	default:
		log.Warningf("conn[%d]: read failed: %v", c.id, err)
	}
}

// Commands a subscribed connection may still issue.
var subModeAllowed = map[string]bool{
	"SUBSCRIBE":   true,
	"UNSUBSCRIBE": true,
	"PING":        true,
	"QUIT":        true,
}

func (c *Conn) dispatch(cmd []bytestr.ByteStr) {
	c.state.Commands.Add(1)

	if len(cmd) == 0 {
		c.writeReply(resp.NewErrorValue("ERR empty command"))
		return
	}
	name, err := resp.CommandName(cmd[0])
	if err != nil {
		log.Warningf("conn[%d]: %v", c.id, err)
		c.writeReply(resp.NewErrorValue("ERR Invalid command"))
		return
	}
	handler, ok := Handlers[name]
	if !ok {
		c.writeReply(resp.NewErrorValue("ERR Invalid command " + quoteName(name)))
		return
	}
	if c.inSubMode() && !subModeAllowed[name] {
		c.writeReply(resp.NewErrorValue("ERR Invalid command " + quoteName(name) + " while subscribed"))
		return
	}

	reply := handler(c, cmd, c.state)
	if reply != nil {
		c.writeReply(reply)
	}
}

// writeReply serializes one value under the write lock in the current
// dialect. A write failure closes the socket: the peer is not coming back,
// and the closed socket ends the serve loop on its next read.
func (c *Conn) writeReply(v *resp.Value) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	err := c.writer.WriteValue(v)
	if err == nil {
		err = c.writer.Flush()
	}
	if err != nil {
		log.Warningf("conn[%d]: write failed: %v", c.id, err)
		c.sock.Close()
	}
}

// pushLoop pumps the delivery queue onto the socket for the life of the
// connection. Messages for one subscriber go out in the order they were
// published.
func (c *Conn) pushLoop() {
	for {
		select {
		case msg := <-c.push:
			c.writeReply(msg)
		case <-c.done:
			return
		}
	}
}

// deliverTo builds the MessageFunc registered with the bus for this
// connection. The closure holds only the queue and done handles, never the
// Conn's socket; when it observes a connection already torn down it logs
// and drops, which a publisher working off a stale snapshot must tolerate.
func (c *Conn) deliverTo() func(channel, payload bytestr.ByteStr) {
	push, done, id := c.push, c.done, c.id
	return func(channel, payload bytestr.ByteStr) {
		msg := resp.NewArrayValue([]resp.Value{
			*resp.NewBulkValue("message"),
			*resp.NewBulkValue(channel),
			*resp.NewBulkValue(payload),
		})
		select {
		case push <- msg:
		case <-done:
			log.Debugf("conn[%d]: dropping message on %s for gone subscriber", id, channel.Display())
		}
	}
}

func (c *Conn) inSubMode() bool {
	return len(c.subs) > 0
}

func (c *Conn) setProto(p resp.Proto) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.writer.SetProto(p)
}

func (c *Conn) teardown() {
	close(c.done)
	for _, id := range c.subs {
		c.state.Store.Unsubscribe(id)
	}
	c.state.removeConn(c.sock)
	c.sock.Close()
	n := c.state.Clients.Add(-1)
	log.Infof("conn[%d]: closed (%d clients)", c.id, n)
}

// quoteName renders a command name for an error reply. Names come off the
// wire, so escape anything a simple error line cannot carry.
func quoteName(name string) string {
	return bytestr.ByteStr(name).Display()
}
