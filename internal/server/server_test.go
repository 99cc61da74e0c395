package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/respkv/respkv/internal/config"
	"github.com/respkv/respkv/internal/resp"
)

func startServer(t *testing.T) string {
	t.Helper()
	s := NewState(config.Default())
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go Serve(l, s)
	t.Cleanup(func() {
		l.Close()
		s.interruptAll()
	})
	return l.Addr().String()
}

// tconn drives a connection over the raw wire. Byte-exact expectations and
// parsed reads share one buffer.
type tconn struct {
	t    *testing.T
	conn net.Conn
	br   *bufio.Reader
	vr   *resp.Reader
}

func dial(t *testing.T, addr string) *tconn {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	br := bufio.NewReader(conn)
	return &tconn{t: t, conn: conn, br: br, vr: resp.NewReader(br)}
}

// req frames a command as an array of bulk strings.
func req(args ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%d\r\n", len(args))
	for _, a := range args {
		fmt.Fprintf(&b, "$%d\r\n%s\r\n", len(a), a)
	}
	return b.String()
}

func (c *tconn) send(raw string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(raw))
	require.NoError(c.t, err)
}

func (c *tconn) expect(want string) {
	c.t.Helper()
	got := make([]byte, len(want))
	_, err := io.ReadFull(c.br, got)
	require.NoError(c.t, err)
	require.Equal(c.t, want, string(got))
}

func (c *tconn) read() *resp.Value {
	c.t.Helper()
	v, err := c.vr.ReadValue()
	require.NoError(c.t, err)
	return v
}

func (c *tconn) expectEOF() {
	c.t.Helper()
	_, err := c.br.ReadByte()
	require.Equal(c.t, io.EOF, err)
}

func TestPing(t *testing.T) {
	c := dial(t, startServer(t))
	c.send("*1\r\n$4\r\nPING\r\n")
	c.expect("+PONG\r\n")

	c.send("*2\r\n$4\r\nPING\r\n$5\r\nhello\r\n")
	c.expect("+hello\r\n")
}

func TestCommandNameIsCaseInsensitive(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("ping"))
	c.expect("+PONG\r\n")
	c.send(req("EcHo", "hi"))
	c.expect("$2\r\nhi\r\n")
}

func TestSetGet(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SET", "foo", "bar"))
	c.expect("+OK\r\n")
	c.send(req("GET", "foo"))
	c.expect("$3\r\nbar\r\n")
}

func TestGetMissingNullFraming(t *testing.T) {
	addr := startServer(t)

	// default dialect frames null as a bulk -1
	c := dial(t, addr)
	c.send(req("GET", "absent"))
	c.expect("$-1\r\n")

	// after HELLO 3 the same reply frames as the RESP3 null
	c3 := dial(t, addr)
	c3.send(req("HELLO", "3"))
	hello := c3.read()
	require.Equal(t, resp.MAP, hello.Typ)
	c3.send(req("GET", "absent"))
	c3.expect("_\r\n")
}

func TestHello(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("HELLO", "2"))
	c.expect("+OK\r\n")

	c.send(req("HELLO", "3"))
	hello := c.read()
	require.Equal(t, resp.MAP, hello.Typ)
	fields := map[string]resp.Value{}
	for _, p := range hello.Pairs {
		fields[string(p.Key)] = p.Val
	}
	assert.Equal(t, ServerName, string(fields["server"].Blk))
	assert.Equal(t, Version, string(fields["version"].Blk))
	assert.Equal(t, int64(3), fields["proto"].Num)
	assert.Equal(t, "standalone", string(fields["mode"].Blk))
	assert.Equal(t, "master", string(fields["role"].Blk))
	assert.Equal(t, resp.ARRAY, fields["modules"].Typ)
	assert.Positive(t, fields["id"].Num)

	c.send(req("HELLO", "4"))
	c.expect("-ERR Invalid protocol version\r\n")
}

func TestPipelinedCommands(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SET", "a", "1") + req("SET", "b", "2") + req("GET", "a"))
	c.expect("+OK\r\n+OK\r\n$1\r\n1\r\n")
}

func TestDelExists(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SET", "k", "v"))
	c.expect("+OK\r\n")
	c.send(req("EXISTS", "k", "missing", "k"))
	c.expect(":2\r\n")
	c.send(req("DEL", "k"))
	c.expect(":1\r\n")
	c.send(req("GET", "k"))
	c.expect("$-1\r\n")
	c.send(req("DEL", "k"))
	c.expect(":0\r\n")
}

func TestRename(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("RENAME", "missing", "other"))
	c.expect("-ERR no such key\r\n")
	c.send(req("EXISTS", "other"))
	c.expect(":0\r\n")

	c.send(req("SET", "src", "v"))
	c.expect("+OK\r\n")
	c.send(req("RENAME", "src", "dst"))
	c.expect("+OK\r\n")
	c.send(req("GET", "dst"))
	c.expect("$1\r\nv\r\n")
}

func TestFlushAll(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SET", "k", "v"))
	c.expect("+OK\r\n")
	c.send(req("FLUSHALL"))
	c.expect("+OK\r\n")
	c.send(req("GET", "k"))
	c.expect("$-1\r\n")
}

func TestHashCommands(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("HSET", "h", "f", "1"))
	c.expect(":1\r\n")
	c.send(req("HSET", "h", "f", "2"))
	c.expect(":0\r\n")
	c.send(req("HGET", "h", "f"))
	c.expect("$1\r\n2\r\n")
	c.send(req("HGET", "h", "nope"))
	c.expect("$-1\r\n")
	c.send(req("HLEN", "h"))
	c.expect(":1\r\n")
	c.send(req("HEXISTS", "h", "f"))
	c.expect(":1\r\n")
	c.send(req("HEXISTS", "h", "nope"))
	c.expect(":0\r\n")
	c.send(req("HGETALL", "h"))
	c.expect("*2\r\n$1\r\nf\r\n$1\r\n2\r\n")
	c.send(req("HGETALL", "absent"))
	c.expect("*0\r\n")
}

func TestWrongType(t *testing.T) {
	wrongtype := "-WRONGTYPE Operation against a key holding the wrong kind of value\r\n"

	c := dial(t, startServer(t))
	c.send(req("HSET", "h", "f", "v"))
	c.expect(":1\r\n")
	c.send(req("GET", "h"))
	c.expect(wrongtype)

	c.send(req("SET", "s", "v"))
	c.expect("+OK\r\n")
	c.send(req("HGET", "s", "f"))
	c.expect(wrongtype)
	c.send(req("HGETALL", "s"))
	c.expect(wrongtype)
	c.send(req("HSET", "s", "f", "v"))
	c.expect(wrongtype)
}

func TestPubSub(t *testing.T) {
	addr := startServer(t)

	sub := dial(t, addr)
	sub.send(req("SUBSCRIBE", "c"))
	sub.expect("*3\r\n$9\r\nsubscribe\r\n$1\r\nc\r\n:1\r\n")

	pub := dial(t, addr)
	pub.send(req("PUBLISH", "c", "msg"))
	pub.expect(":1\r\n")

	sub.expect("*3\r\n$7\r\nmessage\r\n$1\r\nc\r\n$3\r\nmsg\r\n")
}

func TestPublishWithoutSubscribers(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("PUBLISH", "nowhere", "msg"))
	c.expect(":0\r\n")
}

func TestSubscribeMultipleAndCounts(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SUBSCRIBE", "a", "b"))
	c.expect("*3\r\n$9\r\nsubscribe\r\n$1\r\na\r\n:1\r\n")
	c.expect("*3\r\n$9\r\nsubscribe\r\n$1\r\nb\r\n:2\r\n")

	c.send(req("UNSUBSCRIBE", "a"))
	c.expect("*3\r\n$11\r\nunsubscribe\r\n$1\r\na\r\n:1\r\n")

	// unsubscribing a channel never subscribed still confirms
	c.send(req("UNSUBSCRIBE", "zz"))
	c.expect("*3\r\n$11\r\nunsubscribe\r\n$2\r\nzz\r\n:1\r\n")

	c.send(req("UNSUBSCRIBE", "b"))
	c.expect("*3\r\n$11\r\nunsubscribe\r\n$1\r\nb\r\n:0\r\n")

	// sub-mode is over, normal commands work again
	c.send(req("SET", "k", "v"))
	c.expect("+OK\r\n")
}

func TestSubModeRestrictsCommands(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SUBSCRIBE", "c"))
	c.expect("*3\r\n$9\r\nsubscribe\r\n$1\r\nc\r\n:1\r\n")

	c.send(req("GET", "k"))
	v := c.read()
	require.Equal(t, resp.ERROR, v.Typ)
	assert.Contains(t, v.Err, "ERR Invalid command")

	// PING stays available while subscribed
	c.send(req("PING"))
	c.expect("+PONG\r\n")
}

func TestUnsubscribeAll(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SUBSCRIBE", "a", "b"))
	c.expect("*3\r\n$9\r\nsubscribe\r\n$1\r\na\r\n:1\r\n")
	c.expect("*3\r\n$9\r\nsubscribe\r\n$1\r\nb\r\n:2\r\n")

	c.send(req("UNSUBSCRIBE"))
	first := c.read()
	second := c.read()
	require.Equal(t, resp.ARRAY, first.Typ)
	require.Equal(t, resp.ARRAY, second.Typ)
	// final confirmation carries a zero running count
	assert.Equal(t, int64(0), second.Arr[2].Num)

	c.send(req("GET", "k"))
	c.expect("$-1\r\n")
}

func TestSubscriberGoneKeepsPublishWorking(t *testing.T) {
	addr := startServer(t)

	sub := dial(t, addr)
	sub.send(req("SUBSCRIBE", "c"))
	sub.expect("*3\r\n$9\r\nsubscribe\r\n$1\r\nc\r\n:1\r\n")
	sub.conn.Close()

	pub := dial(t, addr)
	// the subscriber teardown races the publish; whichever wins, the
	// publisher gets a well-formed count and the server stays up
	pub.send(req("PUBLISH", "c", "msg"))
	v := pub.read()
	require.Equal(t, resp.INTEGER, v.Typ)
	assert.LessOrEqual(t, v.Num, int64(1))

	pub.send(req("PING"))
	pub.expect("+PONG\r\n")
}

func TestQuit(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("QUIT"))
	c.expect("+OK\r\n")
	c.expectEOF()
}

func TestConfigGet(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("CONFIG", "GET", "appendonly"))
	c.expect("*2\r\n$10\r\nappendonly\r\n$2\r\nno\r\n")

	c.send(req("CONFIG", "GET", "maxmemory"))
	c.expect("*0\r\n")

	c.send(req("CONFIG", "GET", "save"))
	c.expect("*2\r\n$4\r\nsave\r\n$23\r\n3600 1 300 100 60 10000\r\n")
}

func TestClientSetinfo(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("CLIENT", "SETINFO", "lib-name", "kvcli"))
	c.expect("+OK\r\n")
}

func TestCommandDocs(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("COMMAND"))
	c.expect("+OK\r\n")

	c.send(req("COMMAND", "DOCS"))
	v := c.read()
	// flat array on the default dialect, one key and one submap per command
	require.Equal(t, resp.ARRAY, v.Typ)
	require.NotEmpty(t, v.Arr)
	assert.Equal(t, 2*len(cmdDocsTable), len(v.Arr))
}

func TestUnknownCommand(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("FROBNICATE"))
	v := c.read()
	require.Equal(t, resp.ERROR, v.Typ)
	assert.Contains(t, v.Err, "ERR Invalid command")

	// the connection survives
	c.send(req("PING"))
	c.expect("+PONG\r\n")
}

func TestBadArityKeepsConnection(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("SET", "onlykey"))
	c.expect("-ERR wrong number of arguments for 'set' command\r\n")
	c.send(req("PING"))
	c.expect("+PONG\r\n")
}

func TestFramingErrorRepliesAndCloses(t *testing.T) {
	c := dial(t, startServer(t))
	c.send("GARBAGE\r\n")
	c.expect("-ERR Invalid command\r\n")
	c.expectEOF()
}

func TestBinaryKeysAndValues(t *testing.T) {
	c := dial(t, startServer(t))
	key := "k\x00ey"
	val := "va\r\nlue\xff"
	c.send(req("SET", key, val))
	c.expect("+OK\r\n")
	c.send(req("GET", key))
	c.expect(fmt.Sprintf("$%d\r\n%s\r\n", len(val), val))
}

func TestInfo(t *testing.T) {
	c := dial(t, startServer(t))
	c.send(req("INFO"))
	v := c.read()
	require.Equal(t, resp.BULK, v.Typ)
	body := string(v.Blk)
	assert.Contains(t, body, "# Server")
	assert.Contains(t, body, "server_name:respkv")
	assert.Contains(t, body, "connected_clients:")
	assert.Contains(t, body, "total_commands_processed:")
}
