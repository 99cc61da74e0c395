package client

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/respkv/respkv/internal/config"
	"github.com/respkv/respkv/internal/server"
)

func startServer(t *testing.T) string {
	t.Helper()
	s := server.NewState(config.Default())
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go server.Serve(l, s)
	t.Cleanup(func() { l.Close() })
	return l.Addr().String()
}

func dialT(t *testing.T, addr string) *Client {
	t.Helper()
	cl, err := Dial(addr)
	require.NoError(t, err)
	t.Cleanup(func() { cl.Close() })
	return cl
}

func TestPingAndEcho(t *testing.T) {
	cl := dialT(t, startServer(t))

	pong, err := cl.Ping()
	require.NoError(t, err)
	assert.Equal(t, "PONG", pong)

	echoed, err := cl.Ping("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", echoed)
}

func TestStringRoundTrip(t *testing.T) {
	cl := dialT(t, startServer(t))

	require.NoError(t, cl.Set("greeting", "hi there"))

	got, ok, err := cl.Get("greeting")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hi there", got)

	n, err := cl.Del("greeting")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok, err = cl.Get("greeting")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashRoundTrip(t *testing.T) {
	cl := dialT(t, startServer(t))

	created, err := cl.HSet("user:1", "name", "ada")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)

	updated, err := cl.HSet("user:1", "name", "grace")
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)

	name, ok, err := cl.HGet("user:1", "name")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "grace", name)
}

func TestServerErrorsSurfaceAsErrors(t *testing.T) {
	cl := dialT(t, startServer(t))

	require.NoError(t, cl.Set("plain", "v"))

	_, _, err := cl.HGet("plain", "f")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WRONGTYPE")
}

func TestHelloSwitchesDialect(t *testing.T) {
	cl := dialT(t, startServer(t))

	v, err := cl.Hello(3)
	require.NoError(t, err)
	require.NotNil(t, v)

	// nulls still decode as absent on the new dialect
	_, ok, err := cl.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPubSub(t *testing.T) {
	addr := startServer(t)
	sub := dialT(t, addr)
	pub := dialT(t, addr)

	require.NoError(t, sub.Subscribe("news"))

	n, err := pub.Publish("news", "flash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, err := sub.Read()
	require.NoError(t, err)
	channel, payload, ok := Message(v)
	require.True(t, ok)
	assert.Equal(t, "news", channel)
	assert.Equal(t, "flash", payload)
}
