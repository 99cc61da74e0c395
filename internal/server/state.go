// Package server runs the TCP front end: the listener accept loop and one
// connection actor per accepted socket, dispatching commands against the
// shared store.
package server

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/op/go-logging"

	"github.com/respkv/respkv/internal/config"
	"github.com/respkv/respkv/internal/store"
)

// Server identification reported by HELLO and INFO.
const (
	ServerName = "respkv"
	Version    = "0.1.0"
)

var log = logging.MustGetLogger("server")

// State is the shared application state: configuration, the store, and
// server-wide counters. One State is shared by every connection.
type State struct {
	StartTime time.Time
	Config    *config.Config
	Store     *store.Store

	// counters surfaced by INFO
	ConnsReceived atomic.Int64
	Commands      atomic.Int64
	Clients       atomic.Int32

	nextConnID atomic.Uint64

	activeConns   map[net.Conn]struct{}
	activeConnsMu sync.Mutex
}

// NewState creates the shared state for a server process.
func NewState(cfg *config.Config) *State {
	return &State{
		StartTime:   time.Now(),
		Config:      cfg,
		Store:       store.New(),
		activeConns: make(map[net.Conn]struct{}),
	}
}

func (s *State) addConn(conn net.Conn) {
	s.activeConnsMu.Lock()
	defer s.activeConnsMu.Unlock()
	s.activeConns[conn] = struct{}{}
}

func (s *State) removeConn(conn net.Conn) {
	s.activeConnsMu.Lock()
	defer s.activeConnsMu.Unlock()
	delete(s.activeConns, conn)
}

// interruptAll expires the read deadline on every live connection. Blocked
// reads return immediately; a connection in the middle of a command still
// finishes it and closes on its next read.
func (s *State) interruptAll() {
	s.activeConnsMu.Lock()
	defer s.activeConnsMu.Unlock()
	for conn := range s.activeConns {
		conn.SetReadDeadline(time.Now())
	}
}
