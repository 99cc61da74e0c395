package server

import (
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Serve accepts connections from l until the listener is closed and blocks
// until every accepted connection has finished. Each connection runs in
// its own goroutine; they share nothing but the State.
func Serve(l net.Listener, s *State) {
	var wg sync.WaitGroup
	for {
		sock, err := l.Accept()
		if err != nil {
			log.Noticef("listener closed, stopping accept loop")
			break
		}

		id := s.nextConnID.Add(1)
		s.ConnsReceived.Add(1)
		n := s.Clients.Add(1)
		s.addConn(sock)
		log.Infof("conn[%d]: accepted %s (%d clients)", id, sock.RemoteAddr(), n)

		wg.Add(1)
		go func() {
			defer wg.Done()
			newConn(sock, id, s).serve()
		}()
	}
	wg.Wait()
}

// ListenAndServe binds the configured address and serves until SIGINT or
// SIGTERM. On a signal the listener stops accepting and live connections
// are interrupted: each finishes the command it is on and closes on its
// next read.
func ListenAndServe(s *State) error {
	l, err := net.Listen("tcp", s.Config.Addr())
	if err != nil {
		return err
	}
	log.Noticef("listening on %s", s.Config.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Noticef("%v received, shutting down", sig)
		l.Close()
		s.interruptAll()
	}()

	Serve(l, s)
	log.Noticef("all connections drained, goodbye")
	return nil
}
