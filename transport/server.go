// Package transport implements the Server capability set of §4.3: one
// socket to one nameserver, question in and message out, with liveness
// tracking — and the registry of §4.4 that maps a "protocol://host:port"
// URI to its Server.
//
// Both variants are built on *dns.Client, the same transport the teacher
// uses for every exchange (resolver.go's doQuery); here a single
// connection is dialed once per Server and reused across asks instead of
// dialing fresh per request, per §4.3 ("one connection per Server").
package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// Server is a polymorphic handle over a UDP or TCP connection to a single
// nameserver.
type Server interface {
	// Ask serializes q, transmits it, and awaits the matching reply.
	// Replies are correlated to requests by transaction ID. Ask fails
	// with an *Error on socket error, a closed connection, or a timeout.
	Ask(ctx context.Context, q dns.Question) (*dns.Msg, error)

	// Alive reports whether the underlying connection is still usable.
	// It becomes false once the socket has failed or been closed.
	Alive() bool

	// Close releases the underlying connection. A closed Server is never
	// alive again.
	Close() error
}

// Error marks a failure that occurred while talking to a Server: a socket
// error, a closed connection, or a query that exceeded the configured
// timeout. The query engine treats it as a consumed attempt, not an error
// surfaced to the caller, unless it is the cause of the final attempt.
type Error struct {
	Addr string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("transport %s: %v", e.Addr, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

type server struct {
	net     string // "" selects UDP, "tcp" selects TCP, per *dns.Client.Net
	addr    string
	timeout time.Duration

	mu    sync.Mutex
	conn  *dns.Conn
	alive bool

	// ioMu serializes the exchange itself (deadline, write, read) on the
	// shared conn; the transaction ID is allocated before it is taken. A Server's conn is not safe for
	// concurrent use, but multiple Asks can legitimately land on the
	// same Server at once: the resolve pipeline fires A and AAAA
	// concurrently, and both normally share one cached UDP Server from
	// the registry. Held separately from mu so Alive/Close stay
	// responsive while an exchange is in flight.
	ioMu sync.Mutex
}

func newServer(net_, addr string, timeout time.Duration) (*server, error) {
	s := &server{net: net_, addr: addr, timeout: timeout}

	c := &dns.Client{Net: net_, Timeout: timeout}
	conn, err := c.Dial(addr)
	if err != nil {
		return s, &Error{Addr: addr, Err: err}
	}

	s.conn = conn
	s.alive = true

	return s, nil
}

func (s *server) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

func (s *server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.alive = false
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *server) markDead() {
	s.mu.Lock()
	s.alive = false
	s.mu.Unlock()
}

func (s *server) Ask(ctx context.Context, q dns.Question) (*dns.Msg, error) {
	s.mu.Lock()
	conn := s.conn
	alive := s.alive
	s.mu.Unlock()

	if !alive || conn == nil {
		return nil, &Error{Addr: s.addr, Err: errors.New("server not alive")}
	}

	m := new(dns.Msg)
	m.Id = dns.Id()
	m.RecursionDesired = true
	m.Question = []dns.Question{q}

	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
		defer conn.SetDeadline(time.Time{})
	}

	c := &dns.Client{Net: s.net, Timeout: s.timeout}

	resp, _, err := c.ExchangeWithConn(m, conn)
	if err != nil {
		s.markDead()
		return nil, &Error{Addr: s.addr, Err: err}
	}

	return resp, nil
}

// Connect dials uri, which must be of the form "udp://host:port" or
// "tcp://host:port". A Server is always returned, even on dial failure,
// so that the registry can observe it and Close is safe to call; the
// returned error is non-nil in that case.
func Connect(uri string, timeout time.Duration) (Server, error) {
	scheme, addr, err := splitURI(uri)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "udp":
		return newServer("", addr, timeout)
	case "tcp":
		return newServer("tcp", addr, timeout)
	default:
		return nil, fmt.Errorf("transport: unsupported scheme %q in %q", scheme, uri)
	}
}

func splitURI(uri string) (scheme, addr string, err error) {
	i := strings.Index(uri, "://")
	if i < 0 {
		return "", "", fmt.Errorf("transport: malformed server uri %q", uri)
	}
	return uri[:i], uri[i+len("://"):], nil
}
