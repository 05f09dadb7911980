package transport

import (
	"sync"
	"time"
)

// Registry maps a "protocol://host:port" URI to its Server, holding at
// most one Server per URI. It owns the Servers it constructs; a
// QueryEngine holds only a transient, non-owning reference for the
// duration of one Ask.
type Registry struct {
	timeout time.Duration

	mu      sync.Mutex
	servers map[string]Server
}

// NewRegistry returns an empty Registry. timeout bounds both the initial
// connection and every subsequent Ask issued through Servers it creates.
func NewRegistry(timeout time.Duration) *Registry {
	return &Registry{
		timeout: timeout,
		servers: map[string]Server{},
	}
}

// Get returns the existing Server for uri, or constructs, stores, and
// returns a new one via Connect. A Server that failed to connect is not
// retained: the next Get for the same uri tries again.
func (r *Registry) Get(uri string) (Server, error) {
	r.mu.Lock()
	if s, ok := r.servers[uri]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	s, err := Connect(uri, r.timeout)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.servers[uri] = s
	r.mu.Unlock()

	return s, nil
}

// Evict removes and closes uri's Server, if any. The next Get for the
// same uri constructs a fresh one.
func (r *Registry) Evict(uri string) {
	r.mu.Lock()
	s, ok := r.servers[uri]
	delete(r.servers, uri)
	r.mu.Unlock()

	if ok {
		_ = s.Close()
	}
}

// Close evicts and closes every Server in the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	servers := r.servers
	r.servers = map[string]Server{}
	r.mu.Unlock()

	for _, s := range servers {
		_ = s.Close()
	}
}
