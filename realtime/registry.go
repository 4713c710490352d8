// Package realtime routes events to the live connections of a user.
// The Registry tracks which connections are joined under which user
// key, the Hub fans events out to them, and the Redis bus carries
// publishes across server processes.
package realtime

import (
	"errors"
	"sync"
)

var (
	ErrEmptyKey      = errors.New("user id is required to join")
	ErrAlreadyJoined = errors.New("connection already joined under another user")
)

// Conn is one live subscriber. Deliver must not block; it reports
// false when the message was dropped (buffer full or connection
// closing).
type Conn interface {
	Deliver(msg []byte) bool
}

// Registry is the concurrency-safe membership map from user key to
// joined connections. A connection belongs to at most one key.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]map[Conn]struct{}
	keys  map[Conn]string
}

func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]map[Conn]struct{}),
		keys:  make(map[Conn]string),
	}
}

// Join moves a connection into the group for key. Joining the same
// key again is a no-op; joining a different key is rejected.
func (r *Registry) Join(c Conn, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.keys[c]; ok {
		if current == key {
			return nil
		}
		return ErrAlreadyJoined
	}
	group, ok := r.byKey[key]
	if !ok {
		group = make(map[Conn]struct{})
		r.byKey[key] = group
	}
	group[c] = struct{}{}
	r.keys[c] = key
	return nil
}

// Leave removes the connection. Safe to call for connections that
// never joined.
func (r *Registry) Leave(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.keys[c]
	if !ok {
		return
	}
	delete(r.keys, c)
	group := r.byKey[key]
	delete(group, c)
	if len(group) == 0 {
		delete(r.byKey, key)
	}
}

// Key returns the user key the connection is joined under.
func (r *Registry) Key(c Conn) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keys[c]
	return key, ok
}

// Joined returns how many connections are joined under key.
func (r *Registry) Joined(key string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey[key])
}

func (r *Registry) connsFor(key string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	group := r.byKey[key]
	if len(group) == 0 {
		return nil
	}
	conns := make([]Conn, 0, len(group))
	for c := range group {
		conns = append(conns, c)
	}
	return conns
}
