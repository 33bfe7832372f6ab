package retrieval

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Session store defaults.
const (
	DefaultSessionTTL = 30 * time.Minute
	DefaultMaxSession = 10000
)

// Sessions holds navigators by session ID. Idle sessions expire after the TTL
// and the least recently used are evicted past the size bound.
type Sessions struct {
	lru *expirable.LRU[string, *Navigator]
}

// NewSessions creates a session store.
func NewSessions(size int, ttl time.Duration) *Sessions {
	if size <= 0 {
		size = DefaultMaxSession
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{lru: expirable.NewLRU[string, *Navigator](size, nil, ttl)}
}

// Create stores nav under a new session ID.
func (s *Sessions) Create(nav *Navigator) string {
	id := uuid.NewString()
	s.lru.Add(id, nav)
	return id
}

// Get returns the navigator for id and extends its lifetime.
func (s *Sessions) Get(id string) (*Navigator, bool) {
	nav, ok := s.lru.Get(id)
	if !ok {
		return nil, false
	}
	s.lru.Add(id, nav)
	return nav, true
}

// Delete ends a session. It reports whether the session existed.
func (s *Sessions) Delete(id string) bool {
	return s.lru.Remove(id)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.lru.Len()
}
