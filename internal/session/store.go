package session

import (
	"sync"

	"github.com/enrollchat/enrollchat/internal/core"
)

// Store maps a caller-supplied session id to its live model conversation.
// One instance exists per process, constructed at startup and passed to
// every handler. Sessions live until explicitly cleared; there is no expiry,
// so long-running processes grow with distinct session ids.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]core.Conversation
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]core.Conversation)}
}

// Get returns the conversation for id, or (nil, false). It never creates.
func (s *Store) Get(id string) (core.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.sessions[id]
	return conv, ok
}

// Put installs a conversation under id. An existing entry is overwritten;
// concurrent first-creation races resolve last-writer-wins.
func (s *Store) Put(id string, conv core.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = conv
}

// Remove deletes one session. Removing an unknown id is a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]core.Conversation)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
