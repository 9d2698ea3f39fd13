package service

import (
	"crypto/rsa"
	"sync"

	"github.com/google/uuid"
)

// MemorySessionStore is the process-wide custody of unlocked private keys.
// A single mutex serializes reads against concurrent clears (e.g., an
// auto-lock timer) so a lookup observes either the key or its absence, never
// a torn value. Nothing here is persisted or logged.
type MemorySessionStore struct {
	mu   sync.RWMutex
	keys map[uuid.UUID]*rsa.PrivateKey
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		keys: make(map[uuid.UUID]*rsa.PrivateKey),
	}
}

// Set stores the unlocked private key for a user after a successful unlock.
func (s *MemorySessionStore) Set(userID uuid.UUID, key *rsa.PrivateKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[userID] = key
}

// Get returns the unlocked private key for a user, if any.
func (s *MemorySessionStore) Get(userID uuid.UUID) (*rsa.PrivateKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[userID]
	return key, ok
}

// Clear removes a user's session key (lock or logout). All decryption for
// that user fails closed from this point on.
func (s *MemorySessionStore) Clear(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, userID)
}

// ClearAll removes every session key (app exit, auto-lock timeout).
func (s *MemorySessionStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[uuid.UUID]*rsa.PrivateKey)
}
