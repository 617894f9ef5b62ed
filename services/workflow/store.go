package workflow

import (
	"context"
	"sync"
)

// SessionStore keeps per-administrator sessions. Implementations must treat
// stored sessions as owned copies: mutations after Put must not leak in.
type SessionStore interface {
	// Get returns (nil, nil) when the administrator has no session.
	Get(ctx context.Context, adminID int64) (*Session, error)
	Put(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, adminID int64) error
}

// MemoryStore is the in-process store used in development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewMemoryStore builds an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]Session)}
}

func (s *MemoryStore) Get(ctx context.Context, adminID int64) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[adminID]
	if !ok {
		return nil, nil
	}
	cp := sess
	cp.Draft.Features = append([]string(nil), sess.Draft.Features...)
	cp.Draft.Photos = append(cp.Draft.Photos[:0:0], sess.Draft.Photos...)
	return &cp, nil
}

func (s *MemoryStore) Put(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	cp.Draft.Features = append([]string(nil), sess.Draft.Features...)
	cp.Draft.Photos = append(cp.Draft.Photos[:0:0], sess.Draft.Photos...)
	s.sessions[sess.AdminID] = cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, adminID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, adminID)
	return nil
}
