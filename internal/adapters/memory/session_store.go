// Package memory provides a process-local session store for development and
// single-instance deployments without Redis.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/expensetracker/web/internal/domain/auth"
	"github.com/expensetracker/web/internal/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is a mutex-guarded map of sessions with lazy expiry.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string]domainauth.Session
	now  func() time.Time
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string]domainauth.Session),
		now:  time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	now := s.now()
	if sess.Expired(now) {
		return errors.New("session is expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.data[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.RLock()
	sess, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		s.mu.Lock()
		delete(s.data, id)
		s.mu.Unlock()
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// Len reports the number of stored sessions, including ones not yet pruned.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// pruneLocked drops expired sessions so abandoned logins do not accumulate.
func (s *SessionStore) pruneLocked(now time.Time) {
	for id, sess := range s.data {
		if sess.Expired(now) {
			delete(s.data, id)
		}
	}
}
