// Package inmemory provides a map-backed SessionStore for tests and
// ephemeral runs.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/internal/bioagent/store"
)

// SessionStore implements store.SessionStore with an in-process map.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty in-memory store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entity.Session),
	}
}

func (s *SessionStore) Save(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errno.ErrSessionNotFound, id)
	}
	return session, nil
}

func (s *SessionStore) List(_ context.Context) ([]*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]*entity.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Close() error {
	return nil
}
