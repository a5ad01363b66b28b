// Package boltdb provides a BoltDB-backed SessionStore.
package boltdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/boltdb/bolt"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
	"github.com/kiosk404/bioagent/internal/bioagent/errno"
	"github.com/kiosk404/bioagent/internal/bioagent/store"
	"github.com/kiosk404/bioagent/pkg/utils/json"
)

var bucketSessions = []byte("sessions")

// SessionStore implements store.SessionStore on top of BoltDB.
type SessionStore struct {
	db *bolt.DB
}

var _ store.SessionStore = (*SessionStore)(nil)

// Open opens (or creates) the session database at path.
func Open(path string) (*SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSessions)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &SessionStore{db: db}, nil
}

func (s *SessionStore) Save(_ context.Context, session *entity.Session) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		return b.Put([]byte(session.ID), data)
	})
}

func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	var session entity.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", errno.ErrSessionNotFound, id)
		}
		return json.Unmarshal(data, &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) List(_ context.Context) ([]*entity.Session, error) {
	var sessions []*entity.Session
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSessions)
		return b.ForEach(func(k, v []byte) error {
			var session entity.Session
			if err := json.Unmarshal(v, &session); err != nil {
				return fmt.Errorf("failed to unmarshal session %q: %w", k, err)
			}
			sessions = append(sessions, &session)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(id))
	})
}

func (s *SessionStore) Close() error {
	return s.db.Close()
}
