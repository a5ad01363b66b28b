// Package store persists research sessions.
package store

import (
	"context"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
)

// SessionStore is the persistence contract for research sessions.
type SessionStore interface {
	// Save writes the session, creating or replacing it.
	Save(ctx context.Context, session *entity.Session) error

	// Get returns the session by id, or errno.ErrSessionNotFound.
	Get(ctx context.Context, id string) (*entity.Session, error)

	// List returns every stored session ordered by creation time.
	List(ctx context.Context) ([]*entity.Session, error)

	// Delete removes the session. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases store resources.
	Close() error
}
