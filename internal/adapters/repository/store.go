// Package repository holds uploaded event tables between requests.
package repository

import (
	"context"
	"time"

	"github.com/okian/rugbylens/internal/domain/model"
)

// Session is one user's uploaded data set.
type Session struct {
	ID         string
	Table      *model.Table
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastAccess time.Time
}

// Store provides access to sessions. Tables handed to the store must not be
// mutated afterwards; readers share them without locking.
type Store interface {
	// Create stores a new session and returns it with a fresh ID.
	Create(ctx context.Context, t *model.Table) (Session, error)
	// Get returns the session and refreshes its last access time.
	// Returns ErrNotFound if the session is unknown or expired.
	Get(ctx context.Context, id string) (Session, error)
	// Replace swaps the session's table.
	Replace(ctx context.Context, id string, t *model.Table) (Session, error)
	// Delete removes a session. Returns ErrNotFound if it is unknown.
	Delete(ctx context.Context, id string) error
	// Count returns the number of live sessions.
	Count(ctx context.Context) int
}
