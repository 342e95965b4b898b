package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("session not found")

// Session is a time-bounded proof of authentication bound to one user.
// It is an opaque server-side record; the caller only ever holds its ID
// (wrapped in a signed cookie token by the transport layer).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
	ExpiresAt time.Time `json:"expires_at"` // UTC
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Registry is the server-side session store.
type Registry interface {
	SaveSession(ctx context.Context, sess Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
}
