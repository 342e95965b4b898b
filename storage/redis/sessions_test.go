package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core/session"
)

func newTestRegistry(t *testing.T) (*SessionRegistry, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRegistry(client), srv
}

func TestSessionRegistry_roundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	sess := session.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(12 * time.Hour),
	}
	require.NoError(t, reg.SaveSession(ctx, sess))

	got, err := reg.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))
}

func TestSessionRegistry_missingSession(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionRegistry_expiredSessionRejected(t *testing.T) {
	reg, _ := newTestRegistry(t)

	sess := session.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	assert.Error(t, reg.SaveSession(context.Background(), sess))
}

func TestSessionRegistry_keyExpiry(t *testing.T) {
	reg, srv := newTestRegistry(t)
	ctx := context.Background()

	now := time.Now().UTC()
	sess := session.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Minute),
	}
	require.NoError(t, reg.SaveSession(ctx, sess))

	srv.FastForward(2 * time.Minute)

	_, err := reg.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionRegistry_delete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	now := time.Now().UTC()
	sess := session.Session{ID: "sess-1", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, reg.SaveSession(ctx, sess))
	require.NoError(t, reg.DeleteSession(ctx, sess.ID))

	_, err := reg.GetSession(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}
