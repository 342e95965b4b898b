package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core/user"
)

type memRepo struct {
	mu      sync.Mutex
	entries []Entry
	gate    chan struct{} // when set, CreateEntry blocks until it is closed
}

func (r *memRepo) CreateEntry(_ context.Context, entry Entry) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memRepo) FilterEntries(_ context.Context, filter QueryFilter) ([]Entry, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []Entry
	for _, entry := range r.entries {
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		matches = append(matches, entry)
	}
	return matches, len(matches), nil
}

func (r *memRepo) all() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func TestService_Record(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil)

	actor := user.User{ID: "u1", Email: "root@test.cd", Role: user.RoleAdmin}
	svc.Record(actor, ActionUserCreated, "user", "u2", "created user awe@test.cd")
	svc.Record(user.User{}, ActionUserVerified, "user", "u2", "")
	svc.Close()

	entries := repo.all()
	require.Len(t, entries, 2)

	created := entries[0]
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, ActionUserCreated, created.Action)
	assert.Equal(t, "user", created.TargetType)
	assert.Equal(t, "u2", created.TargetID)
	require.True(t, created.ActorID.Valid)
	assert.Equal(t, "u1", created.ActorID.String)
	assert.Equal(t, "root@test.cd", created.ActorEmail.String)

	// unknown actor stays NULL rather than faking an identity
	anon := entries[1]
	assert.False(t, anon.ActorID.Valid)
	assert.False(t, anon.ActorEmail.Valid)

	assert.Zero(t, svc.Dropped())
}

func TestService_Record_fullBufferDrops(t *testing.T) {
	repo := &memRepo{gate: make(chan struct{})}
	svc := NewService(repo, nil)

	actor := user.User{ID: "u1", Email: "root@test.cd"}

	// one entry stalls in the dispatcher, recordBuffer more fill the channel
	svc.Record(actor, ActionUserCreated, "user", "first", "")
	require.Eventually(t, func() bool { return len(svc.ch) == 0 }, time.Second, time.Millisecond)
	for i := 0; i < recordBuffer; i++ {
		svc.Record(actor, ActionUserCreated, "user", "fill", "")
	}

	// the caller must not block; the overflow is dropped and counted
	svc.Record(actor, ActionUserCreated, "user", "overflow", "")
	assert.EqualValues(t, 1, svc.Dropped())

	close(repo.gate)
	svc.Close()
	assert.Len(t, repo.all(), 1+recordBuffer)
}

func TestService_Filter(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil)
	defer svc.Close()

	actor := user.User{ID: "u1", Email: "root@test.cd"}
	svc.Record(actor, ActionUserCreated, "user", "u2", "")
	svc.Record(actor, ActionSubjectCreated, "subject", "s1", "")
	require.Eventually(t, func() bool { return len(repo.all()) == 2 }, time.Second, time.Millisecond)

	entries, total, err := svc.Filter(context.Background(), QueryFilter{Action: ActionSubjectCreated})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionSubjectCreated, entries[0].Action)
}
