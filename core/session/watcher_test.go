package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core/access"
	"github.com/trezcool/eduportal/core/user"
	testutil "github.com/trezcool/eduportal/tests"
)

type pathRecorder struct {
	mu   sync.Mutex
	path string
	navs []string
}

func newPathRecorder(path string) *pathRecorder {
	return &pathRecorder{path: path}
}

func (r *pathRecorder) current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// navigate records the target and moves the "browser" there.
func (r *pathRecorder) navigate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = target
	r.navs = append(r.navs, target)
}

func (r *pathRecorder) lastNav() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.navs) == 0 {
		return ""
	}
	return r.navs[len(r.navs)-1]
}

func TestWatcher_initialLoad(t *testing.T) {
	mgr, repo := newTestManager(t)
	usr := testutil.CreateUser(t, repo, "Awe", "awe@test.cd", "mdr", user.RoleStaff, true)

	t.Run("no stored credential on a protected page", func(t *testing.T) {
		rec := newPathRecorder(access.GeneralHomePath)
		w := NewWatcher(mgr, rec.current, rec.navigate)
		assert.True(t, w.State().Loading)

		w.Start(context.Background(), "")
		defer w.Stop()

		require.Eventually(t, func() bool { return !w.State().Loading }, time.Second, 5*time.Millisecond)
		assert.Nil(t, w.State().User)
		assert.Equal(t, access.GeneralLoginPath, rec.lastNav())
	})

	t.Run("stale credential fails closed", func(t *testing.T) {
		rec := newPathRecorder(access.GeneralHomePath)
		w := NewWatcher(mgr, rec.current, rec.navigate)
		w.Start(context.Background(), "long-gone-session")
		defer w.Stop()

		require.Eventually(t, func() bool { return !w.State().Loading }, time.Second, 5*time.Millisecond)
		assert.Nil(t, w.State().User)
		assert.Equal(t, access.GeneralLoginPath, rec.lastNav())
	})

	t.Run("valid credential stays put", func(t *testing.T) {
		sess, _, err := mgr.SignIn(context.Background(), usr.Email, "mdr")
		require.NoError(t, err)

		rec := newPathRecorder(access.GeneralHomePath)
		w := NewWatcher(mgr, rec.current, rec.navigate)
		w.Start(context.Background(), sess.ID)
		defer w.Stop()

		require.Eventually(t, func() bool { return !w.State().Loading }, time.Second, 5*time.Millisecond)
		require.NotNil(t, w.State().User)
		assert.Equal(t, usr.ID, w.State().User.ID)
		assert.Empty(t, rec.lastNav())
	})
}

func TestWatcher_followsAuthEvents(t *testing.T) {
	mgr, repo := newTestManager(t)
	ctx := context.Background()

	staff := testutil.CreateUser(t, repo, "Awe", "awe@test.cd", "mdr", user.RoleStaff, true)
	admin := testutil.CreateUser(t, repo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)

	rec := newPathRecorder(access.GeneralLoginPath)
	w := NewWatcher(mgr, rec.current, rec.navigate)
	w.Start(ctx, "")
	defer w.Stop()
	require.Eventually(t, func() bool { return !w.State().Loading }, time.Second, 5*time.Millisecond)

	// staff signs in on the login page -> general dashboard
	_, _, err := mgr.SignIn(ctx, staff.Email, "mdr")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.current() == access.GeneralHomePath }, time.Second, 5*time.Millisecond)
	require.NotNil(t, w.State().User)
	assert.Equal(t, staff.ID, w.State().User.ID)

	// signing out lands back on the login page
	require.NoError(t, w.SignOut(ctx))
	require.Eventually(t, func() bool { return rec.current() == access.GeneralLoginPath }, time.Second, 5*time.Millisecond)
	assert.Nil(t, w.State().User)

	// an admin on the general login page is sent to the admin dashboard
	_, _, err = mgr.SignIn(ctx, admin.Email, "mdr")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.current() == access.AdminHomePath }, time.Second, 5*time.Millisecond)
}

func TestWatcher_stopBeforeStart(t *testing.T) {
	mgr, _ := newTestManager(t)

	rec := newPathRecorder(access.RootPath)
	w := NewWatcher(mgr, rec.current, rec.navigate)

	// must return immediately, not wait on a run loop that never started
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() hung without a prior Start()")
	}
}

func TestWatcher_signOutWithoutSession(t *testing.T) {
	mgr, _ := newTestManager(t)

	rec := newPathRecorder(access.RootPath)
	w := NewWatcher(mgr, rec.current, rec.navigate)
	w.Start(context.Background(), "")
	defer w.Stop()
	require.Eventually(t, func() bool { return !w.State().Loading }, time.Second, 5*time.Millisecond)

	// no session: a no-op, not an error
	assert.NoError(t, w.SignOut(context.Background()))
}
