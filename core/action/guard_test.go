package action

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/session"
	"github.com/trezcool/eduportal/core/user"
	dummydb "github.com/trezcool/eduportal/storage/database/dummy"
	testutil "github.com/trezcool/eduportal/tests"
)

func TestGuard_RequireAdmin(t *testing.T) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	repo := dummydb.NewUserRepository(db)

	mgr := session.NewManager(session.NewMemoryRegistry(), user.NewService(repo, nil))
	guard := NewGuard(mgr)
	ctx := context.Background()

	admin := testutil.CreateUser(t, repo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	staff := testutil.CreateUser(t, repo, "Awe", "awe@test.cd", "mdr", user.RoleStaff, true)

	adminSess, _, err := mgr.SignIn(ctx, admin.Email, "mdr")
	require.NoError(t, err)
	staffSess, _, err := mgr.SignIn(ctx, staff.Email, "mdr")
	require.NoError(t, err)

	assertDenied := func(t *testing.T, err error) {
		t.Helper()
		require.Error(t, err)
		assert.True(t, core.IsPermissionDenied(err))
		// same message for every denial; internals are not leaked
		assert.EqualError(t, err, DeniedMessage)
	}

	t.Run("no session", func(t *testing.T) {
		_, err := guard.RequireAdmin(ctx, "")
		assertDenied(t, err)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := guard.RequireAdmin(ctx, "forged-or-stale")
		assertDenied(t, err)
	})

	t.Run("non-admin", func(t *testing.T) {
		_, err := guard.RequireAdmin(ctx, staffSess.ID)
		assertDenied(t, err)
	})

	t.Run("admin", func(t *testing.T) {
		usr, err := guard.RequireAdmin(ctx, adminSess.ID)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, usr.ID)
	})

	t.Run("role is re-derived per check", func(t *testing.T) {
		// a demotion takes effect on the very next mutation
		staff.Role = user.RoleAdmin
		_, err := repo.UpdateUser(staff, nil)
		require.NoError(t, err)
		_, err = guard.RequireAdmin(ctx, staffSess.ID)
		require.NoError(t, err)

		staff.Role = user.RoleStaff
		_, err = repo.UpdateUser(staff, nil)
		require.NoError(t, err)
		_, err = guard.RequireAdmin(ctx, staffSess.ID)
		assertDenied(t, err)
	})

	t.Run("deactivated admin", func(t *testing.T) {
		inactive := false
		_, err := repo.UpdateUser(admin, &inactive)
		require.NoError(t, err)
		_, err = guard.RequireAdmin(ctx, adminSess.ID)
		assertDenied(t, err)
	})
}
