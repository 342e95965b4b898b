package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/action"
	"github.com/trezcool/eduportal/core/user"
	emailsvc "github.com/trezcool/eduportal/services/email"
	testutil "github.com/trezcool/eduportal/tests"
)

func TestUserAPI_create(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	staff := testutil.CreateUser(t, app.usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleStaff, true)
	adminCookie := app.signIn(t, admin.Email, "mdr")
	staffCookie := app.signIn(t, staff.Email, "mdr")

	payload := user.NewUser{
		Name:            "New Teacher",
		Email:           "teacher@test.cd",
		Role:            user.RoleTeacher,
		Password:        "mdr",
		PasswordConfirm: "mdr",
	}

	t.Run("anonymous is denied", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/users", payload, nil)
		// mutations always answer 200; the denial is data
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, action.DeniedMessage, res.Message)
	})

	t.Run("non-admin is denied with the same message", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/users", payload, staffCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, action.DeniedMessage, res.Message)
	})

	t.Run("forged cookie is denied", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/users", payload, forgedCookie())
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, action.DeniedMessage, res.Message)
	})

	t.Run("admin creates", func(t *testing.T) {
		emailsvc.ClearSentMessages()

		rec := app.do(t, http.MethodPost, "/v1/users", payload, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)
		assert.Equal(t, "user created", res.Message)
		require.NotEmpty(t, res.ID)

		usr, err := app.usrRepo.GetUserByID(res.ID)
		require.NoError(t, err)
		assert.Equal(t, "teacher@test.cd", usr.Email)
		assert.False(t, usr.IsVerified)

		require.Len(t, emailsvc.SentMessages, 1)
		assert.Equal(t, "Welcome to "+core.Conf.AppName, emailsvc.SentMessages[0].Subject)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/users", payload, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, "email: a user with this email already exists", res.Message)
	})

	t.Run("invalid payload", func(t *testing.T) {
		bad := payload
		bad.Email = "nope"
		bad.PasswordConfirm = "other"
		rec := app.do(t, http.MethodPost, "/v1/users", bad, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Message)
		assert.Contains(t, res.Message, "email")
	})
}

func TestUserAPI_verifyRoundTrip(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	adminCookie := app.signIn(t, admin.Email, "mdr")

	// create an account, confirm it shows up as unverified, verify it,
	// confirm it no longer shows up
	rec := app.do(t, http.MethodPost, "/v1/users", user.NewUser{
		Name:            "Pending",
		Email:           "pending@test.cd",
		Role:            user.RoleTeacher,
		Password:        "mdr",
		PasswordConfirm: "mdr",
	}, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	res := parseResult(t, rec)
	require.True(t, res.Success)
	pendingID := res.ID

	rec = app.do(t, http.MethodGet, "/v1/users/unverified", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var unverified []user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unverified))
	require.Len(t, unverified, 1)
	assert.Equal(t, pendingID, unverified[0].ID)

	emailsvc.ClearSentMessages()
	rec = app.do(t, http.MethodPost, "/v1/users/"+pendingID+"/verify", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	res = parseResult(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "user verified", res.Message)
	require.Len(t, emailsvc.SentMessages, 1)

	rec = app.do(t, http.MethodGet, "/v1/users/unverified", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	unverified = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &unverified))
	assert.Empty(t, unverified)

	// and the account can now sign in
	app.signIn(t, "pending@test.cd", "mdr")

	t.Run("unknown user", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/users/nope/verify", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, user.ErrNotFound.Error(), res.Message)
	})
}

func TestUserAPI_update(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	usr := testutil.CreateUser(t, app.usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleStaff, true)
	adminCookie := app.signIn(t, admin.Email, "mdr")

	rec := app.do(t, http.MethodPut, "/v1/users/"+usr.ID, user.UpdateUser{Name: "Awe Renamed", Role: user.RolePrincipal}, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	res := parseResult(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "user updated", res.Message)

	got, err := app.usrRepo.GetUserByID(usr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Awe Renamed", got.Name)
	assert.Equal(t, user.RolePrincipal, got.Role)
	assert.Equal(t, usr.Email, got.Email) // untouched

	t.Run("taken email", func(t *testing.T) {
		rec := app.do(t, http.MethodPut, "/v1/users/"+usr.ID, user.UpdateUser{Email: admin.Email}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := app.do(t, http.MethodPut, "/v1/users/nope", user.UpdateUser{Name: "X"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, user.ErrNotFound.Error(), res.Message)
	})
}

func TestUserAPI_destroy(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	usr := testutil.CreateUser(t, app.usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleStaff, true)
	adminCookie := app.signIn(t, admin.Email, "mdr")

	t.Run("self-delete is refused", func(t *testing.T) {
		rec := app.do(t, http.MethodDelete, "/v1/users/"+admin.ID, nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, "you cannot delete your own account", res.Message)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(t, http.MethodDelete, "/v1/users/"+usr.ID, nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)
		assert.Equal(t, "user deleted", res.Message)

		_, err := app.usrRepo.GetUserByID(usr.ID)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestUserAPI_listing(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	staff := testutil.CreateUser(t, app.usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleStaff, true)
	for i := 0; i < 11; i++ {
		testutil.CreateUser(t, app.usrRepo, fmt.Sprintf("Teacher %02d", i), fmt.Sprintf("teacher%02d@test.cd", i), "", user.RoleTeacher, true)
	}
	adminCookie := app.signIn(t, admin.Email, "mdr")
	staffCookie := app.signIn(t, staff.Email, "mdr")

	t.Run("reads are plain HTTP errors for non-admins", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/users", nil, staffCookie)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = app.do(t, http.MethodGet, "/v1/users", nil, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("first page", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/users?page=1", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		pg := parsePage(t, rec)
		assert.Equal(t, 13, pg.TotalCount)
		assert.Equal(t, 1, pg.Page)
		assert.Equal(t, core.UserPageSize, pg.PageSize)

		var rows []user.User
		require.NoError(t, json.Unmarshal(pg.Results, &rows))
		assert.Len(t, rows, core.UserPageSize)
	})

	t.Run("last page", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/users?page=2", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		pg := parsePage(t, rec)
		assert.Equal(t, 13, pg.TotalCount)

		var rows []user.User
		require.NoError(t, json.Unmarshal(pg.Results, &rows))
		assert.Len(t, rows, 3)
	})

	t.Run("malformed filter answers 400", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/users?page=abc", nil, adminCookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("filter by role", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/users?role=admin", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		pg := parsePage(t, rec)
		assert.Equal(t, 1, pg.TotalCount)
	})

	t.Run("roles listing", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/users/roles", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var roles []user.RoleChoice
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roles))
		assert.Len(t, roles, len(user.AllRoles))
	})

	t.Run("retrieve", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/users/"+staff.ID, nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var got user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, staff.ID, got.ID)

		rec = app.do(t, http.MethodGet, "/v1/users/nope", nil, adminCookie)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
