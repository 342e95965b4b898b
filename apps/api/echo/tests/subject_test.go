package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core/action"
	"github.com/trezcool/eduportal/core/subject"
	"github.com/trezcool/eduportal/core/user"
	testutil "github.com/trezcool/eduportal/tests"
)

func TestSubjectAPI(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	adminCookie := app.signIn(t, admin.Email, "mdr")

	var mathID string

	t.Run("create", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/subjects", subject.NewSubject{Code: " MATH ", Name: "Mathematics"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)
		assert.Equal(t, "subject created", res.Message)
		require.NotEmpty(t, res.ID)
		mathID = res.ID

		sub, err := app.subjectSvc.GetByID(res.ID)
		require.NoError(t, err)
		assert.Equal(t, "math", sub.Code) // cleaned and lowered
	})

	t.Run("duplicate code", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/subjects", subject.NewSubject{Code: "math", Name: "Mathematics II"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, `subject code "math" is already in use`, res.Message)
	})

	t.Run("invalid code", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/subjects", subject.NewSubject{Code: "not a code!", Name: "Nope"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "subject_code")
	})

	t.Run("anonymous mutation is denied", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/subjects", subject.NewSubject{Code: "bio", Name: "Biology"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, action.DeniedMessage, res.Message)
	})

	t.Run("update", func(t *testing.T) {
		rec := app.do(t, http.MethodPut, "/v1/subjects/"+mathID, subject.UpdateSubject{Name: "Advanced Mathematics"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)

		sub, err := app.subjectSvc.GetByID(mathID)
		require.NoError(t, err)
		assert.Equal(t, "Advanced Mathematics", sub.Name)
		assert.Equal(t, "math", sub.Code) // untouched
	})

	t.Run("list", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/subjects", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var subs []subject.Subject
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
		assert.Len(t, subs, 1)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(t, http.MethodDelete, "/v1/subjects/"+mathID, nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)
		assert.Equal(t, "subject deleted", res.Message)

		_, err := app.subjectSvc.GetByID(mathID)
		assert.ErrorIs(t, err, subject.ErrNotFound)
	})

	t.Run("unknown subject", func(t *testing.T) {
		rec := app.do(t, http.MethodDelete, "/v1/subjects/nope", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, subject.ErrNotFound.Error(), res.Message)
	})
}
