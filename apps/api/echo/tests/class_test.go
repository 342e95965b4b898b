package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/eduportal/core/class"
	"github.com/trezcool/eduportal/core/user"
	testutil "github.com/trezcool/eduportal/tests"
)

func TestClassAPI(t *testing.T) {
	app := newTestApp(t)

	admin := testutil.CreateUser(t, app.usrRepo, "Root", "root@test.cd", "mdr", user.RoleAdmin, true)
	teacher := testutil.CreateUser(t, app.usrRepo, "Awe", "awe@test.cd", "mdr", user.RoleTeacher, true)
	adminCookie := app.signIn(t, admin.Email, "mdr")

	var classID string

	t.Run("create with homeroom teacher", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/classes", class.NewClass{Name: "7A", GradeLevel: 7, TeacherID: teacher.ID}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)
		assert.Equal(t, "class created", res.Message)
		require.NotEmpty(t, res.ID)
		classID = res.ID

		cls, err := app.classSvc.GetByID(res.ID)
		require.NoError(t, err)
		assert.Equal(t, teacher.ID, cls.TeacherID.String)
	})

	t.Run("unknown teacher is a constraint violation", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/classes", class.NewClass{Name: "7B", GradeLevel: 7, TeacherID: uuid.New().String()}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Equal(t, "the assigned homeroom teacher does not exist", res.Message)
	})

	t.Run("grade level out of range", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/v1/classes", class.NewClass{Name: "Nope", GradeLevel: 14}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "grade_level")
	})

	t.Run("update", func(t *testing.T) {
		rec := app.do(t, http.MethodPut, "/v1/classes/"+classID, class.UpdateClass{Name: "7A bis"}, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)

		cls, err := app.classSvc.GetByID(classID)
		require.NoError(t, err)
		assert.Equal(t, "7A bis", cls.Name)
		assert.Equal(t, 7, cls.GradeLevel)                // untouched
		assert.Equal(t, teacher.ID, cls.TeacherID.String) // untouched
	})

	t.Run("list", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/v1/classes", nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var classes []class.Class
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
		assert.Len(t, classes, 1)
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(t, http.MethodDelete, "/v1/classes/"+classID, nil, adminCookie)
		require.Equal(t, http.StatusOK, rec.Code)
		res := parseResult(t, rec)
		assert.True(t, res.Success)

		_, err := app.classSvc.GetByID(classID)
		assert.ErrorIs(t, err, class.ErrNotFound)
	})
}
