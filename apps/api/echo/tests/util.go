package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/eduportal/apps/api/echo"
	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/action"
	"github.com/trezcool/eduportal/core/announce"
	"github.com/trezcool/eduportal/core/audit"
	"github.com/trezcool/eduportal/core/class"
	"github.com/trezcool/eduportal/core/session"
	"github.com/trezcool/eduportal/core/subject"
	"github.com/trezcool/eduportal/core/user"
	emailsvc "github.com/trezcool/eduportal/services/email"
	dummydb "github.com/trezcool/eduportal/storage/database/dummy"
)

const sessionCookieName = "eduportal_session"

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

type testApp struct {
	server   echoapi.Server
	sessions *session.Manager

	usrRepo     user.Repository
	userSvc     *user.Service
	subjectSvc  *subject.Service
	classSvc    *class.Service
	announceSvc *announce.Service
	auditSvc    *audit.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	emailsvc.ClearSentMessages()
	mailSvc := emailsvc.NewConsoleServiceMock()

	validate, translator := core.NewValidator()
	user.RegisterRoleValidation(validate, translator)

	app := &testApp{
		usrRepo:     dummydb.NewUserRepository(db),
		subjectSvc:  subject.NewService(dummydb.NewSubjectRepository(db)),
		classSvc:    class.NewService(dummydb.NewClassRepository(db)),
		announceSvc: announce.NewService(dummydb.NewAnnouncementRepository(db)),
		auditSvc:    audit.NewService(dummydb.NewAuditRepository(db), testLogger{}),
	}
	t.Cleanup(app.auditSvc.Close)

	app.userSvc = user.NewService(app.usrRepo, mailSvc)
	app.sessions = session.NewManager(session.NewMemoryRegistry(), app.userSvc)

	app.server = echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Logger:         testLogger{},
		Validate:       validate,
		Translator:     translator,
		Sessions:       app.sessions,
		UserSvc:        app.userSvc,
		SubjectSvc:     app.subjectSvc,
		ClassSvc:       app.classSvc,
		AnnounceSvc:    app.announceSvc,
		AuditSvc:       app.auditSvc,
	})
	return app
}

func (app *testApp) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

// signIn authenticates through the API and returns the session cookie.
func (app *testApp) signIn(t *testing.T, email, pwd string) *http.Cookie {
	t.Helper()

	rec := app.do(t, http.MethodPost, "/v1/auth/login", echoapi.LoginRequest{Email: email, Password: pwd}, nil)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login response carries no session cookie")
	return nil
}

func forgedCookie() *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: "definitely-not-a-signed-token"}
}

func parseResult(t *testing.T, rec *httptest.ResponseRecorder) action.Result {
	t.Helper()
	var res action.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

type page struct {
	Results    json.RawMessage `json:"results"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
}

func parsePage(t *testing.T, rec *httptest.ResponseRecorder) page {
	t.Helper()
	var pg page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pg))
	return pg
}
