package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/access"
	"github.com/trezcool/eduportal/core/action"
	"github.com/trezcool/eduportal/core/announce"
	"github.com/trezcool/eduportal/core/audit"
	"github.com/trezcool/eduportal/core/class"
	"github.com/trezcool/eduportal/core/session"
	"github.com/trezcool/eduportal/core/subject"
	"github.com/trezcool/eduportal/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		SignalShutdown func()

		Sessions    *session.Manager
		UserSvc     *user.Service
		SubjectSvc  *subject.Service
		ClassSvc    *class.Service
		AnnounceSvc *announce.Service
		AuditSvc    *audit.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.SignalShutdown == nil {
		opts.SignalShutdown = func() {}
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = debug

	// every page request passes the session gate, unregistered paths included
	s.app.Use(sessionGate(s.opts.Sessions))

	s.app.GET(access.RootPath, home)
	s.app.GET(access.GeneralLoginPath, loginPage)
	s.app.GET(access.RegisterPath, registerPage)
	s.app.GET(access.GeneralHomePath, dashboardPage)
	s.app.GET(access.AdminLoginPath, adminLoginPage)
	s.app.GET(access.AdminHomePath, adminDashboardPage)

	v1 := s.app.Group("/v1")
	guard := action.NewGuard(s.opts.Sessions)

	registerAuthAPI(v1, s.opts.Sessions, s.opts.Validate)
	registerUserAPI(v1, guard, s.opts.UserSvc, s.opts.AuditSvc, s.opts.Validate, s.opts.Translator, s.opts.Logger)
	registerSubjectAPI(v1, guard, s.opts.SubjectSvc, s.opts.AuditSvc, s.opts.Validate, s.opts.Translator, s.opts.Logger)
	registerClassAPI(v1, guard, s.opts.ClassSvc, s.opts.AuditSvc, s.opts.Validate, s.opts.Translator, s.opts.Logger)
	registerAnnouncementAPI(v1, guard, s.opts.AnnounceSvc, s.opts.AuditSvc, s.opts.Validate, s.opts.Translator, s.opts.Logger)
	registerAuditAPI(v1, guard, s.opts.AuditSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
