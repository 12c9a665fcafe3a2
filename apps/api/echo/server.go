package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
)

type ServerDeps struct {
	Logger core.Logger

	SchoolSvc     *school.Service
	PolicySvc     *policy.Service
	AttendanceSvc *attendance.Service
	FinanceSvc    *finance.Service

	DisableReqLogs bool
}

type Server struct {
	deps     ServerDeps
	app      *echo.Echo
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerSchoolAPI(v1, s.deps.SchoolSvc)
	registerPolicyAPI(v1, s.deps.PolicySvc)
	registerAttendanceAPI(v1, s.deps.AttendanceSvc)
	registerReportAPI(v1, s.deps.AttendanceSvc, s.deps.FinanceSvc)
	registerFinanceAPI(v1, s.deps.FinanceSvc)
}

// Start launches the listener in its own goroutine and registers interest in
// shutdown signals. Callers block on Errors() / ShutdownSignal().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		s.errors <- s.app.Start(core.Conf.Server.Address())
	}()
}

func (s *Server) Errors() <-chan error { return s.errors }
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Fa Akademi API!")
}
