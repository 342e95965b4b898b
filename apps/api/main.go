package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/eduportal/apps/api/echo"
	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/announce"
	"github.com/trezcool/eduportal/core/audit"
	"github.com/trezcool/eduportal/core/class"
	"github.com/trezcool/eduportal/core/session"
	"github.com/trezcool/eduportal/core/subject"
	"github.com/trezcool/eduportal/core/user"
	emailsvc "github.com/trezcool/eduportal/services/email"
	logsvc "github.com/trezcool/eduportal/services/logger"
	"github.com/trezcool/eduportal/storage/database"
	sqlxrepos "github.com/trezcool/eduportal/storage/database/sqlx"
	redisstore "github.com/trezcool/eduportal/storage/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := database.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up session registry
	rdb, err := redisstore.Open()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up redis: %v", err), err)
	}
	defer func() {
		if err = rdb.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing redis: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	subjSvc := subject.NewService(sqlxrepos.NewSubjectRepository(db))
	clsSvc := class.NewService(sqlxrepos.NewClassRepository(db))
	annSvc := announce.NewService(sqlxrepos.NewAnnouncementRepository(db))
	auditSvc := audit.NewService(sqlxrepos.NewAuditRepository(db), logger)
	defer auditSvc.Close()

	sessions := session.NewManager(redisstore.NewSessionRegistry(rdb), usrSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := core.NewValidator()
	user.RegisterRoleValidation(validate, translator)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Address:        core.Conf.Server.Addr,
			Logger:         logger,
			Validate:       validate,
			Translator:     translator,
			SignalShutdown: func() { shutdown <- syscall.SIGTERM },
			Sessions:       sessions,
			UserSvc:        usrSvc,
			SubjectSvc:     subjSvc,
			ClassSvc:       clsSvc,
			AnnounceSvc:    annSvc,
			AuditSvc:       auditSvc,
		},
	)

	// =========================================================================
	// Start API Service

	go app.Start()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = app.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
