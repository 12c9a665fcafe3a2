package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/codelasak/fa-akademi-tool-sub000/apps/api/echo"
	"github.com/codelasak/fa-akademi-tool-sub000/core"
	"github.com/codelasak/fa-akademi-tool-sub000/core/attendance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/finance"
	"github.com/codelasak/fa-akademi-tool-sub000/core/policy"
	"github.com/codelasak/fa-akademi-tool-sub000/core/school"
	emailsvc "github.com/codelasak/fa-akademi-tool-sub000/services/email"
	logsvc "github.com/codelasak/fa-akademi-tool-sub000/services/logger"
	schedulersvc "github.com/codelasak/fa-akademi-tool-sub000/services/scheduler"
	"github.com/codelasak/fa-akademi-tool-sub000/storage/database"
	sqlxrepos "github.com/codelasak/fa-akademi-tool-sub000/storage/database/sqlx"
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
	sqlDB, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() { _ = sqlDB.Close() }()
	if err = database.Migrate(sqlDB); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}
	db := sqlx.NewDb(sqlDB, core.Conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	schoolRepo := sqlxrepos.NewSchoolRepository(db)
	policyRepo := sqlxrepos.NewPolicyRepository(db)

	schoolSvc := school.NewService(schoolRepo)
	policySvc := policy.NewService(policyRepo)
	resolver := policy.NewResolver(policyRepo, schoolRepo)
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), schoolRepo, resolver, logger)
	financeSvc := finance.NewService(sqlxrepos.NewFinanceRepository(db))

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Scheduler

	scheduler := schedulersvc.New(attendanceSvc, mailSvc, logger)
	if err = scheduler.Start(); err != nil {
		logger.Fatal(fmt.Sprintf("starting scheduler: %v", err), err)
	}
	defer scheduler.Stop()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Logger:        logger,
		SchoolSvc:     schoolSvc,
		PolicySvc:     policySvc,
		AttendanceSvc: attendanceSvc,
		FinanceSvc:    financeSvc,
	})
	server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
