package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoapi "github.com/trezcool/attendance/apps/api/echo"
	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
	"github.com/trezcool/attendance/core/user"
	logsvc "github.com/trezcool/attendance/services/logger"
	"github.com/trezcool/attendance/storage/database"
	sqlxrepos "github.com/trezcool/attendance/storage/database/sqlx"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Setup(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}

	// set up services
	validate := core.NewValidator(user.InitValidators, attendance.InitValidators)
	usrSvc := user.NewService(db, sqlxrepos.NewUserRepository(db), validate)
	attSvc := attendance.NewService(db, sqlxrepos.NewAttendanceRepository(db), validate)
	repSvc := report.NewService(sqlxrepos.NewReportRepository(db))

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			DB:            db,
			UserSvc:       usrSvc,
			AttendanceSvc: attSvc,
			ReportSvc:     repSvc,
		},
	)

	run(conf, logger, dbLogger, db, server)
}
