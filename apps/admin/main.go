package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
	"github.com/trezcool/attendance/core/user"
	emailsvc "github.com/trezcool/attendance/services/email"
	logsvc "github.com/trezcool/attendance/services/logger"
	"github.com/trezcool/attendance/storage/database"
	sqlxrepos "github.com/trezcool/attendance/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	// set up DB; tables are created by the `init` command
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// start CLI
	validate := core.NewValidator(user.InitValidators, attendance.InitValidators)
	cli := commandLine{
		db:      db,
		conf:    conf,
		usrSvc:  user.NewService(db, sqlxrepos.NewUserRepository(db), validate),
		attSvc:  attendance.NewService(db, sqlxrepos.NewAttendanceRepository(db), validate),
		repSvc:  report.NewService(sqlxrepos.NewReportRepository(db)),
		mailSvc: mailSvc,
		logger:  logger,
		out:     os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %s\n", describeErr(err))
		}
		os.Exit(1)
	}
}
