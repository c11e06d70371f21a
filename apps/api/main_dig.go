package main

import (
	dig_container "github.com/trezcool/attendance/apps/api/di/dig"
	echoapi "github.com/trezcool/attendance/apps/api/echo"
	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/storage/database"
)

func startWithDig() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *database.DB,
		server *echoapi.Server,
	) {
		run(conf, apiLogger, dbLoggerParam.Logger, db, server)
	}))
}
