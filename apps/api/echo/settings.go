package echoapi

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/storage/database"
)

type settingsApi struct {
	conf *core.Config
	db   core.DB
}

func registerSettingsAPI(g *echo.Group, conf *core.Config, db core.DB) {
	api := settingsApi{conf: conf, db: db}

	sg := g.Group("/settings")
	sg.GET("/backup", api.backup)
}

// backup copies the database into the backup dir and sends the copy.
func (api *settingsApi) backup(ctx echo.Context) error {
	name := database.BackupFileName(time.Now())
	path := filepath.Join(api.conf.BackupDir, name)

	err := database.Backup(ctx.Request().Context(), api.db, path)
	if errors.Cause(err) == database.ErrBackupUnsupported {
		return echo.NewHTTPError(http.StatusNotImplemented, err.Error())
	}
	if err != nil {
		return errors.Wrap(err, "backing up database")
	}
	return ctx.Attachment(path, name)
}
