package database

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
)

var ErrBackupUnsupported = errors.New("backups are only supported for sqlite3 databases")

// BackupFileName returns the name of a backup made at t.
func BackupFileName(t time.Time) string {
	return "attendance_backup_" + t.Format("20060102_150405") + ".db"
}

// Backup writes a consistent copy of the database to dst, which must not exist yet.
func Backup(ctx context.Context, db core.DBExecutor, dst string) error {
	if db.DriverName() != core.EngineSQLite {
		return ErrBackupUnsupported
	}
	if _, err := os.Stat(dst); err == nil {
		return errors.Errorf("backup file %s already exists", dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, "creating backup directory")
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", dst); err != nil {
		return core.NewStorageError("backing up database", err)
	}
	return nil
}
