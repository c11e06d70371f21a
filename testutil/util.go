package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/user"
	"github.com/trezcool/attendance/storage/database"
	sqlxrepos "github.com/trezcool/attendance/storage/database/sqlx"
)

// Config returns a test configuration pointing to a sqlite3 database inside t's temp dir.
func Config(t *testing.T) *core.Config {
	dir := t.TempDir()
	return &core.Config{
		AppName:          "Attendance",
		Env:              "TEST",
		Build:            "test",
		Debug:            true,
		TestMode:         true,
		WorkDir:          dir,
		BackupDir:        filepath.Join(dir, "backups"),
		DefaultFromEmail: "noreply@localhost",
		Server: core.ServerConfig{
			ShutdownTimeout: time.Second,
			DisableReqLogs:  true,
		},
		Database: core.DatabaseConfig{
			Engine:      core.EngineSQLite,
			Path:        filepath.Join(dir, "attendance.db"),
			BusyTimeout: 5 * time.Second,
		},
	}
}

// PrepareDB opens a fresh database with all tables created. It is closed when t ends.
func PrepareDB(t *testing.T, conf ...*core.Config) *database.DB {
	var c *core.Config
	if len(conf) > 0 {
		c = conf[0]
	} else {
		c = Config(t)
	}
	db, err := database.Setup(context.Background(), c)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ResetDB deletes all data.
func ResetDB(t *testing.T, db core.DB) {
	if err := database.Reset(context.Background(), db); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}

func NewValidator() *core.Validator {
	return core.NewValidator(user.InitValidators, attendance.InitValidators)
}

func CreateUser(t *testing.T, exec core.DBExecutor, name, role string, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC().Truncate(time.Second)
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr, err := sqlxrepos.NewUserRepository(exec).CreateUser(context.Background(), user.User{
		Name:      name,
		Role:      role,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// Mark stores attendance for usr; checkIn, checkOut & notes are optional (in that order).
func Mark(t *testing.T, db core.DB, usr user.User, date, status string, extra ...string) attendance.Record {
	nr := attendance.NewRecord{UserID: usr.ID, Date: date, Status: status}
	if len(extra) > 0 {
		nr.CheckIn = extra[0]
	}
	if len(extra) > 1 {
		nr.CheckOut = extra[1]
	}
	if len(extra) > 2 {
		nr.Notes = extra[2]
	}

	svc := attendance.NewService(db, sqlxrepos.NewAttendanceRepository(db), NewValidator())
	rec, err := svc.Mark(context.Background(), nr)
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}
	return rec
}

func Date(t *testing.T, s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("Date() failed: %v", err)
	}
	return d
}
