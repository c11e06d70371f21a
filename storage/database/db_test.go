package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/user"
	"github.com/trezcool/attendance/storage/database"
	sqlxrepos "github.com/trezcool/attendance/storage/database/sqlx"
	"github.com/trezcool/attendance/testutil"
)

func count(t *testing.T, db core.DBExecutor, table string) int {
	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestOpen_closeIsIdempotent(t *testing.T) {
	conf := testutil.Config(t)
	require.NoError(t, database.CreateIfNotExist(conf))

	db, err := database.Open(conf)
	require.NoError(t, err)
	assert.Equal(t, core.EngineSQLite, db.DriverName())
	require.NoError(t, database.Check(context.Background(), db))

	assert.NoError(t, db.Close())
	assert.NoError(t, db.Close())

	var nilDB *database.DB
	assert.NoError(t, nilDB.Close())
}

func TestOpen_unsupportedEngine(t *testing.T) {
	conf := testutil.Config(t)
	conf.Database.Engine = "mysql"

	_, err := database.Open(conf)
	assert.Error(t, err)
}

func TestCreateIfNotExist_createsDirectory(t *testing.T) {
	conf := testutil.Config(t)
	conf.Database.Path = filepath.Join(conf.WorkDir, "nested", "dir", "attendance.db")

	require.NoError(t, database.CreateIfNotExist(conf))
	fi, err := os.Stat(filepath.Dir(conf.Database.Path))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestCreateTables_isIdempotent(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	testutil.Mark(t, db, usr, "2024-01-01", "present")

	for i := 0; i < 3; i++ {
		require.NoError(t, database.CreateTables(ctx, db))
	}
	assert.Equal(t, 1, count(t, db, "users"))
	assert.Equal(t, 1, count(t, db, "attendance"))
}

func TestSchema_constraints(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, db, "Alice", user.RoleStudent)

	tests := []struct {
		name  string
		query string
		args  []interface{}
	}{
		{name: "bad role", query: "INSERT INTO users (name, role) VALUES (?, ?)", args: []interface{}{"Bob", "teacher"}},
		{name: "blank name", query: "INSERT INTO users (name, role) VALUES (?, ?)", args: []interface{}{"  ", "student"}},
		{name: "bad status", query: "INSERT INTO attendance (user_id, date, status) VALUES (?, ?, ?)", args: []interface{}{usr.ID, "2024-01-01", "sick"}},
		{name: "unknown user", query: "INSERT INTO attendance (user_id, date, status) VALUES (?, ?, ?)", args: []interface{}{usr.ID + 1, "2024-01-01", "present"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ExecContext(ctx, tt.query, tt.args...)
			assert.Error(t, err)
		})
	}

	t.Run("one record per user & day", func(t *testing.T) {
		q := "INSERT INTO attendance (user_id, date, status) VALUES (?, ?, ?)"
		_, err := db.ExecContext(ctx, q, usr.ID, "2024-01-02", "present")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, q, usr.ID, "2024-01-02", "absent")
		assert.Error(t, err)
	})

	t.Run("user delete cascades", func(t *testing.T) {
		_, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", usr.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, count(t, db, "attendance"))
	})
}

func TestWithTx(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	repo := sqlxrepos.NewUserRepository(db)
	newUser := func(name, role string) user.User {
		return user.User{Name: name, Role: role, CreatedAt: time.Now().UTC()}
	}

	t.Run("failed write rolls back", func(t *testing.T) {
		err := core.WithTx(ctx, db, func(tx core.DBTransactor) error {
			if _, err := repo.CreateUser(ctx, newUser("Alice", user.RoleStudent), tx); err != nil {
				return err
			}
			_, err := repo.CreateUser(ctx, newUser("Bob", "teacher"), tx)
			return err
		})
		require.Error(t, err)
		assert.True(t, core.IsStorageError(err))

		engineErr, ok := errors.Cause(err).(sqlite3.Error)
		require.True(t, ok, "cause is %T", errors.Cause(err))
		assert.Equal(t, sqlite3.ErrConstraint, engineErr.Code)
		assert.Equal(t, 0, count(t, db, "users"))
	})

	t.Run("fn error is returned unchanged", func(t *testing.T) {
		errStop := errors.New("stop")
		err := core.WithTx(ctx, db, func(tx core.DBTransactor) error {
			if _, err := repo.CreateUser(ctx, newUser("Alice", user.RoleStudent), tx); err != nil {
				return err
			}
			return errStop
		})
		assert.Equal(t, errStop, err)
		assert.Equal(t, 0, count(t, db, "users"))
	})

	t.Run("committed", func(t *testing.T) {
		err := core.WithTx(ctx, db, func(tx core.DBTransactor) error {
			_, err := repo.CreateUser(ctx, newUser("Alice", user.RoleStudent), tx)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count(t, db, "users"))
	})
}

func TestReset(t *testing.T) {
	db := testutil.PrepareDB(t)

	usr := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	testutil.Mark(t, db, usr, "2024-01-01", "present")

	testutil.ResetDB(t, db)
	assert.Equal(t, 0, count(t, db, "users"))
	assert.Equal(t, 0, count(t, db, "attendance"))

	// still usable
	testutil.CreateUser(t, db, "Bob", user.RoleEmployee)
	assert.Equal(t, 1, count(t, db, "users"))
}

func TestBackup(t *testing.T) {
	conf := testutil.Config(t)
	db := testutil.PrepareDB(t, conf)
	ctx := context.Background()

	usr := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	testutil.Mark(t, db, usr, "2024-01-01", "present")

	dst := filepath.Join(conf.BackupDir, database.BackupFileName(time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "attendance_backup_20240102_150405.db", filepath.Base(dst))
	require.NoError(t, database.Backup(ctx, db, dst))

	// the backup is a working database
	backupConf := testutil.Config(t)
	backupConf.Database.Path = dst
	backup, err := database.Open(backupConf)
	require.NoError(t, err)
	defer backup.Close()
	assert.Equal(t, 1, count(t, backup, "users"))
	assert.Equal(t, 1, count(t, backup, "attendance"))

	assert.Error(t, database.Backup(ctx, db, dst), "existing files are not overwritten")
}
