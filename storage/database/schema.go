package database

import (
	"context"
	"embed"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Tables, children first.
var tables = []string{"attendance", "users"}

// CreateTables creates the tables that do not exist yet. Engine errors are returned as is.
func CreateTables(ctx context.Context, db core.DBExecutor) error {
	script, err := schemaFS.ReadFile("schema/" + db.DriverName() + ".sql")
	if err != nil {
		return errors.Errorf("no schema for database engine %q", db.DriverName())
	}
	_, err = db.ExecContext(ctx, string(script))
	return err
}

// DropTables drops all tables along with their data.
func DropTables(ctx context.Context, db core.DBExecutor) error {
	for _, table := range tables {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return err
		}
	}
	return nil
}

// Reset deletes all data by recreating the tables.
func Reset(ctx context.Context, db core.DB) error {
	return core.WithTx(ctx, db, func(tx core.DBTransactor) error {
		if err := DropTables(ctx, tx); err != nil {
			return core.NewStorageError("dropping tables", err)
		}
		if err := CreateTables(ctx, tx); err != nil {
			return core.NewStorageError("creating tables", err)
		}
		return nil
	})
}
