package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/storage/database"
)

var errConfirmRequired = errors.New("stdin is not a terminal, pass -yes to confirm")

func (cli *commandLine) initDB() error {
	if err := database.CreateTables(context.Background(), cli.db); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, "tables created")
	return nil
}

func (cli *commandLine) backup(dst string) error {
	if dst == "" {
		dst = filepath.Join(cli.conf.BackupDir, database.BackupFileName(time.Now()))
	}
	if err := database.Backup(context.Background(), cli.db, dst); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "database saved to %s\n", dst)
	return nil
}

func (cli *commandLine) reset(yes bool) error {
	if !yes {
		if !isTerminalFunc() {
			return errConfirmRequired
		}
		_, _ = fmt.Fprint(cli.out, "This deletes every user and attendance record. Type 'yes' to continue: ")
		answer, err := readConfirmFunc()
		if err != nil {
			return err
		}
		if answer != "yes" {
			_, _ = fmt.Fprintln(cli.out, "aborted")
			return nil
		}
	}
	if err := database.Reset(context.Background(), cli.db); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, "all data deleted")
	cli.logger.Warn("database reset")
	return nil
}
