package main

import (
	"context"
	"fmt"

	"github.com/trezcool/attendance/core/attendance"
)

func (cli *commandLine) mark(nr attendance.NewRecord) error {
	rec, err := cli.attSvc.Mark(context.Background(), nr)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "%s marked %s on %s\n", rec.UserName, rec.Status, rec.Date)
	cli.logger.Info("attendance marked", rec)
	return nil
}
