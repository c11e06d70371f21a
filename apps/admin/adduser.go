package main

import (
	"context"
	"fmt"

	"github.com/trezcool/attendance/core/user"
)

func (cli *commandLine) addUser(name, role string) error {
	usr, err := cli.usrSvc.Register(context.Background(), user.NewUser{Name: name, Role: role})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "user #%d %s (%s) registered\n", usr.ID, usr.Name, usr.Role)
	cli.logger.Info("user registered", usr)
	return nil
}
