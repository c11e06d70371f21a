package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
	"github.com/trezcool/attendance/core/user"
)

var (
	isTerminalFunc  = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) } // mockable
	readConfirmFunc = readLine                                                 // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      core.DB
	conf    *core.Config
	usrSvc  *user.Service
	attSvc  *attendance.Service
	repSvc  *report.Service
	mailSvc core.EmailService
	logger  core.Logger
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  init                                                   - create the tables")
	_, _ = fmt.Fprintln(cli.out, "  adduser -name NAME -role ROLE                          - register a user")
	_, _ = fmt.Fprintln(cli.out, "  mark -user ID -status STATUS [-date -in -out -notes]   - mark attendance")
	_, _ = fmt.Fprintln(cli.out, "  export -kind attendance|report -out FILE [-from -to -role -format -email]")
	_, _ = fmt.Fprintln(cli.out, "                                                         - export records or a report")
	_, _ = fmt.Fprintln(cli.out, "  backup [-out FILE]                                     - copy the database (sqlite3 only)")
	_, _ = fmt.Fprintln(cli.out, "  reset [-yes]                                           - delete all data")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	initCmd := cli.newFlagSet("init")

	addUserCmd := cli.newFlagSet("adduser")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", "", "One of: "+strings.Join(user.AllRoles, ", "))

	markCmd := cli.newFlagSet("mark")
	markUser := markCmd.Int("user", 0, "The user's ID.")
	markStatus := markCmd.String("status", "", "One of: "+strings.Join(attendance.AllStatuses, ", "))
	markDate := markCmd.String("date", "", "YYYY-MM-DD, defaults to today.")
	markIn := markCmd.String("in", "", "Check-in time, HH:MM[:SS].")
	markOut := markCmd.String("out", "", "Check-out time, HH:MM[:SS].")
	markNotes := markCmd.String("notes", "", "Free text.")

	exportCmd := cli.newFlagSet("export")
	exportOpts := exportOptions{}
	exportCmd.StringVar(&exportOpts.kind, "kind", kindAttendance, "attendance|report")
	exportCmd.StringVar(&exportOpts.from, "from", "", "YYYY-MM-DD, defaults to the first day of the month.")
	exportCmd.StringVar(&exportOpts.to, "to", "", "YYYY-MM-DD, defaults to today.")
	exportCmd.StringVar(&exportOpts.role, "role", "", "Only export users of this role (report only).")
	exportCmd.StringVar(&exportOpts.format, "format", "csv", "csv|xlsx")
	exportCmd.StringVar(&exportOpts.out, "out", "", "The file to write.")
	exportCmd.StringVar(&exportOpts.email, "email", "", "Also send the file to this address.")

	backupCmd := cli.newFlagSet("backup")
	backupOut := backupCmd.String("out", "", "The file to write, defaults to a timestamped file in the backup dir.")

	resetCmd := cli.newFlagSet("reset")
	resetYes := resetCmd.Bool("yes", false, "Do not ask for confirmation.")

	switch args[1] {
	case "init":
		if err := initCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.initDB()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserRole == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserRole)
	case "mark":
		if err := markCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *markUser == 0 || *markStatus == "" {
			markCmd.Usage()
			return errHelp
		}
		date := *markDate
		if date == "" {
			date = core.Today().String()
		}
		return cli.mark(attendance.NewRecord{
			UserID:   *markUser,
			Status:   *markStatus,
			Date:     date,
			CheckIn:  *markIn,
			CheckOut: *markOut,
			Notes:    *markNotes,
		})
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if exportOpts.out == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(exportOpts)
	case "backup":
		if err := backupCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.backup(*backupOut)
	case "reset":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.reset(*resetYes)
	default:
		cli.printUsage()
		return errHelp
	}
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// describeErr lists every invalid field of validation errors.
func describeErr(err error) string {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 1 {
		msgs := make([]string, 0, len(vErr.Fields))
		for _, f := range vErr.Fields {
			msgs = append(msgs, f.Field+": "+f.Error)
		}
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}
