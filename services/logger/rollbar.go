package logsvc

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/user"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

// Enable toggles the reporting to Rollbar. Messages are always printed.
func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry is a log call sorted into what rollbar.Log understands.
type entry struct {
	msg    string
	err    error
	extras map[string]interface{}
	person *rollbar.Person
}

// newEntry accepts errors, maps of custom data, a user.User or an attendance.Record.
// The first user or record is the person the event relates to (and its user_id); later ones only add data.
// Anything else is kept under "args".
func newEntry(msg string, args []interface{}) entry {
	e := entry{msg: msg, extras: make(map[string]interface{})}
	var others []interface{}

	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			if e.err == nil {
				e.err = v
			} else {
				others = append(others, v.Error())
			}
		case map[string]interface{}:
			for k, val := range v {
				e.extras[k] = val
			}
		case user.User:
			e.setPerson(v.ID, v.Name)
			e.extras["role"] = v.Role
		case attendance.Record:
			e.setPerson(v.UserID, v.UserName)
			e.extras["date"] = v.Date.String()
			e.extras["status"] = v.Status
			if v.HoursWorked.Valid {
				e.extras["hours_worked"] = v.HoursWorked.Float64
			}
		default:
			others = append(others, v)
		}
	}
	if len(others) > 0 {
		e.extras["args"] = others
	}
	return e
}

func (e *entry) setPerson(id int, name string) {
	if e.person == nil {
		e.person = &rollbar.Person{Id: strconv.Itoa(id), Username: name}
		e.extras["user_id"] = id
	}
}

func (e entry) rollbarArgs() []interface{} {
	args := []interface{}{e.msg}
	if e.err != nil {
		args = append(args, e.err)
	}
	if len(e.extras) > 0 {
		args = append(args, e.extras)
	}
	return args
}

// String renders the message and its custom data on one line.
func (e entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.msg)

	keys := make([]string, 0, len(e.extras))
	for k := range e.extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(&sb, " %s=%v", k, e.extras[k])
	}
	return sb.String()
}

func (l RollbarLogger) log(level string, msg string, args []interface{}) entry {
	e := newEntry(msg, args)
	if e.person != nil {
		rollbar.SetPerson(e.person.Id, e.person.Username, e.person.Email)
	} else {
		rollbar.ClearPerson()
	}
	rollbar.Log(level, e.rollbarArgs()...)
	l.std.Println(e.String())
	if e.err != nil {
		l.std.Printf("%+v\n", e.err)
	}
	return e
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.log(rollbar.DEBUG, msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.log(rollbar.INFO, msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.log(rollbar.WARN, msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.log(rollbar.ERR, msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	e := l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(e.msg)
}
