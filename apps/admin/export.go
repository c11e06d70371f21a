package main

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
	exportsvc "github.com/trezcool/attendance/services/export"
)

const (
	kindAttendance = "attendance"
	kindReport     = "report"
)

type exportOptions struct {
	kind   string
	from   string
	to     string
	role   string
	format string
	out    string
	email  string
}

// period parses from & to, defaulting to the current month.
func (opts exportOptions) period() (report.Period, error) {
	p := report.CurrentMonth()
	var flds []core.FieldError
	if opts.from != "" {
		d, err := core.ParseDate(opts.from)
		if err != nil {
			flds = append(flds, core.FieldError{Field: "from", Error: "must be a valid date (YYYY-MM-DD)"})
		}
		p.From = d
	}
	if opts.to != "" {
		d, err := core.ParseDate(opts.to)
		if err != nil {
			flds = append(flds, core.FieldError{Field: "to", Error: "must be a valid date (YYYY-MM-DD)"})
		}
		p.To = d
	}
	if flds != nil {
		return p, core.NewValidationError(nil, flds...)
	}
	return p, nil
}

func (cli *commandLine) export(opts exportOptions) error {
	ctx := context.Background()

	p, err := opts.period()
	if err != nil {
		return err
	}
	format, err := exportsvc.ParseFormat(opts.format)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "format", Error: err.Error()})
	}
	var to *mail.Address
	if opts.email != "" {
		if to, err = mail.ParseAddress(opts.email); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "email", Error: "must be a valid email address"})
		}
	}

	var buf bytes.Buffer
	var name string
	switch opts.kind {
	case kindAttendance:
		records, err := cli.attSvc.Query(ctx, attendance.QueryFilter{From: &p.From, To: &p.To})
		if err != nil {
			return err
		}
		if err = exportsvc.WriteAttendance(&buf, format, records); err != nil {
			return err
		}
		name = exportsvc.AttendanceFileName(p, format)
	case kindReport:
		summaries, err := cli.repSvc.Generate(ctx, p, opts.role)
		if err != nil {
			return err
		}
		if err = exportsvc.WriteReport(&buf, format, summaries); err != nil {
			return err
		}
		name = exportsvc.ReportFileName(p, format)
	default:
		return core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "must be one of: attendance, report"})
	}

	if err = os.MkdirAll(filepath.Dir(opts.out), 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	if err = os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	_, _ = fmt.Fprintf(cli.out, "exported %s to %s\n", name, opts.out)

	if to != nil {
		msg := &core.EmailMessage{
			To:      []mail.Address{*to},
			Subject: fmt.Sprintf("Attendance %s from %s to %s", opts.kind, p.From, p.To),
			BodyStr: "Please find the export attached.",
		}
		if err = msg.Attach(&buf, name, format.ContentType()); err != nil {
			return errors.Wrap(err, "attaching export")
		}
		cli.mailSvc.SendMessages(msg)
		cli.mailSvc.Wait()
		_, _ = fmt.Fprintf(cli.out, "sent %s to %s\n", name, to.Address)
	}
	return nil
}
