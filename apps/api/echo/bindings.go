package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
	exportsvc "github.com/trezcool/attendance/services/export"
)

const (
	invalidDateText = "must be a valid date (YYYY-MM-DD)"
	invalidIntText  = "must be an integer"
)

// queryBinder collects the field errors of every query param it parses.
type queryBinder struct {
	ctx  echo.Context
	errs []core.FieldError
}

func newQueryBinder(ctx echo.Context) *queryBinder {
	return &queryBinder{ctx: ctx}
}

func (b *queryBinder) str(name string) string {
	return core.CleanString(b.ctx.QueryParam(name))
}

func (b *queryBinder) date(name string) *core.Date {
	val := b.str(name)
	if val == "" {
		return nil
	}
	d, err := core.ParseDate(val)
	if err != nil {
		b.errs = append(b.errs, core.FieldError{Field: name, Error: invalidDateText})
		return nil
	}
	return &d
}

func (b *queryBinder) integer(name string) *int {
	val := b.str(name)
	if val == "" {
		return nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		b.errs = append(b.errs, core.FieldError{Field: name, Error: invalidIntText})
		return nil
	}
	return &i
}

// period binds `from` & `to`, each one falling back to def's when absent.
func (b *queryBinder) period(def func() report.Period) report.Period {
	p := def()
	if from := b.date("from"); from != nil {
		p.From = *from
	}
	if to := b.date("to"); to != nil {
		p.To = *to
	}
	return p
}

func (b *queryBinder) format() exportsvc.Format {
	f, err := exportsvc.ParseFormat(b.str("format"))
	if err != nil {
		b.errs = append(b.errs, core.FieldError{Field: "format", Error: err.Error()})
	}
	return f
}

func (b *queryBinder) attendanceFilter() attendance.QueryFilter {
	filter := attendance.QueryFilter{
		From:   b.date("from"),
		To:     b.date("to"),
		UserID: b.integer("user_id"),
		Status: b.str("status"),
	}
	filter.Clean()
	return filter
}

func (b *queryBinder) err() error {
	if b.errs != nil {
		return core.NewValidationError(nil, b.errs...)
	}
	return nil
}
