package echoapi

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
	exportsvc "github.com/trezcool/attendance/services/export"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.POST("", api.mark)
	ag.GET("", api.query)
	ag.GET("/export", api.export)
	ag.DELETE("/:user_id/:date", api.destroy)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	var data attendance.NewRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRecord")
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	qb := newQueryBinder(ctx)
	filter := qb.attendanceFilter()
	if err := qb.err(); err != nil {
		return err
	}

	records, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

// export streams the records matching the query as an attachment. `from` & `to` default to the current month.
func (api *attendanceApi) export(ctx echo.Context) error {
	qb := newQueryBinder(ctx)
	filter := qb.attendanceFilter()
	p := report.CurrentMonth()
	if filter.From != nil {
		p.From = *filter.From
	}
	if filter.To != nil {
		p.To = *filter.To
	}
	filter.From, filter.To = &p.From, &p.To
	format := qb.format()
	if err := qb.err(); err != nil {
		return err
	}

	records, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	var buf bytes.Buffer
	if err = exportsvc.WriteAttendance(&buf, format, records); err != nil {
		return errors.Wrap(err, "exporting attendance")
	}
	return sendFile(ctx, exportsvc.AttendanceFileName(p, format), format.ContentType(), buf.Bytes())
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	userID, err := pathID(ctx, "user_id")
	if err != nil {
		return err
	}
	date, err := core.ParseDate(ctx.Param("date"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: invalidDateText})
	}

	deleted, err := api.svc.Delete(ctx.Request().Context(), userID, date)
	if err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	if !deleted {
		return core.NewNotFoundError("attendance of user "+strconv.Itoa(userID)+" on", date.String())
	}
	return ctx.NoContent(http.StatusNoContent)
}

func sendFile(ctx echo.Context, name, contentType string, content []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return ctx.Blob(http.StatusOK, contentType, content)
}
