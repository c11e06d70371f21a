package echoapi

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core/report"
	exportsvc "github.com/trezcool/attendance/services/export"
)

type reportApi struct {
	svc *report.Service
}

type reportResponse struct {
	Period  report.Period        `json:"period"`
	Summary report.Summary       `json:"summary"`
	Users   []report.UserSummary `json:"users"`
}

func registerReportAPI(g *echo.Group, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports")
	rg.GET("", api.generate)
	rg.GET("/stats", api.stats)
	rg.GET("/daily", api.daily)
	rg.GET("/export", api.export)
}

// Handlers

func (api *reportApi) generate(ctx echo.Context) error {
	qb := newQueryBinder(ctx)
	p := qb.period(report.CurrentMonth)
	role := qb.str("role")
	if err := qb.err(); err != nil {
		return err
	}

	summaries, err := api.svc.Generate(ctx.Request().Context(), p, role)
	if err != nil {
		return errors.Wrap(err, "generating report")
	}
	if summaries == nil {
		summaries = []report.UserSummary{}
	}
	return ctx.JSON(http.StatusOK, reportResponse{
		Period:  p,
		Summary: report.Summarize(summaries),
		Users:   summaries,
	})
}

func (api *reportApi) stats(ctx echo.Context) error {
	qb := newQueryBinder(ctx)
	p := qb.period(report.CurrentMonth)
	if err := qb.err(); err != nil {
		return err
	}

	stats, err := api.svc.OverallStats(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *reportApi) daily(ctx echo.Context) error {
	qb := newQueryBinder(ctx)
	p := qb.period(report.LastWeek)
	if err := qb.err(); err != nil {
		return err
	}

	days, err := api.svc.DailyStats(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "computing daily stats")
	}
	if days == nil {
		days = []report.DailyStat{}
	}
	return ctx.JSON(http.StatusOK, days)
}

func (api *reportApi) export(ctx echo.Context) error {
	qb := newQueryBinder(ctx)
	p := qb.period(report.CurrentMonth)
	role := qb.str("role")
	format := qb.format()
	if err := qb.err(); err != nil {
		return err
	}

	summaries, err := api.svc.Generate(ctx.Request().Context(), p, role)
	if err != nil {
		return errors.Wrap(err, "generating report")
	}
	var buf bytes.Buffer
	if err = exportsvc.WriteReport(&buf, format, summaries); err != nil {
		return errors.Wrap(err, "exporting report")
	}
	return sendFile(ctx, exportsvc.ReportFileName(p, format), format.ContentType(), buf.Bytes())
}
