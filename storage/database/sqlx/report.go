package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
)

type userSummaryRow struct {
	UserID         int          `db:"user_id"`
	Name           string       `db:"name"`
	Role           string       `db:"role"`
	TotalDays      int          `db:"total_days"`
	PresentDays    int          `db:"present_days"`
	AbsentDays     int          `db:"absent_days"`
	LateDays       int          `db:"late_days"`
	AvgHoursPerDay null.Float64 `db:"avg_hours_per_day"`
}

type countsRow struct {
	TotalRecords int `db:"total_records"`
	PresentCount int `db:"present_count"`
	AbsentCount  int `db:"absent_count"`
	LateCount    int `db:"late_count"`
}

type dailyRow struct {
	Date core.Date `db:"date"`
	countsRow
}

type reportRepository struct {
	repository
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(exec core.DBExecutor) *reportRepository {
	return &reportRepository{repository{exec: exec}}
}

func inPeriod(col string, p report.Period) sq.Sqlizer {
	return sq.Expr(col+" BETWEEN ? AND ?", p.From, p.To)
}

// selectCounts counts the attendance records of each status.
func (repo reportRepository) selectCounts(exe core.DBExecutor, columns ...string) sq.SelectBuilder {
	return repo.builder(exe).
		Select(columns...).
		Column("COUNT(*) AS total_records").
		Column(countWhen("status", attendance.StatusPresent, "present_count")).
		Column(countWhen("status", attendance.StatusAbsent, "absent_count")).
		Column(countWhen("status", attendance.StatusLate, "late_count")).
		From("attendance")
}

func (repo reportRepository) QueryUserSummaries(ctx context.Context, p report.Period, role string, exec ...core.DBExecutor) ([]report.UserSummary, error) {
	exe := repo.getExec(exec)
	b := repo.builder(exe).
		Select("u.id AS user_id", "u.name", "u.role", "COUNT(DISTINCT a.date) AS total_days").
		Column(countWhen("a.status", attendance.StatusPresent, "present_days")).
		Column(countWhen("a.status", attendance.StatusAbsent, "absent_days")).
		Column(countWhen("a.status", attendance.StatusLate, "late_days")).
		Column("AVG(" + dialectOf(exe).hoursWorked + ") AS avg_hours_per_day").
		From("users u").
		LeftJoin("attendance a ON u.id = a.user_id AND a.date BETWEEN ? AND ?", p.From, p.To).
		GroupBy("u.id", "u.name", "u.role").
		OrderBy("u.name ASC", "u.id ASC")
	if role != "" {
		b = b.Where(sq.Eq{"u.role": role})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, core.NewStorageError("building report query", err)
	}

	var rows []userSummaryRow
	if err = exe.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, core.NewStorageError("querying report", err)
	}
	summaries := make([]report.UserSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, report.UserSummary{
			UserID:         r.UserID,
			Name:           r.Name,
			Role:           r.Role,
			TotalDays:      r.TotalDays,
			PresentDays:    r.PresentDays,
			AbsentDays:     r.AbsentDays,
			LateDays:       r.LateDays,
			AvgHoursPerDay: r.AvgHoursPerDay,
		})
	}
	return summaries, nil
}

func (repo reportRepository) QueryStats(ctx context.Context, p report.Period, exec ...core.DBExecutor) (report.Stats, error) {
	exe := repo.getExec(exec)

	var stats report.Stats
	query, args, err := repo.builder(exe).Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return stats, core.NewStorageError("building users count", err)
	}
	if err = exe.GetContext(ctx, &stats.TotalUsers, query, args...); err != nil {
		return stats, core.NewStorageError("counting users", err)
	}

	query, args, err = repo.selectCounts(exe).Where(inPeriod("date", p)).ToSql()
	if err != nil {
		return stats, core.NewStorageError("building stats query", err)
	}
	var counts countsRow
	if err = exe.GetContext(ctx, &counts, query, args...); err != nil {
		return stats, core.NewStorageError("querying stats", err)
	}
	stats.TotalRecords = counts.TotalRecords
	stats.PresentCount = counts.PresentCount
	stats.AbsentCount = counts.AbsentCount
	stats.LateCount = counts.LateCount
	return stats, nil
}

func (repo reportRepository) QueryDailyStats(ctx context.Context, p report.Period, exec ...core.DBExecutor) ([]report.DailyStat, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.selectCounts(exe, "date").
		Where(inPeriod("date", p)).
		GroupBy("date").
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, core.NewStorageError("building daily stats query", err)
	}

	var rows []dailyRow
	if err = exe.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, core.NewStorageError("querying daily stats", err)
	}
	days := make([]report.DailyStat, 0, len(rows))
	for _, r := range rows {
		days = append(days, report.DailyStat{
			Date:         r.Date,
			TotalRecords: r.TotalRecords,
			PresentCount: r.PresentCount,
			AbsentCount:  r.AbsentCount,
			LateCount:    r.LateCount,
		})
	}
	return days, nil
}
