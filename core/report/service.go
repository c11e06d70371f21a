package report

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
)

type (
	// Repository returns raw counts; rates & rounding are left to the Service.
	Repository interface {
		// QueryUserSummaries returns every user (of role, when not empty) ordered by name,
		// including those without any record in the period.
		QueryUserSummaries(ctx context.Context, p Period, role string, exec ...core.DBExecutor) ([]UserSummary, error)
		QueryStats(ctx context.Context, p Period, exec ...core.DBExecutor) (Stats, error)
		// QueryDailyStats only returns days having at least one record, oldest first.
		QueryDailyStats(ctx context.Context, p Period, exec ...core.DBExecutor) ([]DailyStat, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Generate returns the attendance summary of every user over the period.
func (svc *Service) Generate(ctx context.Context, p Period, role string) ([]UserSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	summaries, err := svc.repo.QueryUserSummaries(ctx, p, core.CleanString(role, true /* lower */))
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		us := &summaries[i]
		// rounded half away from zero: 1 of 32 days is 3.13
		us.AttendancePercent = core.Percent(us.PresentDays, us.TotalDays)
		if us.AvgHoursPerDay.Valid {
			us.AvgHoursPerDay = null.Float64From(core.Round(us.AvgHoursPerDay.Float64, 2))
		}
	}
	return summaries, nil
}

func (svc *Service) OverallStats(ctx context.Context, p Period) (Stats, error) {
	if err := p.Validate(); err != nil {
		return Stats{}, err
	}
	stats, err := svc.repo.QueryStats(ctx, p)
	if err != nil {
		return Stats{}, err
	}
	stats.OverallPresentRate = core.Percent(stats.PresentCount, stats.TotalRecords)
	return stats, nil
}

func (svc *Service) DailyStats(ctx context.Context, p Period) ([]DailyStat, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	days, err := svc.repo.QueryDailyStats(ctx, p)
	if err != nil {
		return nil, err
	}
	for i := range days {
		days[i].PresentRate = core.Percent(days[i].PresentCount, days[i].TotalRecords)
	}
	return days, nil
}
