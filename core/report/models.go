package report

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
)

// Period is an inclusive range of dates.
type Period struct {
	From core.Date `json:"from"`
	To   core.Date `json:"to"`
}

func (p Period) Validate() error {
	var flds []core.FieldError
	if p.From.IsZero() {
		flds = append(flds, core.FieldError{Field: "from", Error: "this field is required"})
	}
	if p.To.IsZero() {
		flds = append(flds, core.FieldError{Field: "to", Error: "this field is required"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

// CurrentMonth returns the period from the first day of today's month up to today.
func CurrentMonth() Period {
	today := core.Today()
	return Period{From: today.FirstOfMonth(), To: today}
}

// LastWeek returns the period of the 7 days ending today.
func LastWeek() Period {
	today := core.Today()
	return Period{From: today.AddDays(-7), To: today}
}

// UserSummary is the attendance of one user over a Period.
type UserSummary struct {
	UserID            int          `json:"user_id"`
	Name              string       `json:"name"`
	Role              string       `json:"role"`
	TotalDays         int          `json:"total_days"`
	PresentDays       int          `json:"present_days"`
	AbsentDays        int          `json:"absent_days"`
	LateDays          int          `json:"late_days"`
	AvgHoursPerDay    null.Float64 `json:"avg_hours_per_day"`
	AttendancePercent float64      `json:"attendance_percent"`
}

// Stats sums up every attendance record of a Period. TotalUsers is not restricted to the Period.
type Stats struct {
	TotalUsers         int     `json:"total_users"`
	TotalRecords       int     `json:"total_records"`
	PresentCount       int     `json:"present_count"`
	AbsentCount        int     `json:"absent_count"`
	LateCount          int     `json:"late_count"`
	OverallPresentRate float64 `json:"overall_present_rate"`
}

type DailyStat struct {
	Date         core.Date `json:"date"`
	TotalRecords int       `json:"total_records"`
	PresentCount int       `json:"present_count"`
	AbsentCount  int       `json:"absent_count"`
	LateCount    int       `json:"late_count"`
	PresentRate  float64   `json:"present_rate"`
}

// Summary averages a report over its users.
type Summary struct {
	TotalUsers           int     `json:"total_users"`
	AvgPresentDays       float64 `json:"avg_present_days"`
	AvgAbsentDays        float64 `json:"avg_absent_days"`
	AvgAttendancePercent float64 `json:"avg_attendance_percent"`
}

func Summarize(summaries []UserSummary) Summary {
	s := Summary{TotalUsers: len(summaries)}
	if len(summaries) == 0 {
		return s
	}

	var present, absent int
	var percent float64
	for _, us := range summaries {
		present += us.PresentDays
		absent += us.AbsentDays
		percent += us.AttendancePercent
	}
	n := float64(len(summaries))
	s.AvgPresentDays = core.Round(float64(present)/n, 1)
	s.AvgAbsentDays = core.Round(float64(absent)/n, 1)
	s.AvgAttendancePercent = core.Round(percent/n, 1)
	return s
}
