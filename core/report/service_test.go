package report_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/report"
	"github.com/trezcool/attendance/core/user"
	sqlxrepos "github.com/trezcool/attendance/storage/database/sqlx"
	"github.com/trezcool/attendance/testutil"
)

func setup(t *testing.T) (*report.Service, core.DB) {
	db := testutil.PrepareDB(t)
	return report.NewService(sqlxrepos.NewReportRepository(db)), db
}

func period(t *testing.T, from, to string) report.Period {
	return report.Period{From: testutil.Date(t, from), To: testutil.Date(t, to)}
}

func TestService_Generate(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	bob := testutil.CreateUser(t, db, "Bob", user.RoleEmployee)
	carl := testutil.CreateUser(t, db, "Carl", user.RoleStudent)

	testutil.Mark(t, db, alice, "2024-01-01", "present", "09:00:00", "17:00:00")
	testutil.Mark(t, db, alice, "2024-01-02", "present", "09:00:00", "13:00:00")
	testutil.Mark(t, db, alice, "2024-01-03", "late", "10:00:00")
	testutil.Mark(t, db, bob, "2024-01-02", "absent")
	testutil.Mark(t, db, bob, "2024-01-03", "present", "08:00", "16:20")
	testutil.Mark(t, db, bob, "2024-02-01", "present") // out of range

	january := period(t, "2024-01-01", "2024-01-31")

	tests := []struct {
		name string
		p    report.Period
		role string
		want []report.UserSummary
	}{
		{
			name: "all users",
			p:    january,
			want: []report.UserSummary{
				{
					UserID: alice.ID, Name: "Alice", Role: user.RoleStudent,
					TotalDays: 3, PresentDays: 2, LateDays: 1,
					AvgHoursPerDay: null.Float64From(6), AttendancePercent: 66.67,
				},
				{
					UserID: bob.ID, Name: "Bob", Role: user.RoleEmployee,
					TotalDays: 2, PresentDays: 1, AbsentDays: 1,
					AvgHoursPerDay: null.Float64From(8.33), AttendancePercent: 50,
				},
				{UserID: carl.ID, Name: "Carl", Role: user.RoleStudent},
			},
		},
		{
			name: "students",
			p:    january,
			role: "Student",
			want: []report.UserSummary{
				{
					UserID: alice.ID, Name: "Alice", Role: user.RoleStudent,
					TotalDays: 3, PresentDays: 2, LateDays: 1,
					AvgHoursPerDay: null.Float64From(6), AttendancePercent: 66.67,
				},
				{UserID: carl.ID, Name: "Carl", Role: user.RoleStudent},
			},
		},
		{
			name: "empty period keeps every user",
			p:    period(t, "2023-01-01", "2023-01-31"),
			want: []report.UserSummary{
				{UserID: alice.ID, Name: "Alice", Role: user.RoleStudent},
				{UserID: bob.ID, Name: "Bob", Role: user.RoleEmployee},
				{UserID: carl.ID, Name: "Carl", Role: user.RoleStudent},
			},
		},
		{name: "unknown role", p: january, role: "teacher", want: []report.UserSummary{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Generate(ctx, tt.p, tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Generate_attendancePercent(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	statuses := []string{"present", "absent", "late"}
	days := []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07"}
	for i, name := range []string{"U0", "U1", "U2", "U3", "U4", "U5", "U6"} {
		usr := testutil.CreateUser(t, db, name, user.RoleStudent)
		for j := 0; j < i; j++ {
			testutil.Mark(t, db, usr, days[j], statuses[(i*j+j)%3])
		}
	}

	summaries, err := svc.Generate(ctx, period(t, "2024-03-01", "2024-03-31"), "")
	require.NoError(t, err)
	require.Len(t, summaries, 7)
	for _, us := range summaries {
		want := 0.0
		if us.TotalDays > 0 {
			want = math.Round(float64(us.PresentDays)/float64(us.TotalDays)*100*100) / 100
		}
		assert.Equal(t, want, us.AttendancePercent, us.Name)
		assert.Equal(t, us.TotalDays, us.PresentDays+us.AbsentDays+us.LateDays, us.Name)
	}
}

func TestService_aliceScenario(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	rec := testutil.Mark(t, db, alice, "2024-01-01", "present", "09:00:00", "17:00:00")
	assert.Equal(t, null.Float64From(8), rec.HoursWorked)

	summaries, err := svc.Generate(ctx, period(t, "2024-01-01", "2024-01-31"), "")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].PresentDays)
	assert.Equal(t, 1, summaries[0].TotalDays)
	assert.Equal(t, 100.0, summaries[0].AttendancePercent)
}

func TestService_OverallStats(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	empty, err := svc.OverallStats(ctx, period(t, "2024-01-01", "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, report.Stats{}, empty)

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	bob := testutil.CreateUser(t, db, "Bob", user.RoleEmployee)
	testutil.CreateUser(t, db, "Carl", user.RoleAdmin)

	testutil.Mark(t, db, alice, "2024-01-01", "present")
	testutil.Mark(t, db, alice, "2024-01-02", "late")
	rec := testutil.Mark(t, db, bob, "2024-01-02", "absent")
	assert.False(t, rec.HoursWorked.Valid)
	testutil.Mark(t, db, bob, "2024-02-01", "present")

	tests := []struct {
		name string
		p    report.Period
		want report.Stats
	}{
		{
			name: "january",
			p:    period(t, "2024-01-01", "2024-01-31"),
			want: report.Stats{TotalUsers: 3, TotalRecords: 3, PresentCount: 1, AbsentCount: 1, LateCount: 1, OverallPresentRate: 33.33},
		},
		{
			name: "bob absent",
			p:    period(t, "2024-01-02", "2024-01-02"),
			want: report.Stats{TotalUsers: 3, TotalRecords: 2, AbsentCount: 1, LateCount: 1},
		},
		{
			name: "no records, users still counted",
			p:    period(t, "2023-01-01", "2023-12-31"),
			want: report.Stats{TotalUsers: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.OverallStats(ctx, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_DailyStats(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	bob := testutil.CreateUser(t, db, "Bob", user.RoleEmployee)
	carl := testutil.CreateUser(t, db, "Carl", user.RoleStudent)

	testutil.Mark(t, db, alice, "2024-01-03", "present")
	testutil.Mark(t, db, bob, "2024-01-03", "present")
	testutil.Mark(t, db, carl, "2024-01-03", "absent")
	testutil.Mark(t, db, alice, "2024-01-01", "late")
	testutil.Mark(t, db, bob, "2024-01-10", "present") // out of range

	got, err := svc.DailyStats(ctx, period(t, "2024-01-01", "2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, []report.DailyStat{
		{Date: testutil.Date(t, "2024-01-01"), TotalRecords: 1, LateCount: 1},
		{Date: testutil.Date(t, "2024-01-03"), TotalRecords: 3, PresentCount: 2, AbsentCount: 1, PresentRate: 66.67},
	}, got)

	got, err = svc.DailyStats(ctx, period(t, "2023-01-01", "2023-01-05"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_periodRequired(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Generate(ctx, report.Period{}, "")
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 2)

	_, err = svc.OverallStats(ctx, report.Period{From: core.Today()})
	assert.True(t, core.IsValidationError(err))

	_, err = svc.DailyStats(ctx, report.Period{To: core.Today()})
	assert.True(t, core.IsValidationError(err))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, report.Summary{}, report.Summarize(nil))

	got := report.Summarize([]report.UserSummary{
		{PresentDays: 3, AbsentDays: 1, AttendancePercent: 75},
		{PresentDays: 0, AbsentDays: 2, AttendancePercent: 0},
		{PresentDays: 2, AbsentDays: 0, AttendancePercent: 100},
	})
	assert.Equal(t, report.Summary{TotalUsers: 3, AvgPresentDays: 1.7, AvgAbsentDays: 1, AvgAttendancePercent: 58.3}, got)
}
