package exportsvc

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
)

func date(t *testing.T, s string) core.Date {
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return d
}

func records(t *testing.T) []attendance.Record {
	return []attendance.Record{
		{
			ID: 2, UserID: 1, UserName: "Alice", UserRole: "student", Date: date(t, "2024-01-02"), Status: "late",
			CheckIn: null.StringFrom("09:30:00"), CheckOut: null.StringFrom("17:00:00"), HoursWorked: null.Float64From(7.5),
			Notes: null.StringFrom("bus, delayed"),
		},
		{ID: 1, UserID: 1, UserName: "Alice", UserRole: "student", Date: date(t, "2024-01-01"), Status: "absent"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatCSV},
		{in: "csv", want: FormatCSV},
		{in: "xlsx", want: FormatXLSX},
		{in: "pdf", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				assert.Equal(t, ErrUnknownFormat, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFileNames(t *testing.T) {
	p := report.Period{From: date(t, "2024-01-01"), To: date(t, "2024-01-31")}
	assert.Equal(t, "attendance_2024-01-01_to_2024-01-31.csv", AttendanceFileName(p, FormatCSV))
	assert.Equal(t, "attendance_report_2024-01-01_to_2024-01-31.xlsx", ReportFileName(p, FormatXLSX))
}

func TestWriteAttendance_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendance(&buf, FormatCSV, records(t)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, []string{"2024-01-02", "Alice", "student", "late", "09:30:00", "17:00:00", "7.5", "bus, delayed"}, rows[1])
	assert.Equal(t, []string{"2024-01-01", "Alice", "student", "absent", "", "", "", ""}, rows[2])
}

func TestWriteReport_CSV(t *testing.T) {
	summaries := []report.UserSummary{
		{UserID: 1, Name: "Alice", Role: "student", TotalDays: 3, PresentDays: 2, AbsentDays: 1,
			AvgHoursPerDay: null.Float64From(8), AttendancePercent: 66.67},
		{UserID: 2, Name: "Bob", Role: "employee"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, FormatCSV, summaries))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Alice", "student", "3", "2", "1", "0", "8", "66.67"}, rows[1])
	assert.Equal(t, []string{"Bob", "employee", "0", "0", "0", "0", "", "0"}, rows[2])
}

func TestWriteAttendance_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendance(&buf, FormatXLSX, records(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Attendance"}, f.GetSheetList())
	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Hours Worked", rows[0][6])
	assert.Equal(t, "7.5", rows[1][6])
	assert.Equal(t, "absent", rows[2][3])
}

func TestWrite_unknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ErrUnknownFormat, WriteReport(&buf, Format("pdf"), nil))
	assert.Zero(t, buf.Len())
}
