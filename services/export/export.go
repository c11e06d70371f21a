package exportsvc

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/report"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format, expected csv or xlsx")

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", ErrUnknownFormat
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

func AttendanceFileName(p report.Period, f Format) string {
	return fmt.Sprintf("attendance_%s_to_%s.%s", p.From, p.To, f)
}

func ReportFileName(p report.Period, f Format) string {
	return fmt.Sprintf("attendance_report_%s_to_%s.%s", p.From, p.To, f)
}

type table struct {
	sheet  string
	header []string
	rows   [][]interface{} // nil cells are left empty
}

func attendanceTable(records []attendance.Record) table {
	tb := table{
		sheet:  "Attendance",
		header: []string{"Date", "Name", "Role", "Status", "Check In", "Check Out", "Hours Worked", "Notes"},
		rows:   make([][]interface{}, 0, len(records)),
	}
	for _, r := range records {
		tb.rows = append(tb.rows, []interface{}{
			r.Date.String(), r.UserName, r.UserRole, r.Status,
			r.CheckIn.Ptr(), r.CheckOut.Ptr(), r.HoursWorked.Ptr(), r.Notes.Ptr(),
		})
	}
	return tb
}

func reportTable(summaries []report.UserSummary) table {
	tb := table{
		sheet:  "Report",
		header: []string{"Name", "Role", "Total Days", "Present Days", "Absent Days", "Late Days", "Avg Hours/Day", "Attendance %"},
		rows:   make([][]interface{}, 0, len(summaries)),
	}
	for _, s := range summaries {
		tb.rows = append(tb.rows, []interface{}{
			s.Name, s.Role, s.TotalDays, s.PresentDays, s.AbsentDays, s.LateDays,
			s.AvgHoursPerDay.Ptr(), s.AttendancePercent,
		})
	}
	return tb
}

// cell derefs the pointers of nullable values.
func cell(v interface{}) interface{} {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return nil
		}
		return *p
	case *float64:
		if p == nil {
			return nil
		}
		return *p
	}
	return v
}

func (tb table) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tb.header); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	record := make([]string, len(tb.header))
	for _, row := range tb.rows {
		for i, v := range row {
			if c := cell(v); c != nil {
				record[i] = fmt.Sprint(c)
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "writing csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

func (tb table) writeXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", tb.sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	header := make([]interface{}, 0, len(tb.header))
	for _, h := range tb.header {
		header = append(header, h)
	}
	if err := f.SetSheetRow(tb.sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing xlsx header")
	}

	for i, row := range tb.rows {
		for j, v := range row {
			c := cell(v)
			if c == nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return errors.Wrap(err, "naming cell")
			}
			if err = f.SetCellValue(tb.sheet, name, c); err != nil {
				return errors.Wrap(err, "writing xlsx cell")
			}
		}
	}
	return errors.Wrap(f.Write(w), "writing xlsx")
}

func (tb table) write(w io.Writer, f Format) error {
	switch f {
	case FormatCSV:
		return tb.writeCSV(w)
	case FormatXLSX:
		return tb.writeXLSX(w)
	}
	return ErrUnknownFormat
}

// WriteAttendance exports attendance records, one row per record.
func WriteAttendance(w io.Writer, f Format, records []attendance.Record) error {
	return attendanceTable(records).write(w, f)
}

// WriteReport exports a report, one row per user.
func WriteReport(w io.Writer, f Format, summaries []report.UserSummary) error {
	return reportTable(summaries).write(w, f)
}
