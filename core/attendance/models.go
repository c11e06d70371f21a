package attendance

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

var AllStatuses = []string{StatusPresent, StatusAbsent, StatusLate}

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Record is an attendance record joined with its owner's name & role.
// HoursWorked is only set when both CheckIn and CheckOut are.
type Record struct {
	ID          int          `json:"id"`
	UserID      int          `json:"user_id"`
	UserName    string       `json:"name"`
	UserRole    string       `json:"role"`
	Date        core.Date    `json:"date"`
	Status      string       `json:"status"`
	CheckIn     null.String  `json:"check_in"`
	CheckOut    null.String  `json:"check_out"`
	Notes       null.String  `json:"notes"`
	HoursWorked null.Float64 `json:"hours_worked"`
}

// NewRecord contains information needed to mark attendance.
type NewRecord struct {
	UserID   int    `json:"user_id"`
	Status   string `json:"status" validate:"required,status"`
	Date     string `json:"date" validate:"required,isodate"`
	CheckIn  string `json:"check_in" validate:"omitempty,clock"`
	CheckOut string `json:"check_out" validate:"omitempty,clock"`
	Notes    string `json:"notes"`
}

func (nr *NewRecord) Clean() {
	nr.Status = core.CleanString(nr.Status, true /* lower */)
	nr.Date = core.CleanString(nr.Date)
	nr.CheckIn = core.CleanString(nr.CheckIn)
	nr.CheckOut = core.CleanString(nr.CheckOut)
	nr.Notes = core.CleanString(nr.Notes)
}

func (nr *NewRecord) Validate(v *core.Validator) error {
	nr.Clean()
	return v.Struct(nr)
}

// Mark is a validated NewRecord, ready to be stored.
type Mark struct {
	UserID   int
	Status   string
	Date     core.Date
	CheckIn  null.String // HH:MM:SS
	CheckOut null.String // HH:MM:SS
	Notes    null.String
}

// toMark must only be called on a validated NewRecord.
func (nr NewRecord) toMark() (Mark, error) {
	date, err := core.ParseDate(nr.Date)
	if err != nil {
		return Mark{}, err
	}
	m := Mark{
		UserID: nr.UserID,
		Status: nr.Status,
		Date:   date,
		Notes:  null.NewString(nr.Notes, nr.Notes != ""),
	}
	if nr.CheckIn != "" {
		c, err := core.ParseClock(nr.CheckIn)
		if err != nil {
			return Mark{}, err
		}
		m.CheckIn = null.StringFrom(c)
	}
	if nr.CheckOut != "" {
		c, err := core.ParseClock(nr.CheckOut)
		if err != nil {
			return Mark{}, err
		}
		m.CheckOut = null.StringFrom(c)
	}
	return m, nil
}

// QueryFilter fields are optional and combined with AND. From & To are inclusive.
type QueryFilter struct {
	From   *core.Date
	To     *core.Date
	UserID *int
	Status string
}

func (qf *QueryFilter) Clean() {
	qf.Status = core.CleanString(qf.Status, true /* lower */)
}
