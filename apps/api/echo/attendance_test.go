package echoapi_test

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core/attendance"
	"github.com/trezcool/attendance/core/user"
	"github.com/trezcool/attendance/testutil"
)

func Test_attendanceApi_mark(t *testing.T) {
	app, db, _ := setup(t)

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)

	runHTTPTests(t, app, []httpTest{
		{
			name: "invalid fields", method: http.MethodPost, path: "/api/attendance",
			body:     []byte(`{"user_id":` + itoa(alice.ID) + `,"status":"sick","date":"01/02/2024","check_in":"25:00"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{
				"status":"status must be one of: present, absent, late",
				"date":"date must be a valid date (YYYY-MM-DD)",
				"check_in":"check_in must be a valid time (HH:MM or HH:MM:SS)"
			}`),
		},
		{
			name: "unknown user", method: http.MethodPost, path: "/api/attendance",
			body:     []byte(`{"user_id":999,"status":"present","date":"2024-01-02"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "user 999 not found"}),
		},
	})

	mark := func(t *testing.T, body string) attendance.Record {
		req, rec := newRequest(http.MethodPost, "/api/attendance", []byte(body))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var r attendance.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
		return r
	}

	first := mark(t, `{"user_id":`+itoa(alice.ID)+`,"status":"late","date":"2024-01-02","check_in":"09:30","check_out":"17:00","notes":"bus"}`)
	assert.Equal(t, "Alice", first.UserName)
	assert.Equal(t, attendance.StatusLate, first.Status)
	assert.Equal(t, null.StringFrom("09:30:00"), first.CheckIn)
	assert.Equal(t, null.Float64From(7.5), first.HoursWorked)

	// marking the same day again overwrites the record
	second := mark(t, `{"user_id":`+itoa(alice.ID)+`,"status":"present","date":"2024-01-02"}`)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, attendance.StatusPresent, second.Status)
	assert.False(t, second.CheckIn.Valid)
	assert.False(t, second.HoursWorked.Valid)
	assert.False(t, second.Notes.Valid)
}

func Test_attendanceApi_query(t *testing.T) {
	app, db, _ := setup(t)

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	bob := testutil.CreateUser(t, db, "Bob", user.RoleEmployee)
	a1 := testutil.Mark(t, db, alice, "2024-01-01", "present", "08:00", "16:00")
	b1 := testutil.Mark(t, db, bob, "2024-01-01", "absent")
	a2 := testutil.Mark(t, db, alice, "2024-01-02", "late", "", "", "traffic")
	b3 := testutil.Mark(t, db, bob, "2024-01-03", "present")

	runHTTPTests(t, app, []httpTest{
		{name: "all", path: "/api/attendance", wantCode: http.StatusOK, wantData: marchallList(t, b3, a2, a1, b1)},
		{name: "from", path: "/api/attendance?from=2024-01-02", wantCode: http.StatusOK, wantData: marchallList(t, b3, a2)},
		{name: "from & to", path: "/api/attendance?from=2024-01-01&to=2024-01-02", wantCode: http.StatusOK, wantData: marchallList(t, a2, a1, b1)},
		{name: "user", path: "/api/attendance?user_id=" + itoa(bob.ID), wantCode: http.StatusOK, wantData: marchallList(t, b3, b1)},
		{name: "status", path: "/api/attendance?status=Present", wantCode: http.StatusOK, wantData: marchallList(t, b3, a1)},
		{name: "no match", path: "/api/attendance?user_id=999", wantCode: http.StatusOK, wantData: marchallList(t)},
		{
			name: "invalid params", path: "/api/attendance?from=yesterday&user_id=bob", wantCode: http.StatusBadRequest,
			wantData: []byte(`{"from":"must be a valid date (YYYY-MM-DD)","user_id":"must be an integer"}`),
		},
	})
}

func Test_attendanceApi_destroy(t *testing.T) {
	app, db, _ := setup(t)

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	testutil.Mark(t, db, alice, "2024-01-01", "present")
	path := "/api/attendance/" + itoa(alice.ID) + "/2024-01-01"

	runHTTPTests(t, app, []httpTest{
		{
			name: "invalid date", method: http.MethodDelete, path: "/api/attendance/" + itoa(alice.ID) + "/jan", wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date":"must be a valid date (YYYY-MM-DD)"}`),
		},
		{name: "deleted", method: http.MethodDelete, path: path, wantCode: http.StatusNoContent},
		{
			name: "already deleted", method: http.MethodDelete, path: path, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "attendance of user " + itoa(alice.ID) + " on 2024-01-01 not found"}),
		},
	})
}

func Test_attendanceApi_export(t *testing.T) {
	app, db, _ := setup(t)

	alice := testutil.CreateUser(t, db, "Alice", user.RoleStudent)
	testutil.Mark(t, db, alice, "2024-01-01", "present", "09:00", "17:00")
	testutil.Mark(t, db, alice, "2024-02-01", "absent")

	t.Run("csv", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/attendance/export?from=2024-01-01&to=2024-01-31")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="attendance_2024-01-01_to_2024-01-31.csv"`, rec.Header().Get("Content-Disposition"))

		rows, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"2024-01-01", "Alice", "student", "present", "09:00:00", "17:00:00", "8", ""}, rows[1])
	})

	t.Run("xlsx", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/attendance/export?format=xlsx&from=2024-01-01&to=2024-12-31")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
		assert.NotZero(t, rec.Body.Len())
	})

	runHTTPTests(t, app, []httpTest{
		{
			name: "unknown format", path: "/api/attendance/export?format=pdf", wantCode: http.StatusBadRequest,
			wantData: []byte(`{"format":"unknown export format, expected csv or xlsx"}`),
		},
	})
}
