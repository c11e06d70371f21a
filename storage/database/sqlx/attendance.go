package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
)

const upsertSuffix = "ON CONFLICT (user_id, date) DO UPDATE SET " +
	"status = excluded.status, check_in = excluded.check_in, check_out = excluded.check_out, notes = excluded.notes " +
	"RETURNING id"

type recordRow struct {
	ID          int          `db:"id"`
	UserID      int          `db:"user_id"`
	UserName    string       `db:"name"`
	UserRole    string       `db:"role"`
	Date        core.Date    `db:"date"`
	Status      string       `db:"status"`
	CheckIn     null.String  `db:"check_in"`
	CheckOut    null.String  `db:"check_out"`
	Notes       null.String  `db:"notes"`
	HoursWorked null.Float64 `db:"hours_worked"`
}

func (r recordRow) toRecord() attendance.Record {
	return attendance.Record{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		UserRole:    r.UserRole,
		Date:        r.Date,
		Status:      r.Status,
		CheckIn:     r.CheckIn,
		CheckOut:    r.CheckOut,
		Notes:       r.Notes,
		HoursWorked: r.HoursWorked,
	}
}

type attendanceRepository struct {
	repository
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{repository{exec: exec}}
}

func (repo attendanceRepository) selectRecords(exe core.DBExecutor) sq.SelectBuilder {
	d := dialectOf(exe)
	return repo.builder(exe).
		Select(
			"a.id", "a.user_id", "u.name", "u.role", "a.date", "a.status",
			d.clock("a.check_in")+" AS check_in",
			d.clock("a.check_out")+" AS check_out",
			"a.notes",
			d.hoursWorked+" AS hours_worked",
		).
		From("attendance a").
		Join("users u ON u.id = a.user_id")
}

func (repo attendanceRepository) UserExists(ctx context.Context, userID int, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.builder(exe).Select("COUNT(*)").From("users").Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return false, core.NewStorageError("building user lookup", err)
	}
	var count int
	if err = exe.GetContext(ctx, &count, query, args...); err != nil {
		return false, core.NewStorageError("looking up user", err)
	}
	return count > 0, nil
}

func (repo attendanceRepository) UpsertRecord(ctx context.Context, m attendance.Mark, exec ...core.DBExecutor) (int, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.builder(exe).
		Insert("attendance").
		Columns("user_id", "date", "status", "check_in", "check_out", "notes").
		Values(m.UserID, m.Date, m.Status, m.CheckIn, m.CheckOut, m.Notes).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return 0, core.NewStorageError("building attendance upsert", err)
	}

	var id int
	if err = exe.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, core.NewStorageError("upserting attendance", err)
	}
	return id, nil
}

func (repo attendanceRepository) GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (attendance.Record, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.selectRecords(exe).Where(sq.Eq{"a.id": id}).ToSql()
	if err != nil {
		return attendance.Record{}, core.NewStorageError("building attendance query", err)
	}

	var row recordRow
	if err = exe.GetContext(ctx, &row, query, args...); err != nil {
		return attendance.Record{}, trapNoRowsErr(err, "finding attendance by ID", "attendance record", id)
	}
	return row.toRecord(), nil
}

func (repo attendanceRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter, exec ...core.DBExecutor) ([]attendance.Record, error) {
	exe := repo.getExec(exec)
	b := repo.selectRecords(exe).OrderBy("a.date DESC", "u.name ASC", "a.id ASC")
	if filter.From != nil {
		b = b.Where(sq.GtOrEq{"a.date": *filter.From})
	}
	if filter.To != nil {
		b = b.Where(sq.LtOrEq{"a.date": *filter.To})
	}
	if filter.UserID != nil {
		b = b.Where(sq.Eq{"a.user_id": *filter.UserID})
	}
	if filter.Status != "" {
		b = b.Where(sq.Eq{"a.status": filter.Status})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, core.NewStorageError("building attendance query", err)
	}

	var rows []recordRow
	if err = exe.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, core.NewStorageError("querying attendance", err)
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toRecord())
	}
	return records, nil
}

func (repo attendanceRepository) DeleteRecord(ctx context.Context, userID int, date core.Date, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.builder(exe).
		Delete("attendance").
		Where(sq.Eq{"user_id": userID, "date": date}).
		ToSql()
	if err != nil {
		return false, core.NewStorageError("building attendance delete", err)
	}
	res, err := exe.ExecContext(ctx, query, args...)
	if err != nil {
		return false, core.NewStorageError("deleting attendance", err)
	}
	return rowsAffected(res, "deleting attendance")
}
