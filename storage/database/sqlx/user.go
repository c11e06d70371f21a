package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/user"
)

type userRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:        r.ID,
		Name:      r.Name,
		Role:      r.Role,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type userRepository struct {
	repository
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{repository{exec: exec}}
}

func (repo userRepository) selectUsers(exe core.DBExecutor) sq.SelectBuilder {
	return repo.builder(exe).
		Select("id", "name", "role", "created_at").
		From("users")
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.builder(exe).
		Insert("users").
		Columns("name", "role", "created_at").
		Values(usr.Name, usr.Role, usr.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return user.User{}, core.NewStorageError("building user insert", err)
	}
	if err = exe.QueryRowxContext(ctx, query, args...).Scan(&usr.ID); err != nil {
		return user.User{}, core.NewStorageError("inserting user", err)
	}
	return usr, nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter, exec ...core.DBExecutor) ([]user.User, error) {
	exe := repo.getExec(exec)
	b := repo.selectUsers(exe).OrderBy("name ASC", "id ASC")
	if filter.Role != "" {
		b = b.Where(sq.Eq{"role": filter.Role})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, core.NewStorageError("building users query", err)
	}

	var rows []userRow
	if err = exe.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, core.NewStorageError("querying users", err)
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo userRepository) GetUser(ctx context.Context, id int, exec ...core.DBExecutor) (user.User, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.selectUsers(exe).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return user.User{}, core.NewStorageError("building user query", err)
	}

	var row userRow
	if err = exe.GetContext(ctx, &row, query, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, "finding user by ID", "user", id)
	}
	return row.toUser(), nil
}

func (repo userRepository) DeleteUser(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.builder(exe).Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, core.NewStorageError("building user delete", err)
	}
	res, err := exe.ExecContext(ctx, query, args...)
	if err != nil {
		return false, core.NewStorageError("deleting user", err)
	}
	return rowsAffected(res, "deleting user")
}

func (repo userRepository) CountUsersByRole(ctx context.Context, exec ...core.DBExecutor) (user.RoleCounts, error) {
	exe := repo.getExec(exec)
	query, args, err := repo.builder(exe).
		Select("COUNT(*) AS total").
		Column(countWhen("role", user.RoleStudent, "students")).
		Column(countWhen("role", user.RoleEmployee, "employees")).
		Column(countWhen("role", user.RoleAdmin, "admins")).
		From("users").
		ToSql()
	if err != nil {
		return user.RoleCounts{}, core.NewStorageError("building role counts query", err)
	}

	var counts user.RoleCounts
	if err = exe.GetContext(ctx, &counts, query, args...); err != nil {
		return user.RoleCounts{}, core.NewStorageError("counting users", err)
	}
	return counts, nil
}
