package sqlxrepos

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
)

// dialect holds the SQL that differs between the supported engines.
type dialect struct {
	placeholder sq.PlaceholderFormat
	// hours worked between a.check_in & a.check_out; NULL unless both are set.
	hoursWorked string
	// clock renders a TIME column as HH:MM:SS text.
	clock func(col string) string
}

var (
	sqliteDialect = dialect{
		placeholder: sq.Question,
		hoursWorked: "CASE WHEN a.check_in IS NOT NULL AND a.check_out IS NOT NULL " +
			"THEN (strftime('%s', a.check_out) - strftime('%s', a.check_in)) / 3600.0 END",
		clock: func(col string) string { return col },
	}

	postgresDialect = dialect{
		placeholder: sq.Dollar,
		hoursWorked: "CASE WHEN a.check_in IS NOT NULL AND a.check_out IS NOT NULL " +
			"THEN CAST(EXTRACT(EPOCH FROM (a.check_out - a.check_in)) AS DOUBLE PRECISION) / 3600.0 END",
		clock: func(col string) string { return "CAST(" + col + " AS TEXT)" },
	}
)

func dialectOf(exec core.DBExecutor) dialect {
	if exec.DriverName() == core.EnginePostgres {
		return postgresDialect
	}
	return sqliteDialect
}

// repository is embedded by every sqlx repository.
type repository struct {
	exec core.DBExecutor
}

// getExec returns the executor passed by the service (ie: a transaction), or the repository's one.
func (repo repository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 && svcExec[0] != nil {
		return svcExec[0]
	}
	return repo.exec
}

func (repo repository) builder(exec core.DBExecutor) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(dialectOf(exec).placeholder)
}

// countWhen counts the rows where col equals val.
func countWhen(col string, val interface{}, alias string) sq.Sqlizer {
	return sq.Alias(sq.Expr("COUNT(CASE WHEN "+col+" = ? THEN 1 END)", val), alias)
}

// trapNoRowsErr maps "no rows" to a *core.NotFoundError.
func trapNoRowsErr(err error, op, resource string, id interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewNotFoundError(resource, id)
	}
	return core.NewStorageError(op, err)
}

func rowsAffected(res sql.Result, op string) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, core.NewStorageError(op, err)
	}
	return n > 0, nil
}
