package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
)

type (
	Repository interface {
		UserExists(ctx context.Context, userID int, exec ...core.DBExecutor) (bool, error)
		// UpsertRecord inserts the record or, when one exists for (UserID, Date), overwrites it. Returns its id.
		UpsertRecord(ctx context.Context, m Mark, exec ...core.DBExecutor) (int, error)
		// GetRecord returns a *core.NotFoundError when no record has this id.
		GetRecord(ctx context.Context, id int, exec ...core.DBExecutor) (Record, error)
		// QueryRecords returns records ordered by date (newest first), then by user name.
		QueryRecords(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Record, error)
		DeleteRecord(ctx context.Context, userID int, date core.Date, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		validate *core.Validator
	}
)

func NewService(db core.DB, repo Repository, validate *core.Validator) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		validate: validate,
	}
}

// Mark records the attendance of a user for a day, overwriting any previous mark for that day.
func (svc *Service) Mark(ctx context.Context, nr NewRecord) (Record, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Record{}, err
	}
	m, err := nr.toMark()
	if err != nil {
		return Record{}, errors.Wrap(err, "preparing record")
	}

	var rec Record
	err = core.WithTx(ctx, svc.db, func(tx core.DBTransactor) error {
		exists, err := svc.repo.UserExists(ctx, m.UserID, tx)
		if err != nil {
			return err
		}
		if !exists {
			return core.NewNotFoundError("user", m.UserID)
		}

		id, err := svc.repo.UpsertRecord(ctx, m, tx)
		if err != nil {
			return err
		}
		rec, err = svc.repo.GetRecord(ctx, id, tx)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Record, error) {
	filter.Clean()
	return svc.repo.QueryRecords(ctx, filter)
}

// Delete removes the record of a user for a day. Returns false when there was none.
func (svc *Service) Delete(ctx context.Context, userID int, date core.Date) (bool, error) {
	var deleted bool
	err := core.WithTx(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		deleted, err = svc.repo.DeleteRecord(ctx, userID, date, tx)
		return err
	})
	return deleted, err
}
