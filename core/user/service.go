package user

import (
	"context"
	"time"

	"github.com/trezcool/attendance/core"
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		// QueryUsers returns users ordered by name. An empty QueryFilter.Role matches every role.
		QueryUsers(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]User, error)
		// GetUser returns a *core.NotFoundError when no user has this id.
		GetUser(ctx context.Context, id int, exec ...core.DBExecutor) (User, error)
		DeleteUser(ctx context.Context, id int, exec ...core.DBExecutor) (bool, error)
		CountUsersByRole(ctx context.Context, exec ...core.DBExecutor) (RoleCounts, error)
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

// Register validates nu and creates the user.
func (svc *Service) Register(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}

	usr := User{
		Name:      nu.Name,
		Role:      nu.Role,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	err := core.WithTx(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		usr, err = svc.repo.CreateUser(ctx, usr, tx)
		return err
	})
	if err != nil {
		return User{}, err
	}
	return usr, nil
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) ([]User, error) {
	filter.Clean()
	return svc.repo.QueryUsers(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUser(ctx, id)
}

// Delete removes the user along with its attendance records. Returns false when there was no such user.
func (svc *Service) Delete(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := core.WithTx(ctx, svc.db, func(tx core.DBTransactor) error {
		var err error
		deleted, err = svc.repo.DeleteUser(ctx, id, tx)
		return err
	})
	return deleted, err
}

func (svc *Service) CountByRole(ctx context.Context) (RoleCounts, error) {
	return svc.repo.CountUsersByRole(ctx)
}
