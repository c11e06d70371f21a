package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/user"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

type userApi struct {
	svc    *user.Service
	logger core.Logger
}

func registerUserAPI(g *echo.Group, svc *user.Service, logger core.Logger) {
	api := userApi{svc: svc, logger: logger}

	ug := g.Group("/users")
	ug.POST("", api.create)
	ug.GET("", api.query)
	ug.GET("/stats", api.stats)
	ug.GET("/:id", api.retrieve)
	ug.DELETE("/:id", api.destroy)
}

// pathID reads a positive integer path param; anything else cannot match an object.
func pathID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

// Handlers

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	usr, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	filter := user.QueryFilter{Role: ctx.QueryParam("role")}

	users, err := api.svc.List(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) stats(ctx echo.Context) error {
	counts, err := api.svc.CountByRole(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "counting users")
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx, "id")
	if err != nil {
		return err
	}
	usr, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding user by ID")
	}
	deleted, err := api.svc.Delete(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if !deleted {
		return core.NewNotFoundError("user", id)
	}

	// the user's attendance records are gone too
	api.logger.Info("user deleted", usr, map[string]interface{}{
		"request_id": ctx.Response().Header().Get(echo.HeaderXRequestID),
	})
	return ctx.NoContent(http.StatusNoContent)
}
