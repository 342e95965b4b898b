package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/action"
	"github.com/trezcool/eduportal/core/audit"
	"github.com/trezcool/eduportal/core/user"
)

type userApi struct {
	svc        *user.Service
	audit      *audit.Service
	guard      *action.Guard
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
}

func registerUserAPI(
	g *echo.Group,
	guard *action.Guard,
	svc *user.Service,
	auditSvc *audit.Service,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) {
	api := userApi{
		svc:        svc,
		audit:      auditSvc,
		guard:      guard,
		validate:   validate,
		translator: translator,
		logger:     logger,
	}

	ug := g.Group("/users")
	ug.GET("", api.query)
	ug.GET("/roles", api.queryRoles)
	ug.GET("/unverified", api.queryUnverified)
	ug.POST("", api.create)
	ug.GET("/:id", api.retrieve)
	ug.PUT("/:id", api.update)
	ug.POST("/:id/verify", api.verify)
	ug.DELETE("/:id", api.destroy)
}

// requireAdmin authorizes admin-only reads; reads answer with plain HTTP
// errors, unlike mutations which fold failures into an action Result.
func (api *userApi) requireAdmin(ctx echo.Context) (user.User, error) {
	usr, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return user.User{}, errHttpForbidden
	}
	return usr, nil
}

func (api *userApi) fail(ctx echo.Context, err error) error {
	return failAction(ctx, err, api.translator, api.logger)
}

// Handlers

func (api *userApi) query(ctx echo.Context) error {
	if _, err := api.requireAdmin(ctx); err != nil {
		return err
	}

	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewValidationError(errInvalidPayload)
	}

	users, total, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, newPageResponse(core.Page{Rows: users, TotalCount: total}, filter.Page, core.UserPageSize))
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	if _, err := api.requireAdmin(ctx); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api *userApi) queryUnverified(ctx echo.Context) error {
	if _, err := api.requireAdmin(ctx); err != nil {
		return err
	}

	users, err := api.svc.QueryUnverified()
	if err != nil {
		return errors.Wrap(err, "querying unverified users")
	}
	if users == nil {
		users = []user.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) retrieve(ctx echo.Context) error {
	if _, err := api.requireAdmin(ctx); err != nil {
		return err
	}

	usr, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding user by ID")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) create(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	var data user.NewUser
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(api.validate, api.svc); err != nil {
		return api.fail(ctx, err)
	}

	usr, err := api.svc.Create(data)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionUserCreated, "user", usr.ID, usr.Email)
	return ctx.JSON(http.StatusOK, action.OKWithID("user created", usr.ID))
}

func (api *userApi) update(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	origUsr, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(user.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	var data user.UpdateUser
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(origUsr, api.validate, api.svc); err != nil {
		return api.fail(ctx, err)
	}

	usr, err := api.svc.Update(origUsr.ID, data)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionUserUpdated, "user", usr.ID, usr.Email)
	return ctx.JSON(http.StatusOK, action.OKWithID("user updated", usr.ID))
}

func (api *userApi) verify(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	usr, err := api.svc.Verify(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(user.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionUserVerified, "user", usr.ID, usr.Email)
	return ctx.JSON(http.StatusOK, action.OKWithID("user verified", usr.ID))
}

func (api *userApi) destroy(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	// Say No to Suicide! actor cannot delete themselves
	id := ctx.Param("id")
	if id == actor.ID {
		return api.fail(ctx, core.NewPermissionError("you cannot delete your own account"))
	}

	usr, err := api.svc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(user.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	if err = api.svc.Delete(usr.ID); err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionUserDeleted, "user", usr.ID, usr.Email)
	return ctx.JSON(http.StatusOK, action.OK("user deleted"))
}
