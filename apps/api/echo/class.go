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
	"github.com/trezcool/eduportal/core/class"
)

type classApi struct {
	svc        *class.Service
	audit      *audit.Service
	guard      *action.Guard
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
}

func registerClassAPI(
	g *echo.Group,
	guard *action.Guard,
	svc *class.Service,
	auditSvc *audit.Service,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) {
	api := classApi{
		svc:        svc,
		audit:      auditSvc,
		guard:      guard,
		validate:   validate,
		translator: translator,
		logger:     logger,
	}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.POST("", api.create)
	cg.PUT("/:id", api.update)
	cg.DELETE("/:id", api.destroy)
}

func (api *classApi) fail(ctx echo.Context, err error) error {
	return failAction(ctx, err, api.translator, api.logger)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	if _, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx)); err != nil {
		return errHttpForbidden
	}

	classes, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	if classes == nil {
		classes = []class.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) create(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	var data class.NewClass
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(api.validate); err != nil {
		return api.fail(ctx, err)
	}

	cls, err := api.svc.Create(data)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionClassCreated, "class", cls.ID, cls.Name)
	return ctx.JSON(http.StatusOK, action.OKWithID("class created", cls.ID))
}

func (api *classApi) update(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	origCls, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(class.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	var data class.UpdateClass
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(origCls, api.validate); err != nil {
		return api.fail(ctx, err)
	}

	cls, err := api.svc.Update(origCls.ID, data)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionClassUpdated, "class", cls.ID, cls.Name)
	return ctx.JSON(http.StatusOK, action.OKWithID("class updated", cls.ID))
}

func (api *classApi) destroy(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	cls, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == class.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(class.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	if err = api.svc.Delete(cls.ID); err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionClassDeleted, "class", cls.ID, cls.Name)
	return ctx.JSON(http.StatusOK, action.OK("class deleted"))
}
