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
	"github.com/trezcool/eduportal/core/subject"
)

type subjectApi struct {
	svc        *subject.Service
	audit      *audit.Service
	guard      *action.Guard
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
}

func registerSubjectAPI(
	g *echo.Group,
	guard *action.Guard,
	svc *subject.Service,
	auditSvc *audit.Service,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) {
	api := subjectApi{
		svc:        svc,
		audit:      auditSvc,
		guard:      guard,
		validate:   validate,
		translator: translator,
		logger:     logger,
	}

	sg := g.Group("/subjects")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

func (api *subjectApi) fail(ctx echo.Context, err error) error {
	return failAction(ctx, err, api.translator, api.logger)
}

// Handlers

func (api *subjectApi) query(ctx echo.Context) error {
	if _, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx)); err != nil {
		return errHttpForbidden
	}

	subs, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	if subs == nil {
		subs = []subject.Subject{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *subjectApi) create(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	var data subject.NewSubject
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(api.validate); err != nil {
		return api.fail(ctx, err)
	}

	sub, err := api.svc.Create(data)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionSubjectCreated, "subject", sub.ID, sub.Code)
	return ctx.JSON(http.StatusOK, action.OKWithID("subject created", sub.ID))
}

func (api *subjectApi) update(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	origSub, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == subject.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(subject.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	var data subject.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(origSub, api.validate); err != nil {
		return api.fail(ctx, err)
	}

	sub, err := api.svc.Update(origSub.ID, data)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionSubjectUpdated, "subject", sub.ID, sub.Code)
	return ctx.JSON(http.StatusOK, action.OKWithID("subject updated", sub.ID))
}

func (api *subjectApi) destroy(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	sub, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == subject.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(subject.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	if err = api.svc.Delete(sub.ID); err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionSubjectDeleted, "subject", sub.ID, sub.Code)
	return ctx.JSON(http.StatusOK, action.OK("subject deleted"))
}
