package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/action"
	"github.com/trezcool/eduportal/core/announce"
	"github.com/trezcool/eduportal/core/audit"
)

type announcementApi struct {
	svc        *announce.Service
	audit      *audit.Service
	guard      *action.Guard
	validate   *validator.Validate
	translator ut.Translator
	logger     core.Logger
}

func registerAnnouncementAPI(
	g *echo.Group,
	guard *action.Guard,
	svc *announce.Service,
	auditSvc *audit.Service,
	validate *validator.Validate,
	translator ut.Translator,
	logger core.Logger,
) {
	api := announcementApi{
		svc:        svc,
		audit:      auditSvc,
		guard:      guard,
		validate:   validate,
		translator: translator,
		logger:     logger,
	}

	ag := g.Group("/announcements")
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.POST("/:id/pin", api.pin)
	ag.POST("/:id/unpin", api.unpin)
	ag.DELETE("/:id", api.destroy)
}

func (api *announcementApi) fail(ctx echo.Context, err error) error {
	return failAction(ctx, err, api.translator, api.logger)
}

// Handlers

func (api *announcementApi) query(ctx echo.Context) error {
	if _, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx)); err != nil {
		return errHttpForbidden
	}

	anns, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if anns == nil {
		anns = []announce.Announcement{}
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *announcementApi) create(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	var data announce.NewAnnouncement
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(api.validate); err != nil {
		return api.fail(ctx, err)
	}

	ann, err := api.svc.Create(data, actor.ID)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionAnnouncementCreated, "announcement", ann.ID, ann.Title)
	return ctx.JSON(http.StatusOK, action.OKWithID("announcement created", ann.ID))
}

func (api *announcementApi) update(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	origAnn, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == announce.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(announce.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	var data announce.UpdateAnnouncement
	if err = ctx.Bind(&data); err != nil {
		return api.fail(ctx, core.NewValidationError(errInvalidPayload))
	}
	if err = data.Validate(origAnn, api.validate); err != nil {
		return api.fail(ctx, err)
	}

	ann, err := api.svc.Update(origAnn.ID, data)
	if err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionAnnouncementUpdated, "announcement", ann.ID, ann.Title)
	return ctx.JSON(http.StatusOK, action.OKWithID("announcement updated", ann.ID))
}

func (api *announcementApi) pin(ctx echo.Context) error {
	return api.setPinned(ctx, true)
}

func (api *announcementApi) unpin(ctx echo.Context) error {
	return api.setPinned(ctx, false)
}

func (api *announcementApi) setPinned(ctx echo.Context, pinned bool) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	ann, err := api.svc.SetPinned(ctx.Param("id"), pinned)
	if err != nil {
		if errors.Cause(err) == announce.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(announce.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	if pinned {
		api.audit.Record(actor, audit.ActionAnnouncementPinned, "announcement", ann.ID, ann.Title)
		return ctx.JSON(http.StatusOK, action.OKWithID("announcement pinned", ann.ID))
	}
	api.audit.Record(actor, audit.ActionAnnouncementUnpinned, "announcement", ann.ID, ann.Title)
	return ctx.JSON(http.StatusOK, action.OKWithID("announcement unpinned", ann.ID))
}

func (api *announcementApi) destroy(ctx echo.Context) error {
	actor, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if err != nil {
		return api.fail(ctx, err)
	}

	ann, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == announce.ErrNotFound {
			return api.fail(ctx, core.NewValidationError(announce.ErrNotFound))
		}
		return api.fail(ctx, err)
	}

	if err = api.svc.Delete(ann.ID); err != nil {
		return api.fail(ctx, err)
	}

	api.audit.Record(actor, audit.ActionAnnouncementDeleted, "announcement", ann.ID, ann.Title)
	return ctx.JSON(http.StatusOK, action.OK("announcement deleted"))
}
