package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/action"
	"github.com/trezcool/eduportal/core/audit"
)

type auditApi struct {
	svc   *audit.Service
	guard *action.Guard
}

func registerAuditAPI(g *echo.Group, guard *action.Guard, svc *audit.Service) {
	api := auditApi{svc: svc, guard: guard}

	g.GET("/audit", api.query)
}

// query returns a page of the audit log, newest entries first. The log is
// read-only; there are no mutation endpoints.
func (api *auditApi) query(ctx echo.Context) error {
	if _, err := api.guard.RequireAdmin(ctx.Request().Context(), sessionIDFromRequest(ctx)); err != nil {
		return errHttpForbidden
	}

	filter := new(audit.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return core.NewValidationError(errInvalidPayload)
	}

	entries, total, err := api.svc.Filter(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "filtering audit entries")
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return ctx.JSON(http.StatusOK, newPageResponse(core.Page{Rows: entries, TotalCount: total}, filter.Page, core.AuditPageSize))
}
