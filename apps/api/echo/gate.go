package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/eduportal/core/access"
	"github.com/trezcool/eduportal/core/session"
	"github.com/trezcool/eduportal/core/user"
)

const apiPrefix = "/v1"

// sessionGate guards every page request at the edge, registered routes and
// unregistered paths alike; the route classification, not route registration,
// decides enforcement. On every request the session cookie is revalidated
// against the backend; the stored role, not anything the client sent, feeds
// the redirect policy. A validation failure of any kind demotes the request
// to "no identity" (fail closed), and the policy's decision is enforced with
// a 303 redirect before the page handler runs.
func sessionGate(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			// API routes authorize themselves: the auth endpoints are public
			// and every guarded action re-derives the caller's role.
			if p := ctx.Request().URL.Path; p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/") {
				return next(ctx)
			}

			var (
				identityPresent bool
				role            user.Role
			)

			if sid := sessionIDFromRequest(ctx); sid != "" {
				sess, usr, refreshed, err := sessions.Validate(ctx.Request().Context(), sid)
				if err != nil {
					clearSessionCookie(ctx)
				} else {
					identityPresent = true
					role = usr.Role
					setContextIdentity(ctx, sess, usr)
					if refreshed {
						if err = setSessionCookie(ctx, sess); err != nil {
							return err
						}
					}
				}
			}

			if d := access.Decide(identityPresent, role, ctx.Request().URL.Path); d.IsRedirect() {
				return ctx.Redirect(http.StatusSeeOther, d.Target)
			}
			return next(ctx)
		}
	}
}
