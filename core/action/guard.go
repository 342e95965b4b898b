package action

import (
	"context"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/session"
	"github.com/trezcool/eduportal/core/user"
)

// Guard authorizes privileged mutations. Every check re-derives the caller's
// identity and role fresh from the backend; a role claimed in a request
// payload or cookie is never trusted.
type Guard struct {
	sessions *session.Manager
}

func NewGuard(sessions *session.Manager) *Guard {
	return &Guard{sessions: sessions}
}

// RequireAdmin resolves the caller behind sessionID and requires the admin
// role. Missing sessions, invalid sessions and backend failures all deny
// (fail closed); the returned error carries only the localized message.
func (g *Guard) RequireAdmin(ctx context.Context, sessionID string) (user.User, error) {
	if sessionID == "" {
		return user.User{}, core.NewPermissionError(DeniedMessage)
	}
	_, usr, _, err := g.sessions.Validate(ctx, sessionID)
	if err != nil {
		return user.User{}, core.NewPermissionError(DeniedMessage)
	}
	if !usr.IsAdmin() {
		return user.User{}, core.NewPermissionError(DeniedMessage)
	}
	return usr, nil
}
