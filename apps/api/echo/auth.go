package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/eduportal/core"
	"github.com/trezcool/eduportal/core/session"
	"github.com/trezcool/eduportal/core/user"
)

const (
	sessionCookieName = "eduportal_session"

	contextUserKey    = "user"
	contextSessionKey = "session"
)

var signingMethod = jwt.SigningMethodHS256

// Claims is the session cookie payload: a signed wrapper around the opaque
// session ID. It deliberately carries no role; authorization state is always
// re-derived from the backend on every request.
type Claims struct {
	jwt.StandardClaims
	SessionID string `json:"sid"`
}

// GenerateToken generates a signed JWT token string wrapping the session ID.
func GenerateToken(sess session.Session) (string, error) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   sess.UserID,
			ExpiresAt: sess.ExpiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		SessionID: sess.ID,
	}
	token := jwt.NewWithClaims(signingMethod, claims)

	ss, err := token.SignedString([]byte(core.Conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// parseToken extracts the session ID from a signed token string. An
// unverifiable token is treated as no token at all.
func parseToken(tokenStr string) string {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != signingMethod {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(core.Conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.SessionID
}

func sessionIDFromRequest(ctx echo.Context) string {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return parseToken(cookie.Value)
}

func setSessionCookie(ctx echo.Context, sess session.Session) error {
	token, err := GenerateToken(sess)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   !core.Conf.Debug,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func setContextIdentity(ctx echo.Context, sess session.Session, usr user.User) {
	ctx.Set(contextSessionKey, sess)
	ctx.Set(contextUserKey, usr)
}

func getContextUser(ctx echo.Context) (user.User, bool) {
	usr, ok := ctx.Get(contextUserKey).(user.User)
	return usr, ok
}

// Auth endpoints

type authApi struct {
	sessions *session.Manager
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, sessions *session.Manager, validate *validator.Validate) {
	api := authApi{sessions: sessions, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/logout", api.logout)
	ag.GET("/session", api.session)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sess, usr, err := api.sessions.SignIn(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case session.ErrInvalidCredentials:
			return core.NewValidationError(session.ErrInvalidCredentials)
		case session.ErrAccountDeactivated:
			return errAccountDeactivated
		case session.ErrAccountNotVerified:
			return errAccountNotVerified
		}
		return errors.Wrap(err, "signing in")
	}

	if err = setSessionCookie(ctx, sess); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: usr})
}

func (api *authApi) logout(ctx echo.Context) error {
	if sid := sessionIDFromRequest(ctx); sid != "" {
		if err := api.sessions.SignOut(ctx.Request().Context(), sid); err != nil {
			return errors.Wrap(err, "signing out")
		}
	}
	clearSessionCookie(ctx)
	return ctx.NoContent(http.StatusNoContent)
}

// session resolves the caller's current identity; the cookie's session is
// revalidated against the backend on every call.
func (api *authApi) session(ctx echo.Context) error {
	sess, usr := api.sessions.Current(ctx.Request().Context(), sessionIDFromRequest(ctx))
	if sess == nil {
		clearSessionCookie(ctx)
		return errUnauthorized
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: *usr})
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		User user.User `json:"user"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
