package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/eduportal/core"
)

// Page handlers are intentionally bare; the session gate in front of them is
// what matters. A handler running at all means the policy decided NoOp.

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+"!")
}

func loginPage(ctx echo.Context) error {
	return renderPage(ctx, "Sign In")
}

func registerPage(ctx echo.Context) error {
	return renderPage(ctx, "Register")
}

func dashboardPage(ctx echo.Context) error {
	if usr, ok := getContextUser(ctx); ok {
		return renderPage(ctx, fmt.Sprintf("Dashboard - %s (%s)", usr.Name, usr.Role))
	}
	return renderPage(ctx, "Dashboard")
}

func adminLoginPage(ctx echo.Context) error {
	return renderPage(ctx, "Admin Sign In")
}

func adminDashboardPage(ctx echo.Context) error {
	if usr, ok := getContextUser(ctx); ok {
		return renderPage(ctx, "Admin Dashboard - "+usr.Name)
	}
	return renderPage(ctx, "Admin Dashboard")
}

func renderPage(ctx echo.Context, title string) error {
	return ctx.HTML(http.StatusOK, fmt.Sprintf("<html><head><title>%[1]s</title></head><body><h1>%[1]s</h1></body></html>", title))
}
