package access

import "strings"

// Well-known application paths.
const (
	RootPath         = "/"
	GeneralLoginPath = "/login"
	RegisterPath     = "/register"
	GeneralHomePath  = "/dashboard"
	AdminLoginPath   = "/admin/login"
	AdminHomePath    = "/admin/dashboard"

	adminPrefix = "/admin"
)

// RouteClass partitions URL paths. Every path belongs to exactly one class;
// the classification is pure data, never derived from the database.
type RouteClass int

const (
	// ClassPublicAuth covers the sign-in/sign-up pages reachable without a session.
	ClassPublicAuth RouteClass = iota
	// ClassAdmin covers the admin namespace, admin login page excluded.
	ClassAdmin
	// ClassGeneral covers every other protected page.
	ClassGeneral
	// ClassRoot is the landing page, exempt from redirects.
	ClassRoot
)

var publicAuthPaths = map[string]bool{
	GeneralLoginPath: true,
	RegisterPath:     true,
	AdminLoginPath:   true,
}

// Classify maps a URL path to its RouteClass.
func Classify(path string) RouteClass {
	path = normalize(path)
	switch {
	case publicAuthPaths[path]:
		return ClassPublicAuth
	case path == RootPath:
		return ClassRoot
	case path == adminPrefix || strings.HasPrefix(path, adminPrefix+"/"):
		return ClassAdmin
	default:
		return ClassGeneral
	}
}

func normalize(path string) string {
	if path == "" {
		return RootPath
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
