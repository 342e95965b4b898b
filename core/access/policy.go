package access

import "github.com/trezcool/eduportal/core/user"

// Decision is a navigation decision: either a redirect to Target, or NoOp.
type Decision struct {
	Target string
}

// NoOp renders the requested page normally.
var NoOp = Decision{}

func (d Decision) IsRedirect() bool { return d.Target != "" }

func redirect(target string) Decision { return Decision{Target: target} }

// Decide maps (auth state, role, path) to a navigation decision.
//
// It is pure and deterministic: identical inputs always yield identical
// decisions. Both enforcement points (the edge gate and the client session
// watcher) call this same function; it must stay dependency-free so the two
// cannot drift.
//
// Rules, in precedence order:
//  1. admin namespace (admin login excluded) requires an authenticated Admin;
//     authenticated non-admins go to the general dashboard, everyone else to
//     the admin login.
//  2. an authenticated Admin on the admin login page goes to the admin dashboard.
//  3. an authenticated Admin anywhere else is confined to the admin namespace.
//  4. an authenticated non-admin on a public auth page goes to the general dashboard.
//  5. no identity on anything but a public auth page or the root goes to the
//     general login.
func Decide(identityPresent bool, role user.Role, path string) Decision {
	isAdmin := identityPresent && role == user.RoleAdmin
	path = normalize(path)

	switch Classify(path) {
	case ClassAdmin:
		if isAdmin {
			return NoOp
		}
		if identityPresent {
			return redirect(GeneralHomePath)
		}
		return redirect(AdminLoginPath)

	case ClassPublicAuth:
		if isAdmin {
			return redirect(AdminHomePath)
		}
		if identityPresent {
			return redirect(GeneralHomePath)
		}
		return NoOp

	case ClassRoot:
		if isAdmin {
			return redirect(AdminHomePath)
		}
		return NoOp

	default: // ClassGeneral
		if isAdmin {
			return redirect(AdminHomePath)
		}
		if !identityPresent {
			return redirect(GeneralLoginPath)
		}
		return NoOp
	}
}
