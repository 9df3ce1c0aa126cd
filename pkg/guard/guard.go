package guard

import (
	"github.com/inkwell-press/console/pkg/identity"
	"github.com/inkwell-press/console/pkg/routes"
	"github.com/inkwell-press/console/pkg/session"
)

// Well-known redirect targets. Unauthenticated operators land on the login
// form; authenticated operators denied by role policy land on the console
// home rather than an error page.
const (
	LoginLocation = "/login"
	HomeLocation  = "/admin"
)

// Action is the guard's verdict for a request.
type Action int

const (
	// ActionAllow lets the request through to the page.
	ActionAllow Action = iota
	// ActionLoading holds the request while the session is still settling.
	ActionLoading
	// ActionRedirect sends the request to Decision.Location.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionLoading:
		return "loading"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating a request against the session
// state and route policy. Location is set only for ActionRedirect.
type Decision struct {
	Action   Action
	Location string
}

// Evaluate decides what to do with a request for path given the current
// session snapshot. Public paths pass unconditionally. For protected
// paths: a settling session holds, a missing session redirects to login,
// and an authenticated session is checked against the role policy.
func Evaluate(snap session.Snapshot, path string, set *routes.Set) Decision {
	if set.IsPublic(path) {
		return Decision{Action: ActionAllow}
	}

	switch snap.Status {
	case session.StatusLoading:
		return Decision{Action: ActionLoading}
	case session.StatusAuthenticated:
		role := identity.Role("")
		if snap.User != nil {
			role = snap.User.Role
		}
		if !set.Allow(path, role) {
			return Decision{Action: ActionRedirect, Location: HomeLocation}
		}
		return Decision{Action: ActionAllow}
	default:
		return Decision{Action: ActionRedirect, Location: LoginLocation}
	}
}
