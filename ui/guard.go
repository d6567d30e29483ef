package ui

import "github.com/mathevilla/mathevilla/pkg/session"

// Route identifies a screen in the app.
type Route string

const (
	RouteLogin     Route = "login"
	RouteRegister  Route = "register"
	RouteDashboard Route = "dashboard"
	RoutePractice  Route = "practice"
	RouteChallenge Route = "challenge"
	RouteProgress  Route = "progress"
	RouteAdmin     Route = "admin"
)

// Public reports whether the route is reachable without a session.
func (r Route) Public() bool {
	return r == RouteLogin || r == RouteRegister
}

// AdminOnly reports whether the route requires the admin role.
func (r Route) AdminOnly() bool {
	return r == RouteAdmin
}

// Decision is the outcome of resolving a navigation attempt.
type Decision int

const (
	// ShowLoading keeps the loading screen up until hydration settles.
	ShowLoading Decision = iota
	// RedirectLogin sends the visitor to the login screen.
	RedirectLogin
	// RedirectDashboard sends the user to their home screen.
	RedirectDashboard
	// Allow renders the requested route.
	Allow
)

func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "show-loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

// Resolve decides what to render for a route given the session state.
// While hydration is pending nothing renders, so a valid stored session
// never flashes the login screen. Signed-in users are bounced off the
// public screens to their home, and admin screens require the admin role.
func Resolve(state session.State, isAdmin bool, route Route) Decision {
	if state == session.StateHydrating {
		return ShowLoading
	}

	if route.Public() {
		if state == session.StateAuthenticated {
			return RedirectDashboard
		}
		return Allow
	}

	if state != session.StateAuthenticated {
		return RedirectLogin
	}
	if route.AdminOnly() && !isAdmin {
		return RedirectDashboard
	}
	return Allow
}

// HomeRoute returns the landing route for a signed-in user.
func HomeRoute(isAdmin bool) Route {
	if isAdmin {
		return RouteAdmin
	}
	return RouteDashboard
}
