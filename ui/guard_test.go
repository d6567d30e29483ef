package ui_test

import (
	"testing"

	"github.com/mathevilla/mathevilla/pkg/session"
	"github.com/mathevilla/mathevilla/ui"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		state   session.State
		isAdmin bool
		route   ui.Route
		want    ui.Decision
	}{
		{"hydrating shows loading on protected route", session.StateHydrating, false, ui.RouteDashboard, ui.ShowLoading},
		{"hydrating shows loading on login", session.StateHydrating, false, ui.RouteLogin, ui.ShowLoading},
		{"hydrating shows loading on admin route", session.StateHydrating, true, ui.RouteAdmin, ui.ShowLoading},

		{"anonymous reaches login", session.StateAnonymous, false, ui.RouteLogin, ui.Allow},
		{"anonymous reaches register", session.StateAnonymous, false, ui.RouteRegister, ui.Allow},
		{"anonymous bounced from dashboard", session.StateAnonymous, false, ui.RouteDashboard, ui.RedirectLogin},
		{"anonymous bounced from practice", session.StateAnonymous, false, ui.RoutePractice, ui.RedirectLogin},
		{"anonymous bounced from admin", session.StateAnonymous, false, ui.RouteAdmin, ui.RedirectLogin},

		{"student reaches dashboard", session.StateAuthenticated, false, ui.RouteDashboard, ui.Allow},
		{"student reaches practice", session.StateAuthenticated, false, ui.RoutePractice, ui.Allow},
		{"student reaches progress", session.StateAuthenticated, false, ui.RouteProgress, ui.Allow},
		{"student bounced from admin", session.StateAuthenticated, false, ui.RouteAdmin, ui.RedirectDashboard},
		{"admin reaches admin", session.StateAuthenticated, true, ui.RouteAdmin, ui.Allow},

		{"signed-in bounced from login", session.StateAuthenticated, false, ui.RouteLogin, ui.RedirectDashboard},
		{"signed-in admin bounced from register", session.StateAuthenticated, true, ui.RouteRegister, ui.RedirectDashboard},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ui.Resolve(tc.state, tc.isAdmin, tc.route); got != tc.want {
				t.Errorf("Resolve(%v, admin=%v, %q) = %v, want %v", tc.state, tc.isAdmin, tc.route, got, tc.want)
			}
		})
	}
}

func TestHomeRoute(t *testing.T) {
	t.Parallel()

	if got := ui.HomeRoute(false); got != ui.RouteDashboard {
		t.Errorf("student home = %q, want %q", got, ui.RouteDashboard)
	}
	if got := ui.HomeRoute(true); got != ui.RouteAdmin {
		t.Errorf("admin home = %q, want %q", got, ui.RouteAdmin)
	}
}
