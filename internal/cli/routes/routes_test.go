package routes

import (
	"testing"

	"github.com/soumyendra98/GymApp/internal/cli/session"
	"github.com/soumyendra98/GymApp/internal/models"
)

func loadingSession() session.Session {
	return session.Session{Status: session.StatusLoading}
}

func anonymousSession() session.Session {
	return session.Session{Status: session.StatusAnonymous}
}

func authenticatedAs(role models.Role) session.Session {
	return session.Session{
		Status: session.StatusAuthenticated,
		Token:  "token",
		User:   &models.User{Role: role},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantScreen string
	}{
		{name: "exact match", path: "/dashboard/overview", wantScreen: ScreenDashboardOverview},
		{name: "trailing slash normalized", path: "/dashboard/overview/", wantScreen: ScreenDashboardOverview},
		{name: "missing leading slash normalized", path: "signin", wantScreen: ScreenSignin},
		{name: "unknown path", path: "/foo/bar", wantScreen: ScreenNotFound},
		{name: "partial path is not a screen", path: "/dashboard", wantScreen: ScreenNotFound},
		{name: "root is not a screen", path: "/", wantScreen: ScreenNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := Resolve(tt.path)
			if route.Screen != tt.wantScreen {
				t.Errorf("Resolve(%q).Screen = %q, want %q", tt.path, route.Screen, tt.wantScreen)
			}
		})
	}
}

func TestResolve_NotFoundIsDeadEnd(t *testing.T) {
	route := Resolve("/no/such/screen")
	if !route.NotFound() {
		t.Fatal("expected not-found route")
	}

	// The not-found screen renders for any session state, never redirects
	for _, sess := range []session.Session{anonymousSession(), authenticatedAs(models.RoleMember), authenticatedAs(models.RoleAdmin)} {
		decision := Authorize(route, sess)
		if decision.Kind != DecisionAllow {
			t.Errorf("Authorize(not-found, %v) = %v, want allow", sess.Status, decision.Kind)
		}
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		sess         session.Session
		want         DecisionKind
		wantRedirect string
	}{
		{
			name: "loading session renders nothing, even on public routes",
			path: "/signin",
			sess: loadingSession(),
			want: DecisionLoading,
		},
		{
			name: "loading session on protected route",
			path: "/dashboard/overview",
			sess: loadingSession(),
			want: DecisionLoading,
		},
		{
			name: "public route allows anonymous",
			path: "/signup",
			sess: anonymousSession(),
			want: DecisionAllow,
		},
		{
			name: "public route allows authenticated",
			path: "/home",
			sess: authenticatedAs(models.RoleMember),
			want: DecisionAllow,
		},
		{
			name:         "anonymous on protected route redirects to signin",
			path:         "/dashboard/overview",
			sess:         anonymousSession(),
			want:         DecisionRedirect,
			wantRedirect: SigninPath,
		},
		{
			name: "dashboard allows every role",
			path: "/dashboard/activity",
			sess: authenticatedAs(models.RoleInstructor),
			want: DecisionAllow,
		},
		{
			name: "instructor may view plans",
			path: "/plans/overview",
			sess: authenticatedAs(models.RoleInstructor),
			want: DecisionAllow,
		},
		{
			name:         "instructor may not create plans",
			path:         "/plans/create",
			sess:         authenticatedAs(models.RoleInstructor),
			want:         DecisionRedirect,
			wantRedirect: SigninPath,
		},
		{
			name:         "member may not open member invites",
			path:         "/members/invite",
			sess:         authenticatedAs(models.RoleMember),
			want:         DecisionRedirect,
			wantRedirect: SigninPath,
		},
		{
			name: "member may view own memberships",
			path: "/memberships/overview",
			sess: authenticatedAs(models.RoleMember),
			want: DecisionAllow,
		},
		{
			name:         "instructor may not view memberships",
			path:         "/memberships/overview",
			sess:         authenticatedAs(models.RoleInstructor),
			want:         DecisionRedirect,
			wantRedirect: SigninPath,
		},
		{
			name: "admin opens settings",
			path: "/settings/team",
			sess: authenticatedAs(models.RoleAdmin),
			want: DecisionAllow,
		},
		{
			name:         "member may not open settings",
			path:         "/settings/profile",
			sess:         authenticatedAs(models.RoleMember),
			want:         DecisionRedirect,
			wantRedirect: SigninPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(Resolve(tt.path), tt.sess)
			if decision.Kind != tt.want {
				t.Fatalf("Authorize(%q) = %v, want %v", tt.path, decision.Kind, tt.want)
			}
			if decision.RedirectTo != tt.wantRedirect {
				t.Errorf("RedirectTo = %q, want %q", decision.RedirectTo, tt.wantRedirect)
			}
		})
	}
}

// Re-evaluating the same navigation after the session changes must flip the
// decision: the gate is a pure function of route and session.
func TestAuthorize_ReevaluatesOnSessionChange(t *testing.T) {
	route := Resolve("/dashboard/overview")

	if d := Authorize(route, loadingSession()); d.Kind != DecisionLoading {
		t.Fatalf("loading: got %v", d.Kind)
	}
	if d := Authorize(route, anonymousSession()); d.Kind != DecisionRedirect {
		t.Fatalf("anonymous: got %v", d.Kind)
	}
	if d := Authorize(route, authenticatedAs(models.RoleMember)); d.Kind != DecisionAllow {
		t.Fatalf("authenticated: got %v", d.Kind)
	}
}

// A session claiming authenticated status without a user must be gated like
// an anonymous one, including on role-restricted routes. This must never
// reach the role check and dereference a nil user.
func TestAuthorize_SessionWithoutUserRedirects(t *testing.T) {
	sess := session.Session{Status: session.StatusAuthenticated, Token: "tok"}

	for _, path := range []string{"/members/invite", "/dashboard/overview", "/settings/profile"} {
		decision := Authorize(Resolve(path), sess)
		if decision.Kind != DecisionRedirect {
			t.Errorf("Authorize(%q) = %v, want redirect", path, decision.Kind)
		}
		if decision.RedirectTo != SigninPath {
			t.Errorf("RedirectTo = %q, want %q", decision.RedirectTo, SigninPath)
		}
	}
}
