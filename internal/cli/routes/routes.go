// Package routes declares the static screen table and the authorization gate
// deciding, per navigation, whether the current session may render a screen.
package routes

import (
	"slices"
	"strings"

	"github.com/soumyendra98/GymApp/internal/cli/session"
	"github.com/soumyendra98/GymApp/internal/models"
)

// SigninPath is where unauthorized navigations are redirected
const SigninPath = "/signin"

// Route maps a path to a screen and its role restrictions. Routes are static;
// the table is defined once and never mutated at runtime.
type Route struct {
	Path   string
	Screen string
	// Public routes render regardless of session state
	Public bool
	// AllowedRoles is consulted only for non-public routes
	AllowedRoles []models.Role
}

// NotFound reports whether this is the terminal not-found screen
func (r Route) NotFound() bool {
	return r.Screen == ScreenNotFound
}

// Screen names
const (
	ScreenOnboarding          = "onboarding"
	ScreenSignup              = "signup"
	ScreenSignin              = "signin"
	ScreenHome                = "home"
	ScreenDashboardOverview   = "dashboard-overview"
	ScreenDashboardActivity   = "dashboard-activity"
	ScreenPlansOverview       = "plans-overview"
	ScreenPlansCreate         = "plans-create"
	ScreenMembersOverview     = "members-overview"
	ScreenMembersInvite       = "members-invite"
	ScreenInstructorsOverview = "instructors-overview"
	ScreenInstructorsInvite   = "instructors-invite"
	ScreenMembershipsOverview = "memberships-overview"
	ScreenMembershipsDetails  = "memberships-details"
	ScreenSettingsProfile     = "settings-profile"
	ScreenSettingsTeam        = "settings-team"
	ScreenSettingsLocations   = "settings-locations"
	ScreenNotFound            = "not-found"
)

var (
	allRoles   = []models.Role{models.RoleAdmin, models.RoleInstructor, models.RoleMember}
	adminOnly  = []models.Role{models.RoleAdmin}
	classRoles = []models.Role{models.RoleAdmin, models.RoleInstructor}
	memberView = []models.Role{models.RoleAdmin, models.RoleMember}
)

// table is the application's route tree, flattened. The authenticated subtree
// nests under the default layout; auth-flow paths render without chrome.
var table = []Route{
	{Path: "/onboarding", Screen: ScreenOnboarding, Public: true},
	{Path: "/signup", Screen: ScreenSignup, Public: true},
	{Path: "/signin", Screen: ScreenSignin, Public: true},
	{Path: "/home", Screen: ScreenHome, Public: true},

	{Path: "/dashboard/overview", Screen: ScreenDashboardOverview, AllowedRoles: allRoles},
	{Path: "/dashboard/activity", Screen: ScreenDashboardActivity, AllowedRoles: allRoles},

	{Path: "/plans/overview", Screen: ScreenPlansOverview, AllowedRoles: classRoles},
	{Path: "/plans/create", Screen: ScreenPlansCreate, AllowedRoles: adminOnly},

	{Path: "/members/overview", Screen: ScreenMembersOverview, AllowedRoles: adminOnly},
	{Path: "/members/invite", Screen: ScreenMembersInvite, AllowedRoles: adminOnly},

	{Path: "/instructors/overview", Screen: ScreenInstructorsOverview, AllowedRoles: adminOnly},
	{Path: "/instructors/invite", Screen: ScreenInstructorsInvite, AllowedRoles: adminOnly},

	{Path: "/memberships/overview", Screen: ScreenMembershipsOverview, AllowedRoles: memberView},
	{Path: "/memberships/details", Screen: ScreenMembershipsDetails, AllowedRoles: memberView},

	{Path: "/settings/profile", Screen: ScreenSettingsProfile, AllowedRoles: adminOnly},
	{Path: "/settings/team", Screen: ScreenSettingsTeam, AllowedRoles: adminOnly},
	{Path: "/settings/locations", Screen: ScreenSettingsLocations, AllowedRoles: adminOnly},
}

// All returns the route table
func All() []Route {
	return table
}

// Resolve maps a path onto its route. Unmatched paths resolve to the
// not-found terminal screen: a dead end, not a redirect.
func Resolve(path string) Route {
	normalized := "/" + strings.Trim(path, "/")
	for _, route := range table {
		if route.Path == normalized {
			return route
		}
	}
	return Route{Path: normalized, Screen: ScreenNotFound, Public: true}
}

// DecisionKind is the outcome of an authorization check
type DecisionKind int

const (
	// DecisionLoading means session restore is pending: render nothing but a
	// loading indicator, never a route mismatch flash
	DecisionLoading DecisionKind = iota
	DecisionAllow
	DecisionRedirect
)

// Decision is the gate's verdict for one navigation
type Decision struct {
	Kind       DecisionKind
	RedirectTo string
}

// Authorize decides whether the session may render the route. It is a pure
// function of its inputs and is re-evaluated from current session state on
// every navigation; the decision is all-or-nothing for the route's subtree.
func Authorize(route Route, sess session.Session) Decision {
	if sess.Loading() {
		return Decision{Kind: DecisionLoading}
	}
	if route.Public {
		return Decision{Kind: DecisionAllow}
	}
	if !sess.Authenticated() {
		return Decision{Kind: DecisionRedirect, RedirectTo: SigninPath}
	}
	if len(route.AllowedRoles) > 0 && !slices.Contains(route.AllowedRoles, sess.User.Role) {
		return Decision{Kind: DecisionRedirect, RedirectTo: SigninPath}
	}
	return Decision{Kind: DecisionAllow}
}
