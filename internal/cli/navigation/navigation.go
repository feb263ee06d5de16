// Package navigation models the sidebar: which nav items a role sees and
// which item/child is selected for the current path.
package navigation

import (
	"strings"

	"github.com/soumyendra98/GymApp/internal/models"
)

// ChildNav is a second-level navigation entry
type ChildNav struct {
	ID    string
	Title string
	Path  string
}

// NavItem is a top-level navigation entry
type NavItem struct {
	ID        string
	Title     string
	Path      string
	ChildNavs []ChildNav
}

var dashboardNav = NavItem{
	ID:    "1",
	Title: "Dashboard",
	Path:  "/dashboard",
	ChildNavs: []ChildNav{
		{ID: "11", Title: "Overview", Path: "/overview"},
		{ID: "12", Title: "Activity", Path: "/activity"},
	},
}

var plansNav = NavItem{
	ID:    "2",
	Title: "Plans",
	Path:  "/plans",
	ChildNavs: []ChildNav{
		{ID: "21", Title: "Overview", Path: "/overview"},
		{ID: "22", Title: "Create", Path: "/create"},
	},
}

var membersNav = NavItem{
	ID:    "3",
	Title: "Members",
	Path:  "/members",
	ChildNavs: []ChildNav{
		{ID: "31", Title: "Overview", Path: "/overview"},
		{ID: "32", Title: "Invite", Path: "/invite"},
	},
}

var instructorsNav = NavItem{
	ID:    "4",
	Title: "Instructors",
	Path:  "/instructors",
	ChildNavs: []ChildNav{
		{ID: "41", Title: "Overview", Path: "/overview"},
		{ID: "42", Title: "Invite", Path: "/invite"},
	},
}

var membershipsNav = NavItem{
	ID:    "5",
	Title: "Memberships",
	Path:  "/memberships",
	ChildNavs: []ChildNav{
		{ID: "51", Title: "Overview", Path: "/overview"},
	},
}

var settingsNav = NavItem{
	ID:    "6",
	Title: "Settings",
	Path:  "/settings",
	ChildNavs: []ChildNav{
		{ID: "61", Title: "Profile", Path: "/profile"},
		{ID: "62", Title: "Team", Path: "/team"},
		{ID: "63", Title: "Locations", Path: "/locations"},
	},
}

// NavsFor returns the sidebar items visible to a role. Everyone gets the
// dashboard; instructors see the plans nav renamed "Classes" without the
// create child.
func NavsFor(role models.Role) []NavItem {
	navs := []NavItem{dashboardNav}

	switch role {
	case models.RoleAdmin:
		navs = append(navs, plansNav, membersNav, instructorsNav, settingsNav)
	case models.RoleMember:
		navs = append(navs, membershipsNav)
	case models.RoleInstructor:
		classes := plansNav
		classes.Title = "Classes"
		children := make([]ChildNav, 0, len(plansNav.ChildNavs))
		for _, child := range plansNav.ChildNavs {
			if child.Path != "/create" {
				children = append(children, child)
			}
		}
		classes.ChildNavs = children
		navs = append(navs, classes)
	}

	return navs
}

// Selection tracks the selected nav item and child. Exactly one nav item is
// selected at a time; after the first successful match the selection is never
// empty (an unmatched path leaves it unchanged, stale but valid).
type Selection struct {
	navs     []NavItem
	nav      int
	child    int
	hasChild bool
}

// NewSelection builds the selection state for a role: initially the first
// top-level nav with its first child.
func NewSelection(role models.Role) *Selection {
	s := &Selection{navs: NavsFor(role)}
	s.nav = 0
	s.child = 0
	s.hasChild = len(s.navs[0].ChildNavs) > 0
	return s
}

// Navs returns the visible nav items
func (s *Selection) Navs() []NavItem {
	return s.navs
}

// Current returns the selected nav item and child. The bool is false when the
// selected nav has no children.
func (s *Selection) Current() (NavItem, ChildNav, bool) {
	nav := s.navs[s.nav]
	if !s.hasChild {
		return nav, ChildNav{}, false
	}
	return nav, nav.ChildNavs[s.child], true
}

// SelectPath updates the selection from a navigated path: the first segment
// picks the top-level nav, the second picks the child (defaulting to the
// first child). An unmatched first segment leaves the selection unchanged.
func (s *Selection) SelectPath(path string) {
	segments := strings.SplitN(strings.Trim(path, "/"), "/", 3)

	navIdx := -1
	for i, nav := range s.navs {
		if nav.Path == "/"+segments[0] {
			navIdx = i
			break
		}
	}
	if navIdx < 0 {
		return
	}

	s.nav = navIdx
	s.child = 0
	s.hasChild = len(s.navs[navIdx].ChildNavs) > 0

	if len(segments) > 1 && segments[1] != "" {
		for i, child := range s.navs[navIdx].ChildNavs {
			if child.Path == "/"+segments[1] {
				s.child = i
				break
			}
		}
	}
}

// Select picks a nav item and child explicitly (a user click) and returns the
// composed URL to navigate to.
func (s *Selection) Select(navID, childID string) (string, bool) {
	for i, nav := range s.navs {
		if nav.ID != navID {
			continue
		}
		s.nav = i
		s.child = 0
		s.hasChild = len(nav.ChildNavs) > 0
		if !s.hasChild {
			return nav.Path, true
		}
		for j, child := range nav.ChildNavs {
			if child.ID == childID {
				s.child = j
				break
			}
		}
		return nav.Path + nav.ChildNavs[s.child].Path, true
	}
	return "", false
}

// Auth-flow paths render without the sidebar
var bareChromePrefixes = []string{
	"/signin",
	"/signup",
	"/onboarding",
	"/setup",
	"/forgot-password",
	"/reset-password",
	"/verify-email",
}

// ShowSidebar reports whether the sidebar chrome renders for a path. Only an
// authenticated session outside the auth flow gets the sidebar.
func ShowSidebar(path string, authenticated bool) bool {
	if !authenticated {
		return false
	}
	normalized := "/" + strings.Trim(path, "/")
	for _, prefix := range bareChromePrefixes {
		if strings.HasPrefix(normalized, prefix) {
			return false
		}
	}
	return true
}
