package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soumyendra98/GymApp/internal/cli/client"
	"github.com/soumyendra98/GymApp/internal/cli/navigation"
	"github.com/soumyendra98/GymApp/internal/cli/routes"
	"github.com/soumyendra98/GymApp/internal/cli/session"
)

// NewOpenCmd creates the open command
func NewOpenCmd() *cobra.Command {
	var membershipID string

	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open an app screen by path (e.g. /dashboard/overview)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd.Context(), args[0], membershipID)
		},
	}

	cmd.Flags().StringVar(&membershipID, "id", "", "Membership ID (for /memberships/details)")

	return cmd
}

func runOpen(ctx context.Context, path, membershipID string) error {
	_, apiClient, sess := restoreSession(ctx)

	route := routes.Resolve(path)
	decision := routes.Authorize(route, sess)

	switch decision.Kind {
	case routes.DecisionLoading:
		// Restore already completed, so this state is unreachable here. Kept
		// so the switch is exhaustive over the gate's outcomes.
		fmt.Println("Loading...")
		return nil
	case routes.DecisionRedirect:
		fmt.Printf("→ %s\n\n", decision.RedirectTo)
		route = routes.Resolve(decision.RedirectTo)
	}

	printChrome(route, sess)
	return renderScreen(ctx, apiClient, sess, route, membershipID)
}

// printChrome renders the sidebar the way the app's layout would: only for
// authenticated sessions outside the auth flow, with the current nav marked.
func printChrome(route routes.Route, sess session.Session) {
	if !navigation.ShowSidebar(route.Path, sess.Authenticated()) {
		return
	}

	selection := navigation.NewSelection(sess.User.Role)
	selection.SelectPath(route.Path)
	current, child, hasChild := selection.Current()

	for _, nav := range selection.Navs() {
		marker := " "
		if nav.ID == current.ID {
			marker = "▸"
		}
		fmt.Printf("%s %s\n", marker, nav.Title)
		if nav.ID != current.ID {
			continue
		}
		for _, c := range nav.ChildNavs {
			childMarker := " "
			if hasChild && c.ID == child.ID {
				childMarker = "•"
			}
			fmt.Printf("    %s %s\n", childMarker, c.Title)
		}
	}
	fmt.Println()
}

func renderScreen(ctx context.Context, apiClient *client.Client, sess session.Session, route routes.Route, membershipID string) error {
	switch route.Screen {
	case routes.ScreenSignin:
		fmt.Println("Sign in with: gymapp login")
		return nil
	case routes.ScreenSignup:
		fmt.Println("Create an account with: gymapp signup")
		return nil
	case routes.ScreenOnboarding:
		fmt.Println("Register your gym with: gymapp onboard")
		return nil
	case routes.ScreenHome:
		fmt.Println("Welcome to GymApp. Sign in with 'gymapp login' or register a gym with 'gymapp onboard'.")
		return nil
	case routes.ScreenNotFound:
		fmt.Printf("Page not found: %s\n", route.Path)
		return nil

	case routes.ScreenDashboardOverview:
		return renderDashboardOverview(ctx, apiClient, sess)
	case routes.ScreenDashboardActivity:
		return renderActivityFeed(ctx, apiClient)

	case routes.ScreenPlansOverview:
		return renderPlans(ctx, apiClient, sess)
	case routes.ScreenPlansCreate:
		return renderPlanCreate(ctx, apiClient)

	case routes.ScreenMembersOverview:
		return renderMembers(ctx, apiClient)
	case routes.ScreenMembersInvite:
		return renderMembersInvite(ctx, apiClient)

	case routes.ScreenInstructorsOverview:
		return renderInstructors(ctx, apiClient)
	case routes.ScreenInstructorsInvite:
		return renderInstructorsInvite(ctx, apiClient)

	case routes.ScreenMembershipsOverview:
		return renderMemberships(ctx, apiClient)
	case routes.ScreenMembershipsDetails:
		return renderMembershipDetails(ctx, apiClient, membershipID)

	case routes.ScreenSettingsProfile:
		return renderGymProfile(ctx, apiClient)
	case routes.ScreenSettingsTeam:
		return renderGymTeam(ctx, apiClient)
	case routes.ScreenSettingsLocations:
		return renderGymLocations(ctx, apiClient)
	}

	return fmt.Errorf("no renderer for screen %q", route.Screen)
}
