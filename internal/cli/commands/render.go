package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/manifoldco/promptui"

	"github.com/soumyendra98/GymApp/internal/cli/client"
	"github.com/soumyendra98/GymApp/internal/cli/session"
	"github.com/soumyendra98/GymApp/internal/models"
)

const dateFormat = "2006-01-02"

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func money(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func renderDashboardOverview(ctx context.Context, apiClient *client.Client, sess session.Session) error {
	stats, err := apiClient.Stats(ctx, "")
	if err != nil {
		return err
	}

	w := newTable()
	switch sess.User.Role {
	case models.RoleAdmin:
		fmt.Fprintf(w, "Revenue (this month)\t%s\n", money(stats.CurrentMonthRevenue))
		fmt.Fprintf(w, "Revenue (last month)\t%s\n", money(stats.PreviousMonthRevenue))
		fmt.Fprintf(w, "New memberships\t%d\n", stats.NewMemberships)
		fmt.Fprintf(w, "Members\t%d\n", stats.TotalMembers)
		fmt.Fprintf(w, "Instructors\t%d\n", stats.TotalInstructors)
		fmt.Fprintf(w, "Classes scheduled\t%d\n", stats.TotalClassesScheduled)
	case models.RoleMember:
		fmt.Fprintf(w, "Spent (this month)\t%s\n", money(stats.CurrentMonthSpent))
		fmt.Fprintf(w, "Spent (last month)\t%s\n", money(stats.PreviousMonthSpent))
		fmt.Fprintf(w, "Memberships\t%d\n", stats.TotalMemberships)
	case models.RoleInstructor:
		fmt.Fprintf(w, "Earned (this month)\t%s\n", money(stats.CurrentMonthEarned))
		fmt.Fprintf(w, "Earned (last month)\t%s\n", money(stats.PreviousMonthEarned))
		fmt.Fprintf(w, "Classes\t%d\n", stats.TotalClasses)
	}
	return w.Flush()
}

func renderActivityFeed(ctx context.Context, apiClient *client.Client) error {
	activity, err := apiClient.ActivityFeed(ctx)
	if err != nil {
		return err
	}
	if len(activity) == 0 {
		fmt.Println("No recent activity.")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "WHEN\tWHO\tTYPE\tDETAILS")
	for _, entry := range activity {
		who := ""
		if entry.User != nil {
			who = entry.User.FullName()
		}
		details := entry.Description
		if entry.DurationMinutes > 0 {
			details = fmt.Sprintf("%s (%d min)", details, entry.DurationMinutes)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.CreatedAt.Format("2006-01-02 15:04"), who, entry.Type, details)
	}
	return w.Flush()
}

func renderPlans(ctx context.Context, apiClient *client.Client, sess session.Session) error {
	plans, err := apiClient.Plans(ctx, "")
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		if sess.User.Role == models.RoleAdmin {
			fmt.Println("No plans yet. Create one with: gymapp open /plans/create")
		} else {
			fmt.Println("No classes assigned to you yet.")
		}
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSCHEDULE\tINSTRUCTOR")
	for _, plan := range plans {
		schedule := string(plan.ScheduleType)
		if plan.ScheduleDays != "" {
			schedule = fmt.Sprintf("%s %s", plan.ScheduleDays, plan.ScheduleTime)
		}
		instructor := ""
		if plan.Instructor != nil {
			instructor = plan.Instructor.FullName()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", plan.ID, plan.Name, money(plan.PriceCents), schedule, instructor)
	}
	return w.Flush()
}

func renderPlanCreate(ctx context.Context, apiClient *client.Client) error {
	var req client.CreatePlanRequest
	var err error

	if req.Name, err = promptIfEmpty("", "Plan name"); err != nil {
		return err
	}

	pricePrompt := promptui.Prompt{
		Label: "Price (cents)",
		Validate: func(input string) error {
			_, err := strconv.ParseInt(input, 10, 64)
			return err
		},
	}
	priceRaw, err := pricePrompt.Run()
	if err != nil {
		return err
	}
	req.PriceCents, _ = strconv.ParseInt(priceRaw, 10, 64)

	schedulePrompt := promptui.Select{
		Label: "Schedule type",
		Items: []string{string(models.ScheduleRecurring), string(models.ScheduleNonRecurring)},
	}
	_, req.ScheduleType, err = schedulePrompt.Run()
	if err != nil {
		return err
	}

	if req.ScheduleType == string(models.ScheduleRecurring) {
		daysPrompt := promptui.Prompt{Label: "Schedule days (e.g. MON,WED,FRI)"}
		if req.ScheduleDays, err = daysPrompt.Run(); err != nil {
			return err
		}
		timePrompt := promptui.Prompt{Label: "Schedule time (e.g. 18:00)"}
		if req.ScheduleTime, err = timePrompt.Run(); err != nil {
			return err
		}
	}

	if req.InstructorID, err = pickInstructor(ctx, apiClient); err != nil {
		return err
	}

	plan, err := apiClient.CreatePlan(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Plan %q created (%s)\n", plan.Name, plan.ID)
	return nil
}

// pickInstructor offers the gym's instructors, allowing none
func pickInstructor(ctx context.Context, apiClient *client.Client) (string, error) {
	instructors, err := apiClient.Instructors(ctx, "")
	if err != nil {
		return "", err
	}
	if len(instructors) == 0 {
		return "", nil
	}

	labels := []string{"(none)"}
	for _, instructor := range instructors {
		labels = append(labels, fmt.Sprintf("%s <%s>", instructor.FullName(), instructor.Email))
	}
	prompt := promptui.Select{Label: "Instructor", Items: labels}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	if idx == 0 {
		return "", nil
	}
	return instructors[idx-1].ID, nil
}

func renderUserTable(users []models.User) error {
	w := newTable()
	fmt.Fprintln(w, "NAME\tEMAIL\tSTATUS\tLOCATION")
	for _, user := range users {
		location := ""
		if user.Location != nil {
			location = user.Location.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.FullName(), user.Email, user.Status, location)
	}
	return w.Flush()
}

func renderMembers(ctx context.Context, apiClient *client.Client) error {
	members, err := apiClient.Members(ctx, "", "")
	if err != nil {
		return err
	}
	if len(members) == 0 {
		fmt.Println("No members yet. Invite some with: gymapp open /members/invite")
		return nil
	}
	return renderUserTable(members)
}

func renderMembersInvite(ctx context.Context, apiClient *client.Client) error {
	locationID, err := pickLocation(ctx, apiClient)
	if err != nil {
		return err
	}

	invites, err := promptInvites()
	if err != nil {
		return err
	}

	invited, err := apiClient.InviteMembers(ctx, locationID, invites)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Invited %d member(s)\n", len(invited))
	return nil
}

func renderInstructors(ctx context.Context, apiClient *client.Client) error {
	instructors, err := apiClient.Instructors(ctx, "")
	if err != nil {
		return err
	}
	if len(instructors) == 0 {
		fmt.Println("No instructors yet. Invite some with: gymapp open /instructors/invite")
		return nil
	}
	return renderUserTable(instructors)
}

func renderInstructorsInvite(ctx context.Context, apiClient *client.Client) error {
	invites, err := promptInvites()
	if err != nil {
		return err
	}

	invited, err := apiClient.InviteInstructors(ctx, invites)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Invited %d instructor(s)\n", len(invited))
	return nil
}

// promptInvites collects invite rows until the user stops adding more
func promptInvites() ([]client.MemberInvite, error) {
	var invites []client.MemberInvite
	for {
		var invite client.MemberInvite
		var err error
		if invite.FirstName, err = promptIfEmpty("", "First name"); err != nil {
			return nil, err
		}
		if invite.LastName, err = promptIfEmpty("", "Last name"); err != nil {
			return nil, err
		}
		if invite.Email, err = promptIfEmpty("", "Email"); err != nil {
			return nil, err
		}
		invites = append(invites, invite)

		more := promptui.Select{Label: "Add another?", Items: []string{"No", "Yes"}}
		idx, _, err := more.Run()
		if err != nil || idx == 0 {
			return invites, nil
		}
	}
}

func pickLocation(ctx context.Context, apiClient *client.Client) (string, error) {
	locations, err := apiClient.GymLocations(ctx)
	if err != nil {
		return "", err
	}
	if len(locations) == 0 {
		return "", fmt.Errorf("the gym has no locations yet")
	}
	if len(locations) == 1 {
		return locations[0].ID, nil
	}

	labels := make([]string, 0, len(locations))
	for _, location := range locations {
		labels = append(labels, location.Name)
	}
	prompt := promptui.Select{Label: "Location", Items: labels}
	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return locations[idx].ID, nil
}

func renderMemberships(ctx context.Context, apiClient *client.Client) error {
	memberships, err := apiClient.Memberships(ctx)
	if err != nil {
		return err
	}
	if len(memberships) == 0 {
		fmt.Println("No memberships found.")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tMEMBER\tPLAN\tSTATUS\tENDS")
	for _, membership := range memberships {
		member, plan := "", ""
		if membership.Member != nil {
			member = membership.Member.FullName()
		}
		if membership.Plan != nil {
			plan = membership.Plan.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			membership.ID, member, plan, membership.Status, membership.EndDate.Format(dateFormat))
	}
	return w.Flush()
}

func renderMembershipDetails(ctx context.Context, apiClient *client.Client, membershipID string) error {
	if membershipID == "" {
		return fmt.Errorf("membership ID is required (use --id, list IDs with: gymapp open /memberships/overview)")
	}

	membership, err := apiClient.Membership(ctx, membershipID)
	if err != nil {
		return err
	}

	w := newTable()
	if membership.Member != nil {
		fmt.Fprintf(w, "Member\t%s <%s>\n", membership.Member.FullName(), membership.Member.Email)
	}
	if membership.Plan != nil {
		fmt.Fprintf(w, "Plan\t%s (%s)\n", membership.Plan.Name, money(membership.Plan.PriceCents))
	}
	fmt.Fprintf(w, "Status\t%s\n", membership.Status)
	fmt.Fprintf(w, "Period\t%s to %s\n", membership.StartDate.Format(dateFormat), membership.EndDate.Format(dateFormat))
	if err := w.Flush(); err != nil {
		return err
	}

	activity, err := apiClient.MembershipActivity(ctx, membershipID)
	if err != nil {
		return err
	}
	if len(activity) == 0 {
		return nil
	}

	fmt.Println("\nActivity:")
	w = newTable()
	for _, entry := range activity {
		fmt.Fprintf(w, "%s\t%s\t%s\n", entry.CreatedAt.Format(dateFormat), entry.Type, entry.Description)
	}
	return w.Flush()
}

func renderGymProfile(ctx context.Context, apiClient *client.Client) error {
	gym, err := apiClient.GymProfile(ctx)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintf(w, "Gym\t%s\n", gym.Name)
	if gym.Owner != nil {
		fmt.Fprintf(w, "Owner\t%s <%s>\n", gym.Owner.FullName(), gym.Owner.Email)
	}
	fmt.Fprintf(w, "Locations\t%d\n", len(gym.Locations))
	return w.Flush()
}

func renderGymTeam(ctx context.Context, apiClient *client.Client) error {
	team, err := apiClient.GymTeam(ctx)
	if err != nil {
		return err
	}
	if len(team) == 0 {
		fmt.Println("No team members yet.")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "NAME\tEMAIL\tROLE\tSTATUS")
	for _, user := range team {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", user.FullName(), user.Email, user.Role, user.Status)
	}
	return w.Flush()
}

func renderGymLocations(ctx context.Context, apiClient *client.Client) error {
	locations, err := apiClient.GymLocations(ctx)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		fmt.Println("No locations yet.")
		return nil
	}

	w := newTable()
	fmt.Fprintln(w, "NAME\tADDRESS")
	for _, location := range locations {
		fmt.Fprintf(w, "%s\t%s\n", location.Name, location.Address)
	}
	return w.Flush()
}
