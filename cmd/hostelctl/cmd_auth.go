package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/hostel-app/client"
	"github.com/yeremiapane/hostel-app/dashboard"
	"github.com/yeremiapane/hostel-app/models"
)

var (
	loginEmail    string
	loginPassword string
	loginRole     string
	capacity      int

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
		RunE:  runLogin,
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it",
		Args:  cobra.NoArgs,
		RunE:  runLogout,
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: withSession(func(ctx context.Context, s *client.Store, _ []string) error {
			u := s.State().CurrentUser
			printField(os.Stdout, "Name", u.Name)
			printField(os.Stdout, "Email", u.Email)
			printField(os.Stdout, "Role", string(u.Role))
			if u.Room != "" {
				printField(os.Stdout, "Room", u.Room)
			}
			return nil
		}),
	}
	overviewCmd = &cobra.Command{
		Use:   "overview",
		Short: "Show the dashboard for the signed-in account",
		Args:  cobra.NoArgs,
		RunE:  withSession(runOverview),
	}
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.Flags().StringVar(&loginRole, "role", string(models.RoleUser), "expected role: User or Admin")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	overviewCmd.Flags().IntVar(&capacity, "capacity", 50, "hostel capacity used for occupancy")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Login(ctx, loginEmail, loginPassword, models.Role(loginRole)); err != nil {
		return err
	}
	u := a.store.State().CurrentUser
	fmt.Println(styles.Success.Render(fmt.Sprintf("Logged in as %s (%s)", u.Name, u.Role)))
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	// A missing or stale session still counts as logged out.
	_ = a.store.Restore(ctx)
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	fmt.Println(styles.Success.Render("Logged out"))
	return nil
}

func runOverview(_ context.Context, s *client.Store, _ []string) error {
	_ = s.Remember("overview")
	st := s.State()
	if st.CurrentUser.Role == models.RoleAdmin {
		stats := s.AdminStats(capacity)
		fmt.Println(styles.Title.Render("Hostel overview"))
		printField(os.Stdout, "Total users", fmt.Sprint(stats.TotalUsers))
		printField(os.Stdout, "Active complaints", fmt.Sprint(stats.ActiveComplaints))
		printField(os.Stdout, "Pending service requests", fmt.Sprint(stats.PendingServiceRequests))
		printField(os.Stdout, "Pending leave requests", fmt.Sprint(stats.PendingLeaveRequests))
		printField(os.Stdout, "Pending revenue", money(stats.PendingRevenue))
		printField(os.Stdout, "Occupancy", fmt.Sprintf("%d%%", stats.OccupancyRate))
		rows := make([][]string, 0, len(stats.UrgentIssues))
		for _, c := range stats.UrgentIssues {
			rows = append(rows, []string{c.ID, c.Title, c.StudentName, c.Room, status(string(c.Status))})
		}
		fmt.Println()
		printTable(os.Stdout, "Urgent issues", []string{"ID", "Title", "Student", "Room", "Status"}, rows)
		return nil
	}

	stats, err := s.StudentOverview()
	if err != nil {
		return err
	}
	fmt.Println(styles.Title.Render("Welcome back, " + st.CurrentUser.Name))
	printField(os.Stdout, "Total dues", money(stats.TotalDues))
	printField(os.Stdout, "Paid so far", money(stats.PaidTotal))
	if stats.NextDueDate != nil {
		printField(os.Stdout, "Next due", date(*stats.NextDueDate))
	}
	printField(os.Stdout, "Active complaints", fmt.Sprint(stats.ActiveComplaints))
	printField(os.Stdout, "Pending leave requests", fmt.Sprint(stats.PendingLeaveRequests))

	for _, a := range stats.PinnedAnnouncements {
		fmt.Println()
		fmt.Println(styles.Warning.Render("Pinned: " + a.Title))
		fmt.Println("   " + a.Content)
	}
	rows := make([][]string, 0, len(stats.RecentActivity))
	for _, r := range stats.RecentActivity {
		rows = append(rows, []string{r.Type, r.Title, dashboard.TimeAgo(r.Date, time.Now()), status(r.Status)})
	}
	fmt.Println()
	printTable(os.Stdout, "Recent activity", []string{"Type", "Title", "When", "Status"}, rows)
	return nil
}
