package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/hostel-app/client"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

var (
	complaintsCmd    = &cobra.Command{Use: "complaints", Short: "List, file and update complaints"}
	servicesCmd      = &cobra.Command{Use: "services", Short: "List, request and schedule services"}
	leaveCmd         = &cobra.Command{Use: "leave", Short: "List, apply for and review leave"}
	paymentsCmd      = &cobra.Command{Use: "payments", Short: "List, add and settle fees"}
	announcementsCmd = &cobra.Command{Use: "announcements", Short: "Read and post announcements"}
	usersCmd         = &cobra.Command{Use: "users", Short: "Manage accounts (admin)"}

	complaintIn    services.ComplaintInput
	serviceIn      services.ServiceRequestInput
	serviceDate    string
	leaveFrom      string
	leaveTo        string
	leaveIn        services.LeaveInput
	paymentIn      services.PaymentInput
	paymentDue     string
	announcementIn services.AnnouncementInput
	userIn         services.RegisterInput
)

func init() {
	// --- complaints ---
	complaintsAdd := &cobra.Command{Use: "add", Short: "File a complaint", Args: cobra.NoArgs, RunE: withSession(addComplaint)}
	complaintsAdd.Flags().StringVar(&complaintIn.Title, "title", "", "short title")
	complaintsAdd.Flags().StringVar(&complaintIn.Description, "description", "", "what is wrong")
	complaintsAdd.Flags().StringVar(&complaintIn.Category, "category", "General", "category, e.g. Plumbing")
	complaintsAdd.Flags().StringVar((*string)(&complaintIn.Priority), "priority", string(models.PriorityMedium), "High, Medium or Low")
	complaintsAdd.Flags().StringVar(&complaintIn.Student, "student", "", "student id (admins only)")
	complaintsCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List complaints", Args: cobra.NoArgs, RunE: withSession(listComplaints)},
		complaintsAdd,
		&cobra.Command{Use: "status <id> <status>", Short: "Set a complaint's status (admin)", Args: cobra.ExactArgs(2), RunE: withSession(setComplaintStatus)},
	)

	// --- service requests ---
	servicesAdd := &cobra.Command{Use: "add", Short: "Request a service", Args: cobra.NoArgs, RunE: withSession(addServiceRequest)}
	servicesAdd.Flags().StringVar(&serviceIn.ServiceType, "type", "", "service type, e.g. Room Cleaning")
	servicesAdd.Flags().StringVar(&serviceIn.Description, "description", "", "details")
	servicesAdd.Flags().StringVar(&serviceIn.Student, "student", "", "student id (admins only)")
	servicesStatus := &cobra.Command{Use: "status <id> <status>", Short: "Update a service request (admin)", Args: cobra.ExactArgs(2), RunE: withSession(setServiceStatus)}
	servicesStatus.Flags().StringVar(&serviceDate, "scheduled", "", "scheduled date (YYYY-MM-DD)")
	servicesCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List service requests", Args: cobra.NoArgs, RunE: withSession(listServiceRequests)},
		servicesAdd,
		servicesStatus,
	)

	// --- leave ---
	leaveAdd := &cobra.Command{Use: "add", Short: "Apply for leave", Args: cobra.NoArgs, RunE: withSession(addLeave)}
	leaveAdd.Flags().StringVar(&leaveFrom, "from", "", "first day (YYYY-MM-DD)")
	leaveAdd.Flags().StringVar(&leaveTo, "to", "", "last day (YYYY-MM-DD)")
	leaveAdd.Flags().StringVar(&leaveIn.Reason, "reason", "", "reason for leave")
	leaveAdd.Flags().StringVar(&leaveIn.Student, "student", "", "student id (admins only)")
	leaveCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List leave requests", Args: cobra.NoArgs, RunE: withSession(listLeave)},
		leaveAdd,
		&cobra.Command{Use: "status <id> <status>", Short: "Approve or reject leave (admin)", Args: cobra.ExactArgs(2), RunE: withSession(setLeaveStatus)},
	)

	// --- payments ---
	paymentsAdd := &cobra.Command{Use: "add", Short: "Add a fee for a student (admin)", Args: cobra.NoArgs, RunE: withSession(addPayment)}
	paymentsAdd.Flags().StringVar(&paymentIn.Title, "title", "", "fee title")
	paymentsAdd.Flags().Float64Var(&paymentIn.Amount, "amount", 0, "amount")
	paymentsAdd.Flags().StringVar(&paymentDue, "due", "", "due date (YYYY-MM-DD)")
	paymentsAdd.Flags().StringVar(&paymentIn.Student, "student", "", "student id")
	paymentsCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List payments", Args: cobra.NoArgs, RunE: withSession(listPayments)},
		paymentsAdd,
		&cobra.Command{Use: "pay <id>", Short: "Pay a fee now", Args: cobra.ExactArgs(1), RunE: withSession(payBill)},
		&cobra.Command{Use: "status <id> <status>", Short: "Set a payment's status", Args: cobra.ExactArgs(2), RunE: withSession(setPaymentStatus)},
	)

	// --- announcements ---
	announcementsAdd := &cobra.Command{Use: "add", Short: "Post an announcement (admin)", Args: cobra.NoArgs, RunE: withSession(addAnnouncement)}
	announcementsAdd.Flags().StringVar(&announcementIn.Title, "title", "", "headline")
	announcementsAdd.Flags().StringVar(&announcementIn.Content, "content", "", "body")
	announcementsAdd.Flags().StringVar((*string)(&announcementIn.Type), "type", string(models.AnnouncementGeneral), "urgent, general or event")
	announcementsAdd.Flags().BoolVar(&announcementIn.IsPinned, "pinned", false, "pin to the student dashboard")
	announcementsCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List announcements", Args: cobra.NoArgs, RunE: withSession(listAnnouncements)},
		announcementsAdd,
	)

	// --- users ---
	usersAdd := &cobra.Command{Use: "add", Short: "Create an account", Args: cobra.NoArgs, RunE: withSession(addUser)}
	usersAdd.Flags().StringVar(&userIn.Name, "name", "", "full name")
	usersAdd.Flags().StringVar(&userIn.Email, "email", "", "email")
	usersAdd.Flags().StringVar(&userIn.Password, "password", "", "initial password")
	usersAdd.Flags().StringVar((*string)(&userIn.Role), "role", string(models.RoleUser), "User or Admin")
	usersAdd.Flags().StringVar(&userIn.Room, "room", "", "room number (students)")
	usersAdd.Flags().StringVar(&userIn.Contact, "contact", "", "phone number")
	usersCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "List accounts", Args: cobra.NoArgs, RunE: withSession(listUsers)},
		usersAdd,
		&cobra.Command{Use: "delete <id>", Short: "Delete an account and everything it owns", Args: cobra.ExactArgs(1), RunE: withSession(deleteUser)},
	)
}

// --- complaints ---

func listComplaints(_ context.Context, s *client.Store, _ []string) error {
	_ = s.Remember("complaints")
	list := s.State().Complaints
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{c.ID, c.Title, c.Category, status(string(c.Priority)), c.StudentName, c.Room, date(c.Date), status(string(c.Status))})
	}
	printTable(os.Stdout, "Complaints", []string{"ID", "Title", "Category", "Priority", "Student", "Room", "Date", "Status"}, rows)
	return nil
}

func addComplaint(ctx context.Context, s *client.Store, _ []string) error {
	c, err := s.AddComplaint(ctx, complaintIn)
	if err != nil {
		return err
	}
	fmt.Println(styles.Success.Render("Complaint filed: " + c.ID))
	return nil
}

func setComplaintStatus(ctx context.Context, s *client.Store, args []string) error {
	c, err := s.UpdateComplaintStatus(ctx, args[0], models.ComplaintStatus(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", c.Title, status(string(c.Status)))
	return nil
}

// --- service requests ---

func listServiceRequests(_ context.Context, s *client.Store, _ []string) error {
	_ = s.Remember("services")
	list := s.State().ServiceRequests
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		scheduled := "-"
		if r.ScheduledDate != nil {
			scheduled = date(*r.ScheduledDate)
		}
		rows = append(rows, []string{r.ID, r.ServiceType, r.StudentName, r.Room, date(r.RequestedDate), scheduled, status(string(r.Status))})
	}
	printTable(os.Stdout, "Service requests", []string{"ID", "Service", "Student", "Room", "Requested", "Scheduled", "Status"}, rows)
	return nil
}

func addServiceRequest(ctx context.Context, s *client.Store, _ []string) error {
	r, err := s.AddServiceRequest(ctx, serviceIn)
	if err != nil {
		return err
	}
	fmt.Println(styles.Success.Render("Service requested: " + r.ID))
	return nil
}

func setServiceStatus(ctx context.Context, s *client.Store, args []string) error {
	in := services.ServiceRequestUpdate{Status: models.ServiceStatus(args[1])}
	if serviceDate != "" {
		d, err := utils.ParseDate(serviceDate)
		if err != nil {
			return fmt.Errorf("--scheduled: %w", err)
		}
		in.ScheduledDate = &d
	}
	r, err := s.UpdateServiceRequest(ctx, args[0], in)
	if err != nil {
		return err
	}
	fmt.Printf("%s request is now %s\n", r.ServiceType, status(string(r.Status)))
	return nil
}

// --- leave ---

func listLeave(_ context.Context, s *client.Store, _ []string) error {
	_ = s.Remember("leave")
	list := s.State().LeaveRequests
	rows := make([][]string, 0, len(list))
	for _, l := range list {
		rows = append(rows, []string{l.ID, l.StudentName, date(l.StartDate), date(l.EndDate), strconv.Itoa(l.Days), l.Reason, status(string(l.Status))})
	}
	printTable(os.Stdout, "Leave requests", []string{"ID", "Student", "From", "To", "Days", "Reason", "Status"}, rows)
	return nil
}

func addLeave(ctx context.Context, s *client.Store, _ []string) error {
	in := leaveIn
	var err error
	if in.StartDate, err = parseFlagDate("--from", leaveFrom); err != nil {
		return err
	}
	if in.EndDate, err = parseFlagDate("--to", leaveTo); err != nil {
		return err
	}
	l, err := s.AddLeaveRequest(ctx, in)
	if err != nil {
		return err
	}
	fmt.Println(styles.Success.Render(fmt.Sprintf("Leave requested for %d days: %s", l.Days, l.ID)))
	return nil
}

func setLeaveStatus(ctx context.Context, s *client.Store, args []string) error {
	l, err := s.UpdateLeaveStatus(ctx, args[0], models.LeaveStatus(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("Leave of %s is now %s\n", l.StudentName, status(string(l.Status)))
	return nil
}

// --- payments ---

func listPayments(_ context.Context, s *client.Store, _ []string) error {
	_ = s.Remember("payments")
	list := s.State().Payments
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		paid := "-"
		if p.PaidOn != nil {
			paid = date(*p.PaidOn)
		}
		rows = append(rows, []string{p.ID, p.Title, p.StudentName, money(p.Amount), date(p.DueDate), paid, status(string(p.Status))})
	}
	printTable(os.Stdout, "Payments", []string{"ID", "Title", "Student", "Amount", "Due", "Paid on", "Status"}, rows)
	return nil
}

func addPayment(ctx context.Context, s *client.Store, _ []string) error {
	in := paymentIn
	var err error
	if in.DueDate, err = parseFlagDate("--due", paymentDue); err != nil {
		return err
	}
	p, err := s.AddPayment(ctx, in)
	if err != nil {
		return err
	}
	fmt.Println(styles.Success.Render(fmt.Sprintf("Added %s (%s) for %s: %s", p.Title, money(p.Amount), p.StudentName, p.ID)))
	return nil
}

func payBill(ctx context.Context, s *client.Store, args []string) error {
	p, err := s.PayBill(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(styles.Success.Render(fmt.Sprintf("Paid %s (%s), transaction %s", p.Title, money(p.Amount), p.TransactionID)))
	return nil
}

func setPaymentStatus(ctx context.Context, s *client.Store, args []string) error {
	p, err := s.UpdatePaymentStatus(ctx, args[0], models.PaymentStatus(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", p.Title, status(string(p.Status)))
	return nil
}

// --- announcements ---

func listAnnouncements(_ context.Context, s *client.Store, _ []string) error {
	_ = s.Remember("announcements")
	list := s.State().Announcements
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		pinned := ""
		if a.IsPinned {
			pinned = "yes"
		}
		rows = append(rows, []string{date(a.Date), string(a.Type), pinned, a.Title, a.Content})
	}
	printTable(os.Stdout, "Announcements", []string{"Date", "Type", "Pinned", "Title", "Content"}, rows)
	return nil
}

func addAnnouncement(ctx context.Context, s *client.Store, _ []string) error {
	a, err := s.AddAnnouncement(ctx, announcementIn)
	if err != nil {
		return err
	}
	fmt.Println(styles.Success.Render("Posted: " + a.Title))
	return nil
}

// --- users ---

func listUsers(_ context.Context, s *client.Store, _ []string) error {
	_ = s.Remember("users")
	list := s.State().Users
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{u.ID, u.Name, u.Email, string(u.Role), u.Room, date(u.JoinDate), string(u.Status)})
	}
	printTable(os.Stdout, "Users", []string{"ID", "Name", "Email", "Role", "Room", "Joined", "Status"}, rows)
	return nil
}

func addUser(ctx context.Context, s *client.Store, _ []string) error {
	u, err := s.AddUser(ctx, userIn)
	if err != nil {
		return err
	}
	fmt.Println(styles.Success.Render(fmt.Sprintf("Created %s (%s): %s", u.Name, u.Role, u.ID)))
	return nil
}

func deleteUser(ctx context.Context, s *client.Store, args []string) error {
	if err := s.DeleteUser(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println(styles.Success.Render("User and all associated data deleted"))
	return nil
}

func parseFlagDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", flag)
	}
	t, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", flag, err)
	}
	return t, nil
}
