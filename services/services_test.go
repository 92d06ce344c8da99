package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	s, err := store.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewContainer(Deps{Store: s, Tokens: utils.NewTokenManager("test-secret", time.Hour)})
}

func register(t *testing.T, c *Container, name, email string, role models.Role) (*Session, Actor) {
	t.Helper()
	in := RegisterInput{Name: name, Email: email, Password: "secret123", Role: role}
	if role != models.RoleAdmin {
		in.Room = "B-12"
	}
	sess, err := c.Auth.Register(context.Background(), in)
	require.NoError(t, err)
	return sess, Actor{UserID: sess.User.ID, Role: sess.User.Role}
}

func TestRegisterDefaultsAndDuplicateEmail(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()

	sess, err := c.Auth.Register(ctx, RegisterInput{Name: "Asha", Email: "Asha@Hostel.com", Password: "secret123", Room: "101"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, models.RoleUser, sess.User.Role)
	assert.Equal(t, "asha@hostel.com", sess.User.Email)

	_, err = c.Auth.Register(ctx, RegisterInput{Name: "Other", Email: "asha@hostel.com", Password: "secret123", Room: "102"})
	assert.ErrorIs(t, err, ErrUserExists)

	users, err := c.Store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterValidation(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"name is required":          {Email: "a@b.com", Password: "secret123", Room: "1"},
		"email must be a valid":     {Name: "A", Email: "not-an-email", Password: "secret123", Room: "1"},
		"password must be at least": {Name: "A", Email: "a@b.com", Password: "123", Room: "1"},
		"room is required":          {Name: "A", Email: "a@b.com", Password: "secret123"},
		"role must be":              {Name: "A", Email: "a@b.com", Password: "secret123", Role: "Warden"},
	}
	for want, in := range cases {
		_, err := c.Auth.Register(ctx, in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, want)
		assert.Contains(t, verr.Message, want)
	}

	// Admins do not need a room.
	sess, err := c.Auth.Register(ctx, RegisterInput{Name: "Warden", Email: "w@hostel.com", Password: "secret123", Role: models.RoleAdmin, Room: "ignored"})
	require.NoError(t, err)
	assert.Empty(t, sess.User.Room)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	_, wrongPassword := c.Auth.Login(ctx, LoginInput{Email: "asha@hostel.com", Password: "nope-nope"})
	_, unknownEmail := c.Auth.Login(ctx, LoginInput{Email: "ghost@hostel.com", Password: "secret123"})
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	sess, err := c.Auth.Login(ctx, LoginInput{Email: "ASHA@hostel.com", Password: "secret123"})
	require.NoError(t, err)
	actor, err := c.Auth.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, actor.UserID)
}

func TestLogoutRevokesToken(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	sess, _ := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	require.NoError(t, c.Auth.Logout(ctx, sess.Token))
	_, err := c.Auth.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = c.Auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestComplaintsScopedToOwner(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)
	_, ravi := register(t, c, "Ravi", "ravi@hostel.com", models.RoleUser)

	_, err := c.Complaints.Create(ctx, asha, ComplaintInput{Description: "no title", Category: "Other"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title is required", verr.Message)

	first, err := c.Complaints.Create(ctx, asha, ComplaintInput{Title: "Fan", Description: "broken", Category: "Electrical"})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, first.Priority)
	assert.Equal(t, models.ComplaintPending, first.Status)
	assert.Equal(t, "Asha", first.StudentName)
	assert.Equal(t, "B-12", first.Room)

	now = func() time.Time { return time.Now().UTC().Add(time.Minute) }
	t.Cleanup(func() { now = func() time.Time { return time.Now().UTC() } })

	// A student cannot file on someone else's behalf.
	second, err := c.Complaints.Create(ctx, asha, ComplaintInput{Title: "Door", Description: "stuck", Category: "Carpentry", Student: ravi.UserID})
	require.NoError(t, err)
	assert.Equal(t, asha.UserID, second.StudentID)

	mine, err := c.Complaints.List(ctx, asha)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)

	theirs, err := c.Complaints.List(ctx, ravi)
	require.NoError(t, err)
	assert.Empty(t, theirs)

	all, err := c.Complaints.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestComplaintStatusIsAdminOnly(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	cmp, err := c.Complaints.Create(ctx, asha, ComplaintInput{Title: "Fan", Description: "broken", Category: "Electrical"})
	require.NoError(t, err)

	_, err = c.Complaints.UpdateStatus(ctx, asha, cmp.ID, models.ComplaintResolved)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = c.Complaints.UpdateStatus(ctx, admin, cmp.ID, "Closed")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = c.Complaints.UpdateStatus(ctx, admin, "missing", models.ComplaintResolved)
	assert.ErrorIs(t, err, store.ErrNotFound)

	updated, err := c.Complaints.UpdateStatus(ctx, admin, cmp.ID, models.ComplaintInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.ComplaintInProgress, updated.Status)

	recent := c.Hub.Recent(1)
	require.Len(t, recent, 1)
	assert.Contains(t, recent[0].Action, "In-progress")
}

func TestServiceRequestApprovalWithSchedule(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	_, err := c.ServiceRequests.Create(ctx, admin, ServiceRequestInput{ServiceType: "Laundry", Description: "weekly"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr, "admins must name the student")

	r, err := c.ServiceRequests.Create(ctx, asha, ServiceRequestInput{ServiceType: "Laundry", Description: "weekly"})
	require.NoError(t, err)

	when := time.Date(2025, 12, 2, 10, 0, 0, 0, time.UTC)
	updated, err := c.ServiceRequests.Update(ctx, admin, r.ID, ServiceRequestUpdate{Status: models.ServiceApproved, ScheduledDate: &when})
	require.NoError(t, err)
	assert.Equal(t, models.ServiceApproved, updated.Status)
	require.NotNil(t, updated.ScheduledDate)

	_, err = c.ServiceRequests.Update(ctx, asha, r.ID, ServiceRequestUpdate{Status: models.ServiceCompleted})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLeaveDaysComputedServerSide(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	start := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	l, err := c.Leaves.Create(ctx, asha, LeaveInput{StartDate: start, EndDate: start.AddDate(0, 0, 5), Reason: "Home"})
	require.NoError(t, err)
	assert.Equal(t, 5, l.Days)
	assert.Equal(t, models.LeavePending, l.Status)

	same, err := c.Leaves.Create(ctx, asha, LeaveInput{StartDate: start, EndDate: start, Reason: "Errand"})
	require.NoError(t, err)
	assert.Equal(t, 1, same.Days)

	_, err = c.Leaves.Create(ctx, asha, LeaveInput{StartDate: start, EndDate: start, Reason: "  "})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPayFlow(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)
	_, ravi := register(t, c, "Ravi", "ravi@hostel.com", models.RoleUser)

	_, err := c.Payments.Create(ctx, asha, PaymentInput{Title: "Fee", Amount: 10, DueDate: time.Now(), Student: asha.UserID})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = c.Payments.Create(ctx, admin, PaymentInput{Title: "Fee", Amount: 0, DueDate: time.Now(), Student: asha.UserID})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	p, err := c.Payments.Create(ctx, admin, PaymentInput{Title: "Hostel Fee", Amount: 5000, DueDate: time.Now().AddDate(0, 0, 7), Student: asha.UserID})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)
	assert.Equal(t, "Asha", p.StudentName)

	_, err = c.Payments.Pay(ctx, ravi, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = c.Payments.Receipt(ctx, asha, p.ID)
	assert.ErrorIs(t, err, ErrNotPaid)

	paid, err := c.Payments.Pay(ctx, asha, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.Status)
	require.NotNil(t, paid.PaidOn)
	assert.Regexp(t, `^TXN-[0-9a-f-]{36}$`, paid.TransactionID)

	_, err = c.Payments.Pay(ctx, asha, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	rec, owner, err := c.Payments.Receipt(ctx, asha, p.ID)
	require.NoError(t, err)
	assert.Equal(t, paid.TransactionID, rec.TransactionID)
	assert.Equal(t, "Asha", owner.Name)
}

// staleStore answers payment lookups with a snapshot taken before another
// request settled the payment.
type staleStore struct {
	store.Store
	snapshot models.Payment
}

func (s staleStore) FindPaymentByID(ctx context.Context, id string) (*models.Payment, error) {
	p := s.snapshot
	return &p, nil
}

func TestPayRejectsPaymentSettledAfterRead(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	p, err := c.Payments.Create(ctx, admin, PaymentInput{Title: "Hostel Fee", Amount: 5000, DueDate: time.Now().AddDate(0, 0, 7), Student: asha.UserID})
	require.NoError(t, err)

	lagging := NewContainer(Deps{
		Store:  staleStore{Store: c.Store, snapshot: *p},
		Tokens: utils.NewTokenManager("test-secret", time.Hour),
	})

	first, err := c.Payments.Pay(ctx, asha, p.ID)
	require.NoError(t, err)

	_, err = lagging.Payments.Pay(ctx, asha, p.ID)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	got, err := c.Store.FindPaymentByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, got.TransactionID)
}

func TestPaymentUpdateStatusRules(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	p, err := c.Payments.Create(ctx, admin, PaymentInput{Title: "Mess", Amount: 1500, DueDate: time.Now(), Student: asha.UserID})
	require.NoError(t, err)

	_, err = c.Payments.UpdateStatus(ctx, asha, p.ID, PaymentUpdate{Status: models.PaymentOverdue})
	assert.ErrorIs(t, err, ErrForbidden)

	overdue, err := c.Payments.UpdateStatus(ctx, admin, p.ID, PaymentUpdate{Status: models.PaymentOverdue})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentOverdue, overdue.Status)

	paid, err := c.Payments.UpdateStatus(ctx, asha, p.ID, PaymentUpdate{Status: models.PaymentPaid})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.Status)
	assert.NotEmpty(t, paid.TransactionID)

	_, err = c.Payments.UpdateStatus(ctx, admin, p.ID, PaymentUpdate{Status: "Verification Pending"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOverdueMonitorRunOnce(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	late, err := c.Payments.Create(ctx, admin, PaymentInput{Title: "Old", Amount: 100, DueDate: time.Now().UTC().AddDate(0, 0, -2), Student: asha.UserID})
	require.NoError(t, err)
	_, err = c.Payments.Create(ctx, admin, PaymentInput{Title: "New", Amount: 100, DueDate: time.Now().UTC().AddDate(0, 0, 2), Student: asha.UserID})
	require.NoError(t, err)

	m := NewOverdueMonitor(c.Payments, time.Hour)
	assert.EqualValues(t, 1, m.RunOnce(ctx))
	assert.EqualValues(t, 0, m.RunOnce(ctx))

	got, err := c.Store.FindPaymentByID(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentOverdue, got.Status)

	m.Stop()
	m.Stop()
}

func TestAnnouncementsAdminOnly(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	_, err := c.Announcements.Create(ctx, asha, AnnouncementInput{Title: "Hi", Content: "there"})
	assert.ErrorIs(t, err, ErrForbidden)

	a, err := c.Announcements.Create(ctx, admin, AnnouncementInput{Title: "Water", Content: "off sunday"})
	require.NoError(t, err)
	assert.Equal(t, models.AnnouncementGeneral, a.Type)

	_, err = c.Announcements.Create(ctx, admin, AnnouncementInput{Title: "X", Content: "y", Type: "spam"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	list, err := c.Announcements.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func seedRecords(t *testing.T, c *Container, admin, student Actor) {
	t.Helper()
	ctx := context.Background()
	_, err := c.Complaints.Create(ctx, student, ComplaintInput{Title: "Fan", Description: "broken", Category: "Electrical"})
	require.NoError(t, err)
	_, err = c.ServiceRequests.Create(ctx, student, ServiceRequestInput{ServiceType: "Cleaning", Description: "room"})
	require.NoError(t, err)
	_, err = c.Leaves.Create(ctx, student, LeaveInput{StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 2), Reason: "Home"})
	require.NoError(t, err)
	_, err = c.Payments.Create(ctx, admin, PaymentInput{Title: "Fee", Amount: 100, DueDate: time.Now(), Student: student.UserID})
	require.NoError(t, err)
}

func countOwned(t *testing.T, s store.Store, studentID string) int {
	t.Helper()
	ctx := context.Background()
	f := store.Filter{StudentID: studentID}
	cs, err := s.ListComplaints(ctx, f)
	require.NoError(t, err)
	rs, err := s.ListServiceRequests(ctx, f)
	require.NoError(t, err)
	ls, err := s.ListLeaveRequests(ctx, f)
	require.NoError(t, err)
	ps, err := s.ListPayments(ctx, f)
	require.NoError(t, err)
	return len(cs) + len(rs) + len(ls) + len(ps)
}

func TestDeleteUserCascades(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)
	_, ravi := register(t, c, "Ravi", "ravi@hostel.com", models.RoleUser)
	seedRecords(t, c, admin, asha)
	seedRecords(t, c, admin, ravi)

	assert.ErrorIs(t, c.Users.Delete(ctx, asha, ravi.UserID), ErrForbidden)

	require.NoError(t, c.Users.Delete(ctx, admin, asha.UserID))
	assert.Zero(t, countOwned(t, c.Store, asha.UserID))
	assert.Equal(t, 4, countOwned(t, c.Store, ravi.UserID))

	_, err := c.Store.FindUserByID(ctx, asha.UserID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, c.Users.Delete(ctx, admin, asha.UserID), store.ErrNotFound)
}

type failingStore struct {
	store.Store
	failOn store.Collection
}

func (f failingStore) DeleteByStudent(ctx context.Context, c store.Collection, id string) (int64, error) {
	if c == f.failOn {
		return 0, errors.New("disk on fire")
	}
	return f.Store.DeleteByStudent(ctx, c, id)
}

func TestDeleteUserKeepsUserWhenCascadeFails(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	broken := NewContainer(Deps{
		Store:  failingStore{Store: c.Store, failOn: store.Payments},
		Tokens: utils.NewTokenManager("test-secret", time.Hour),
	})
	err := broken.Users.Delete(ctx, admin, asha.UserID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	_, err = c.Store.FindUserByID(ctx, asha.UserID)
	assert.NoError(t, err)
}

func TestUsersCreateAndList(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	_, err := c.Users.List(ctx, asha)
	assert.ErrorIs(t, err, ErrForbidden)

	u, err := c.Users.Create(ctx, admin, RegisterInput{Name: "Ravi", Email: "ravi@hostel.com", Password: "secret123", Room: "C-3"})
	require.NoError(t, err)
	assert.True(t, u.IsStudent)
	assert.Equal(t, models.UserActive, u.Status)

	users, err := c.Users.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestDashboardStatsAndOverview(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "w@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)
	seedRecords(t, c, admin, asha)

	_, err := c.Dashboard.Stats(ctx, asha)
	assert.ErrorIs(t, err, ErrForbidden)

	stats, err := c.Dashboard.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveComplaints)
	assert.Equal(t, 100.0, stats.PendingRevenue)
	assert.Equal(t, 4, stats.OccupancyRate)

	overview, err := c.Dashboard.Overview(ctx, asha)
	require.NoError(t, err)
	assert.Equal(t, 100.0, overview.TotalDues)
	assert.Equal(t, 1, overview.PendingLeaveRequests)
}

func TestSeedDemo(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	require.NoError(t, SeedDemo(ctx, c))

	sess, err := c.Auth.Login(ctx, LoginInput{Email: DemoUserEmail, Password: DemoUserPassword})
	require.NoError(t, err)
	assert.Equal(t, "John Doe", sess.User.Name)

	john := Actor{UserID: sess.User.ID, Role: sess.User.Role}
	payments, err := c.Payments.List(ctx, john)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	assert.Error(t, SeedDemo(ctx, c), "seeding twice collides on the demo emails")
}

func TestZeroDatesAreRequired(t *testing.T) {
	c := newTestContainer(t)
	ctx := context.Background()
	_, admin := register(t, c, "Warden", "warden@hostel.com", models.RoleAdmin)
	_, asha := register(t, c, "Asha", "asha@hostel.com", models.RoleUser)

	_, err := c.Leaves.Create(ctx, asha, LeaveInput{EndDate: time.Now(), Reason: "Home"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "startDate is required", verr.Message)

	_, err = c.Payments.Create(ctx, admin, PaymentInput{Title: "Fee", Amount: 10, Student: asha.UserID})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dueDate is required", verr.Message)
}
