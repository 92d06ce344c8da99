package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/yeremiapane/hostel-app/dashboard"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/sync/errgroup"
)

// Store runs backend calls and folds their results into State. Failures are
// returned to the caller as-is; nothing is retried.
type Store struct {
	backend Backend
	session *SessionFile
	now     func() time.Time

	mu    sync.RWMutex
	state State
	seq   int
}

// NewStore wraps backend. session may be nil to keep nothing on disk.
func NewStore(backend Backend, session *SessionFile) *Store {
	return &Store{backend: backend, session: session, now: time.Now}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) dispatch(actions ...Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
}

// logActivity records a local activity entry the way the web client did.
func (s *Store) logActivity(user, action, kind string) {
	s.mu.Lock()
	s.seq++
	a := hub.Activity{ID: strconv.Itoa(s.seq), User: user, Action: action, Type: kind, Time: s.now()}
	s.state = Reduce(s.state, ActivityLogged{Activity: a})
	s.mu.Unlock()
}

func (s *Store) userName() string {
	if u := s.State().CurrentUser; u != nil {
		return u.Name
	}
	return ""
}

// Login signs in and loads data. An account whose role differs from role is
// turned away with ErrRoleMismatch and no session is kept; an empty role
// accepts any account.
func (s *Store) Login(ctx context.Context, email, password string, role models.Role) error {
	sess, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if role != "" && sess.User.Role != role {
		return ErrRoleMismatch
	}
	if err := s.backend.SetToken(sess.Token); err != nil {
		return err
	}
	if s.session != nil {
		if err := s.session.Save(Session{Token: sess.Token, User: sess.User}); err != nil {
			return err
		}
	}
	s.dispatch(LoggedIn{User: sess.User})
	return s.Refresh(ctx)
}

// Restore resumes the saved session, if any, and reloads data.
func (s *Store) Restore(ctx context.Context) error {
	if s.session == nil {
		return ErrNoSession
	}
	sess, err := s.session.Load()
	if err != nil {
		return err
	}
	if err := s.backend.SetToken(sess.Token); err != nil {
		s.clear()
		return err
	}
	s.dispatch(LoggedIn{User: sess.User})
	return s.Refresh(ctx)
}

// Logout ends the session on the backend and always clears local state.
func (s *Store) Logout(ctx context.Context) error {
	err := s.backend.Logout(ctx)
	s.clear()
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	return err
}

func (s *Store) clear() {
	_ = s.backend.SetToken("")
	if s.session != nil {
		if err := s.session.Clear(); err != nil {
			utils.ErrorLogger.Warnf("clear session: %v", err)
		}
	}
	s.dispatch(LoggedOut{})
}

// Remember stores the screen the user last looked at.
func (s *Store) Remember(screen string) error {
	if s.session == nil {
		return nil
	}
	sess, err := s.session.Load()
	if err != nil {
		return err
	}
	sess.LastScreen = screen
	return s.session.Save(*sess)
}

// Refresh fetches every collection concurrently. An ErrUnauthorized answer
// logs the user out.
func (s *Store) Refresh(ctx context.Context) error {
	user := s.State().CurrentUser
	if user == nil {
		return ErrNotLoggedIn
	}

	var loaded Loaded
	g, gctx := errgroup.WithContext(ctx)
	if user.Role == models.RoleAdmin {
		g.Go(func() (err error) { loaded.Users, err = s.backend.Users(gctx); return })
	}
	g.Go(func() (err error) { loaded.Complaints, err = s.backend.Complaints(gctx); return })
	g.Go(func() (err error) { loaded.ServiceRequests, err = s.backend.ServiceRequests(gctx); return })
	g.Go(func() (err error) { loaded.LeaveRequests, err = s.backend.LeaveRequests(gctx); return })
	g.Go(func() (err error) { loaded.Payments, err = s.backend.Payments(gctx); return })
	g.Go(func() (err error) { loaded.Announcements, err = s.backend.Announcements(gctx); return })

	if err := g.Wait(); err != nil {
		utils.ErrorLogger.Errorf("fetch data: %v", err)
		if errors.Is(err, ErrUnauthorized) {
			s.clear()
		}
		return err
	}
	s.dispatch(loaded)
	return nil
}

func (s *Store) AddComplaint(ctx context.Context, in services.ComplaintInput) (*models.Complaint, error) {
	c, err := s.backend.AddComplaint(ctx, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(ComplaintAdded{Complaint: *c})
	s.logActivity(c.StudentName, "Filed complaint: "+c.Title, hub.KindComplaint)
	return c, nil
}

func (s *Store) UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error) {
	c, err := s.backend.UpdateComplaintStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.dispatch(ComplaintStatusChanged{Complaint: *c})
	s.logActivity(s.userName(), fmt.Sprintf("Marked complaint %q %s", c.Title, c.Status), hub.KindComplaint)
	return c, nil
}

func (s *Store) AddServiceRequest(ctx context.Context, in services.ServiceRequestInput) (*models.ServiceRequest, error) {
	r, err := s.backend.AddServiceRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(ServiceRequestAdded{Request: *r})
	s.logActivity(r.StudentName, "Requested "+r.ServiceType, hub.KindService)
	return r, nil
}

func (s *Store) UpdateServiceRequest(ctx context.Context, id string, in services.ServiceRequestUpdate) (*models.ServiceRequest, error) {
	r, err := s.backend.UpdateServiceRequest(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(ServiceRequestStatusChanged{Request: *r})
	s.logActivity(s.userName(), fmt.Sprintf("Marked %s request %s", r.ServiceType, r.Status), hub.KindService)
	return r, nil
}

func (s *Store) AddLeaveRequest(ctx context.Context, in services.LeaveInput) (*models.LeaveRequest, error) {
	r, err := s.backend.AddLeaveRequest(ctx, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(LeaveRequestAdded{Request: *r})
	s.logActivity(r.StudentName, fmt.Sprintf("Applied for %d days leave", r.Days), hub.KindLeave)
	return r, nil
}

func (s *Store) UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	r, err := s.backend.UpdateLeaveStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.dispatch(LeaveStatusChanged{Request: *r})
	s.logActivity(s.userName(), fmt.Sprintf("%s leave of %s", r.Status, r.StudentName), hub.KindLeave)
	return r, nil
}

func (s *Store) AddAnnouncement(ctx context.Context, in services.AnnouncementInput) (*models.Announcement, error) {
	a, err := s.backend.AddAnnouncement(ctx, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(AnnouncementAdded{Announcement: *a})
	s.logActivity(s.userName(), "Posted announcement: "+a.Title, hub.KindAnnouncement)
	return a, nil
}

func (s *Store) AddPayment(ctx context.Context, in services.PaymentInput) (*models.Payment, error) {
	p, err := s.backend.AddPayment(ctx, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(PaymentAdded{Payment: *p})
	s.logActivity(s.userName(), fmt.Sprintf("Added fee %s for %s", p.Title, p.StudentName), hub.KindPayment)
	return p, nil
}

func (s *Store) PayBill(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.backend.PayBill(ctx, id)
	if err != nil {
		return nil, err
	}
	s.dispatch(PaymentUpdated{Payment: *p})
	s.logActivity(p.StudentName, fmt.Sprintf("Paid %s (%s)", p.Title, utils.FormatAmount(p.Amount)), hub.KindPayment)
	return p, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error) {
	p, err := s.backend.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.dispatch(PaymentUpdated{Payment: *p})
	s.logActivity(s.userName(), fmt.Sprintf("Marked payment %q %s", p.Title, p.Status), hub.KindPayment)
	return p, nil
}

func (s *Store) AddUser(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	u, err := s.backend.AddUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.dispatch(UserAdded{User: *u})
	s.logActivity(s.userName(), "Created user account: "+u.Name, hub.KindUser)
	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.backend.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.dispatch(UserDeleted{ID: id})
	s.logActivity(s.userName(), "Deleted a user and their data", hub.KindUser)
	return nil
}

func (s *Store) snapshot() dashboard.Snapshot {
	st := s.State()
	return dashboard.Snapshot{
		Users:           st.Users,
		Complaints:      st.Complaints,
		ServiceRequests: st.ServiceRequests,
		LeaveRequests:   st.LeaveRequests,
		Payments:        st.Payments,
		Announcements:   st.Announcements,
	}
}

// AdminStats computes the admin dashboard from local state.
func (s *Store) AdminStats(capacity int) dashboard.AdminStats {
	return dashboard.AdminOverview(s.snapshot(), capacity)
}

// StudentOverview computes the signed-in student's dashboard from local state.
func (s *Store) StudentOverview() (dashboard.StudentStats, error) {
	user := s.State().CurrentUser
	if user == nil {
		return dashboard.StudentStats{}, ErrNotLoggedIn
	}
	return dashboard.StudentOverview(s.snapshot(), user.ID), nil
}
