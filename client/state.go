package client

import (
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
)

// State is everything the client knows. Treat it as immutable: Reduce
// returns a new State and never writes through the old one's slices.
type State struct {
	CurrentUser     *models.Profile
	Users           []models.User
	Complaints      []models.Complaint
	ServiceRequests []models.ServiceRequest
	LeaveRequests   []models.LeaveRequest
	Payments        []models.Payment
	Announcements   []models.Announcement
	RecentActivity  []hub.Activity
}

func (s State) LoggedIn() bool { return s.CurrentUser != nil }

// Action is an event Reduce knows how to apply.
type Action interface{ action() }

type LoggedIn struct{ User models.Profile }
type LoggedOut struct{}

// Loaded replaces every collection with a fresh fetch.
type Loaded struct {
	Users           []models.User
	Complaints      []models.Complaint
	ServiceRequests []models.ServiceRequest
	LeaveRequests   []models.LeaveRequest
	Payments        []models.Payment
	Announcements   []models.Announcement
}

type ComplaintAdded struct{ Complaint models.Complaint }
type ComplaintStatusChanged struct{ Complaint models.Complaint }
type ServiceRequestAdded struct{ Request models.ServiceRequest }
type ServiceRequestStatusChanged struct{ Request models.ServiceRequest }
type LeaveRequestAdded struct{ Request models.LeaveRequest }
type LeaveStatusChanged struct{ Request models.LeaveRequest }
type AnnouncementAdded struct{ Announcement models.Announcement }
type PaymentAdded struct{ Payment models.Payment }
type PaymentUpdated struct{ Payment models.Payment }
type UserAdded struct{ User models.User }

// UserDeleted drops the user and every record they owned.
type UserDeleted struct{ ID string }

type ActivityLogged struct{ Activity hub.Activity }

func (LoggedIn) action()                    {}
func (LoggedOut) action()                   {}
func (Loaded) action()                      {}
func (ComplaintAdded) action()              {}
func (ComplaintStatusChanged) action()      {}
func (ServiceRequestAdded) action()         {}
func (ServiceRequestStatusChanged) action() {}
func (LeaveRequestAdded) action()           {}
func (LeaveStatusChanged) action()          {}
func (AnnouncementAdded) action()           {}
func (PaymentAdded) action()                {}
func (PaymentUpdated) action()              {}
func (UserAdded) action()                   {}
func (UserDeleted) action()                 {}
func (ActivityLogged) action()              {}

// Reduce applies a to s. New records land where the API would list them:
// first for newest-first lists, and at their due date for payments.
// Unknown actions leave s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoggedIn:
		user := a.User
		return State{CurrentUser: &user}
	case LoggedOut:
		return State{}
	case Loaded:
		s.Users = a.Users
		s.Complaints = a.Complaints
		s.ServiceRequests = a.ServiceRequests
		s.LeaveRequests = a.LeaveRequests
		s.Payments = a.Payments
		s.Announcements = a.Announcements
	case ComplaintAdded:
		s.Complaints = prepend(a.Complaint, s.Complaints)
	case ComplaintStatusChanged:
		s.Complaints = replace(s.Complaints, a.Complaint, func(c models.Complaint) string { return c.ID })
	case ServiceRequestAdded:
		s.ServiceRequests = prepend(a.Request, s.ServiceRequests)
	case ServiceRequestStatusChanged:
		s.ServiceRequests = replace(s.ServiceRequests, a.Request, func(r models.ServiceRequest) string { return r.ID })
	case LeaveRequestAdded:
		s.LeaveRequests = prepend(a.Request, s.LeaveRequests)
	case LeaveStatusChanged:
		s.LeaveRequests = replace(s.LeaveRequests, a.Request, func(r models.LeaveRequest) string { return r.ID })
	case AnnouncementAdded:
		s.Announcements = prepend(a.Announcement, s.Announcements)
	case PaymentAdded:
		s.Payments = insertByDueDate(s.Payments, a.Payment)
	case PaymentUpdated:
		s.Payments = replace(s.Payments, a.Payment, func(p models.Payment) string { return p.ID })
	case UserAdded:
		s.Users = prepend(a.User, s.Users)
	case UserDeleted:
		s.Users = remove(s.Users, func(u models.User) bool { return u.ID == a.ID })
		s.Complaints = remove(s.Complaints, func(c models.Complaint) bool { return c.StudentID == a.ID })
		s.ServiceRequests = remove(s.ServiceRequests, func(r models.ServiceRequest) bool { return r.StudentID == a.ID })
		s.LeaveRequests = remove(s.LeaveRequests, func(r models.LeaveRequest) bool { return r.StudentID == a.ID })
		s.Payments = remove(s.Payments, func(p models.Payment) bool { return p.StudentID == a.ID })
	case ActivityLogged:
		s.RecentActivity = prepend(a.Activity, s.RecentActivity)
		if len(s.RecentActivity) > hub.DefaultHistory {
			s.RecentActivity = s.RecentActivity[:hub.DefaultHistory]
		}
	}
	return s
}

func prepend[T any](item T, list []T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

func insertByDueDate(list []models.Payment, p models.Payment) []models.Payment {
	i := 0
	for i < len(list) && !list[i].DueDate.After(p.DueDate) {
		i++
	}
	out := make([]models.Payment, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, p)
	return append(out, list[i:]...)
}

func replace[T any](list []T, item T, id func(T) string) []T {
	out := make([]T, len(list))
	copy(out, list)
	for i := range out {
		if id(out[i]) == id(item) {
			out[i] = item
		}
	}
	return out
}

func remove[T any](list []T, drop func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, item := range list {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}
