// Package store is the single data-access layer of the hostel backend. A
// concrete Store is picked at startup: MongoDB in production, or gorm over
// MySQL/SQLite. An in-memory SQLite store doubles as the test fake.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/hostel-app/models"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrConflict reports a conditional update whose precondition no longer holds.
	ErrConflict = errors.New("record changed concurrently")
)

// Collection names a student-owned record set.
type Collection string

const (
	Complaints      Collection = "complaints"
	ServiceRequests Collection = "servicerequests"
	LeaveRequests   Collection = "leaverequests"
	Payments        Collection = "payments"
)

// OwnedCollections lists every collection removed when a student is deleted.
var OwnedCollections = []Collection{Complaints, ServiceRequests, LeaveRequests, Payments}

// Filter narrows list operations. The zero value matches everything.
type Filter struct {
	StudentID string
}

type ServicePatch struct {
	Status        models.ServiceStatus
	ScheduledDate *time.Time
}

type PaymentPatch struct {
	Status        models.PaymentStatus
	PaidOn        *time.Time
	TransactionID string
	// UnlessPaid skips payments that are already Paid and reports ErrConflict.
	UnlessPaid bool
}

type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateComplaint(ctx context.Context, c *models.Complaint) error
	ListComplaints(ctx context.Context, f Filter) ([]models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error)

	CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error
	ListServiceRequests(ctx context.Context, f Filter) ([]models.ServiceRequest, error)
	UpdateServiceRequest(ctx context.Context, id string, p ServicePatch) (*models.ServiceRequest, error)

	CreateLeaveRequest(ctx context.Context, l *models.LeaveRequest) error
	ListLeaveRequests(ctx context.Context, f Filter) ([]models.LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error)

	CreatePayment(ctx context.Context, p *models.Payment) error
	ListPayments(ctx context.Context, f Filter) ([]models.Payment, error)
	FindPaymentByID(ctx context.Context, id string) (*models.Payment, error)
	UpdatePayment(ctx context.Context, id string, p PaymentPatch) (*models.Payment, error)
	// MarkOverduePayments flips Pending payments due before now to Overdue.
	MarkOverduePayments(ctx context.Context, now time.Time) (int64, error)

	CreateAnnouncement(ctx context.Context, a *models.Announcement) error
	ListAnnouncements(ctx context.Context) ([]models.Announcement, error)

	// DeleteByStudent removes every record in c owned by studentID.
	DeleteByStudent(ctx context.Context, c Collection, studentID string) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
