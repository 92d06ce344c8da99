// Package client is the data layer a front end (or hostelctl) uses to talk to
// the hostel API. A Store holds the current State and changes it only through
// Reduce; the Backend behind it is either the REST API or an in-process
// service container.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
)

var (
	// ErrUnauthorized means the backend rejected the session token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRoleMismatch means the credentials are valid but belong to another role.
	ErrRoleMismatch = errors.New("account does not have the requested role")
	ErrNotLoggedIn  = errors.New("not logged in")
)

// APIError is a non-2xx answer carrying the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Backend is every data operation the client needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Logout(ctx context.Context) error
	// SetToken switches the session used by later calls; "" signs out locally.
	SetToken(token string) error

	Users(ctx context.Context) ([]models.User, error)
	Complaints(ctx context.Context) ([]models.Complaint, error)
	ServiceRequests(ctx context.Context) ([]models.ServiceRequest, error)
	LeaveRequests(ctx context.Context) ([]models.LeaveRequest, error)
	Payments(ctx context.Context) ([]models.Payment, error)
	Announcements(ctx context.Context) ([]models.Announcement, error)

	AddComplaint(ctx context.Context, in services.ComplaintInput) (*models.Complaint, error)
	UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error)
	AddServiceRequest(ctx context.Context, in services.ServiceRequestInput) (*models.ServiceRequest, error)
	UpdateServiceRequest(ctx context.Context, id string, in services.ServiceRequestUpdate) (*models.ServiceRequest, error)
	AddLeaveRequest(ctx context.Context, in services.LeaveInput) (*models.LeaveRequest, error)
	UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error)
	AddAnnouncement(ctx context.Context, in services.AnnouncementInput) (*models.Announcement, error)
	AddPayment(ctx context.Context, in services.PaymentInput) (*models.Payment, error)
	PayBill(ctx context.Context, id string) (*models.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error)
	AddUser(ctx context.Context, in services.RegisterInput) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}
