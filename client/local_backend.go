package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

const localSecret = "hostelctl-local"

// LocalBackend runs the services in-process over SQLite. It needs no server
// and is seeded with the demo hostel the first time it opens an empty
// database.
type LocalBackend struct {
	app *services.Container
	db  *store.GormStore

	mu    sync.RWMutex
	token string
}

// NewLocalBackend opens path ("" for an in-memory database).
func NewLocalBackend(ctx context.Context, path string) (*LocalBackend, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := store.OpenGorm("sqlite", path)
	if err != nil {
		return nil, err
	}
	app := services.NewContainer(services.Deps{
		Store:  db,
		Tokens: utils.NewTokenManager(localSecret, 24*time.Hour),
	})

	users, err := db.ListUsers(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if len(users) == 0 {
		if err := services.SeedDemo(ctx, app); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &LocalBackend{app: app, db: db}, nil
}

func (b *LocalBackend) Close() error { return b.db.Close() }

// Container exposes the services behind the backend.
func (b *LocalBackend) Container() *services.Container { return b.app }

func (b *LocalBackend) SetToken(token string) error {
	b.mu.Lock()
	b.token = token
	b.mu.Unlock()
	return nil
}

// current authenticates the held token on every call, so revocation and
// expiry behave as they do over HTTP.
func (b *LocalBackend) current(ctx context.Context) (services.Actor, error) {
	b.mu.RLock()
	token := b.token
	b.mu.RUnlock()
	if token == "" {
		return services.Actor{}, ErrUnauthorized
	}
	actor, err := b.app.Auth.Authenticate(ctx, token)
	return actor, local(err)
}

// local maps service errors onto the errors HTTPBackend would return.
func local(err error) error {
	if errors.Is(err, services.ErrUnauthenticated) || errors.Is(err, services.ErrInvalidCredentials) {
		return ErrUnauthorized
	}
	return err
}

func (b *LocalBackend) Login(ctx context.Context, email, password string) (*services.Session, error) {
	s, err := b.app.Auth.Login(ctx, services.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, local(err)
	}
	return s, nil
}

func (b *LocalBackend) Logout(ctx context.Context) error {
	b.mu.Lock()
	token := b.token
	b.token = ""
	b.mu.Unlock()
	if token == "" {
		return nil
	}
	return local(b.app.Auth.Logout(ctx, token))
}

func (b *LocalBackend) Users(ctx context.Context) ([]models.User, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Users.List(ctx, actor)
	return out, local(err)
}

func (b *LocalBackend) Complaints(ctx context.Context) ([]models.Complaint, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Complaints.List(ctx, actor)
	return out, local(err)
}

func (b *LocalBackend) ServiceRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.ServiceRequests.List(ctx, actor)
	return out, local(err)
}

func (b *LocalBackend) LeaveRequests(ctx context.Context) ([]models.LeaveRequest, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Leaves.List(ctx, actor)
	return out, local(err)
}

func (b *LocalBackend) Payments(ctx context.Context) ([]models.Payment, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Payments.List(ctx, actor)
	return out, local(err)
}

func (b *LocalBackend) Announcements(ctx context.Context) ([]models.Announcement, error) {
	if _, err := b.current(ctx); err != nil {
		return nil, err
	}
	return b.app.Announcements.List(ctx)
}

func (b *LocalBackend) AddComplaint(ctx context.Context, in services.ComplaintInput) (*models.Complaint, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Complaints.Create(ctx, actor, in)
	return out, local(err)
}

func (b *LocalBackend) UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Complaints.UpdateStatus(ctx, actor, id, status)
	return out, local(err)
}

func (b *LocalBackend) AddServiceRequest(ctx context.Context, in services.ServiceRequestInput) (*models.ServiceRequest, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.ServiceRequests.Create(ctx, actor, in)
	return out, local(err)
}

func (b *LocalBackend) UpdateServiceRequest(ctx context.Context, id string, in services.ServiceRequestUpdate) (*models.ServiceRequest, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.ServiceRequests.Update(ctx, actor, id, in)
	return out, local(err)
}

func (b *LocalBackend) AddLeaveRequest(ctx context.Context, in services.LeaveInput) (*models.LeaveRequest, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Leaves.Create(ctx, actor, in)
	return out, local(err)
}

func (b *LocalBackend) UpdateLeaveStatus(ctx context.Context, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Leaves.UpdateStatus(ctx, actor, id, status)
	return out, local(err)
}

func (b *LocalBackend) AddAnnouncement(ctx context.Context, in services.AnnouncementInput) (*models.Announcement, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Announcements.Create(ctx, actor, in)
	return out, local(err)
}

func (b *LocalBackend) AddPayment(ctx context.Context, in services.PaymentInput) (*models.Payment, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Payments.Create(ctx, actor, in)
	return out, local(err)
}

func (b *LocalBackend) PayBill(ctx context.Context, id string) (*models.Payment, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Payments.Pay(ctx, actor, id)
	return out, local(err)
}

func (b *LocalBackend) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Payment, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Payments.UpdateStatus(ctx, actor, id, services.PaymentUpdate{Status: status})
	return out, local(err)
}

func (b *LocalBackend) AddUser(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	actor, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	out, err := b.app.Users.Create(ctx, actor, in)
	return out, local(err)
}

func (b *LocalBackend) DeleteUser(ctx context.Context, id string) error {
	actor, err := b.current(ctx)
	if err != nil {
		return err
	}
	return local(b.app.Users.Delete(ctx, actor, id))
}
