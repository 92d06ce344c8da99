// Package services holds the hostel's business rules. The HTTP controllers and
// the client's local backend both go through it, so every rule lives once.
package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("not authorized, token failed")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("you are not allowed to do that")
	ErrAlreadyPaid        = errors.New("payment is already paid")
	ErrNotPaid            = errors.New("payment has not been paid yet")
)

// ValidationError is a client mistake in a request payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// check runs the struct's validate tags and reports the first failure.
func check(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("invalid request: %v", err)
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return invalid("%s is required", fe.Field())
	case "email":
		return invalid("%s must be a valid email address", fe.Field())
	case "min":
		return invalid("%s must be at least %s characters", fe.Field(), fe.Param())
	case "gt":
		return invalid("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return invalid("%s is invalid", fe.Field())
	}
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// scope limits students to their own records.
func (a Actor) scope() store.Filter {
	if a.IsAdmin() {
		return store.Filter{}
	}
	return store.Filter{StudentID: a.UserID}
}

func (a Actor) requireAdmin() error {
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

type Deps struct {
	Store    store.Store
	Hub      *hub.Hub
	Tokens   *utils.TokenManager
	Revoker  utils.Revoker
	Capacity int
}

// Container wires every service to one store.
type Container struct {
	Store store.Store
	Hub   *hub.Hub

	Auth            *AuthService
	Users           *UserService
	Complaints      *ComplaintService
	ServiceRequests *ServiceRequestService
	Leaves          *LeaveService
	Payments        *PaymentService
	Announcements   *AnnouncementService
	Dashboard       *DashboardService
}

func NewContainer(d Deps) *Container {
	if d.Hub == nil {
		d.Hub = hub.New(hub.DefaultHistory)
	}
	if d.Revoker == nil {
		d.Revoker = utils.NewMemoryRevoker()
	}
	if d.Capacity <= 0 {
		d.Capacity = 50
	}

	own := &owners{store: d.Store}
	auth := &AuthService{store: d.Store, tokens: d.Tokens, revoker: d.Revoker, hub: d.Hub}
	return &Container{
		Store:           d.Store,
		Hub:             d.Hub,
		Auth:            auth,
		Users:           &UserService{store: d.Store, auth: auth, hub: d.Hub},
		Complaints:      &ComplaintService{store: d.Store, owners: own, hub: d.Hub},
		ServiceRequests: &ServiceRequestService{store: d.Store, owners: own, hub: d.Hub},
		Leaves:          &LeaveService{store: d.Store, owners: own, hub: d.Hub},
		Payments:        &PaymentService{store: d.Store, owners: own, hub: d.Hub},
		Announcements:   &AnnouncementService{store: d.Store, hub: d.Hub},
		Dashboard:       &DashboardService{store: d.Store, capacity: d.Capacity},
	}
}

// owners resolves the student a new record belongs to.
type owners struct {
	store store.Store
}

// resolve picks the owning student: students always own what they create,
// admins may name one with requested.
func (o *owners) resolve(ctx context.Context, actor Actor, requested string, required bool) (*models.User, error) {
	id := actor.UserID
	if actor.IsAdmin() {
		id = requested
		if id == "" {
			if required {
				return nil, invalid("student is required")
			}
			return nil, nil
		}
	}
	u, err := o.store.FindUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		if actor.IsAdmin() {
			return nil, invalid("student %s does not exist", id)
		}
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	return u, nil
}
