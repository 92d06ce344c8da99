package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

type PaymentInput struct {
	Title   string    `json:"title" validate:"required"`
	Amount  float64   `json:"amount" validate:"gt=0"`
	DueDate time.Time `json:"dueDate" validate:"required"`
	Student string    `json:"student" validate:"required"`
}

type PaymentUpdate struct {
	Status        models.PaymentStatus `json:"status"`
	PaidOn        *time.Time           `json:"paidOn,omitempty"`
	TransactionID string               `json:"transactionId,omitempty"`
}

// PaymentService owns the fee lifecycle. Paying settles a fee at once: there
// is no intermediate verification state.
type PaymentService struct {
	store  store.Store
	owners *owners
	hub    *hub.Hub
}

func (s *PaymentService) List(ctx context.Context, actor Actor) ([]models.Payment, error) {
	return s.store.ListPayments(ctx, actor.scope())
}

func (s *PaymentService) Create(ctx context.Context, actor Actor, in PaymentInput) (*models.Payment, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := check(in); err != nil {
		return nil, err
	}
	owner, err := s.owners.resolve(ctx, actor, in.Student, true)
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		Title:       in.Title,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		Status:      models.PaymentPending,
		StudentID:   owner.ID,
		StudentName: owner.Name,
		Room:        owner.Room,
	}
	if err := s.store.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	s.hub.Publish(p.StudentName, fmt.Sprintf("Fee added: %s (%s)", p.Title, utils.FormatAmount(p.Amount)), hub.KindPayment)
	return p, nil
}

// Get returns a payment the actor may see.
func (s *PaymentService) Get(ctx context.Context, actor Actor, id string) (*models.Payment, error) {
	p, err := s.store.FindPaymentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && p.StudentID != actor.UserID {
		return nil, ErrForbidden
	}
	return p, nil
}

// Pay settles a Pending or Overdue payment with a fresh transaction id.
func (s *PaymentService) Pay(ctx context.Context, actor Actor, id string) (*models.Payment, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	paidOn := now()
	updated, err := s.store.UpdatePayment(ctx, id, store.PaymentPatch{
		Status:        models.PaymentPaid,
		PaidOn:        &paidOn,
		TransactionID: "TXN-" + uuid.NewString(),
		UnlessPaid:    true,
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrAlreadyPaid
	}
	if err != nil {
		return nil, err
	}
	s.hub.Publish(updated.StudentName, fmt.Sprintf("Paid %s (%s)", updated.Title, utils.FormatAmount(updated.Amount)), hub.KindPayment)
	return updated, nil
}

// UpdateStatus lets admins set any status. Students may only mark their own
// payment Paid, which is the same as Pay.
func (s *PaymentService) UpdateStatus(ctx context.Context, actor Actor, id string, in PaymentUpdate) (*models.Payment, error) {
	if !in.Status.Valid() {
		return nil, invalid("status must be Pending, Paid or Overdue")
	}
	if !actor.IsAdmin() {
		if in.Status != models.PaymentPaid {
			return nil, ErrForbidden
		}
		return s.Pay(ctx, actor, id)
	}

	patch := store.PaymentPatch{Status: in.Status, PaidOn: in.PaidOn, TransactionID: in.TransactionID}
	if in.Status == models.PaymentPaid {
		if patch.PaidOn == nil {
			t := now()
			patch.PaidOn = &t
		}
		if patch.TransactionID == "" {
			patch.TransactionID = "TXN-" + uuid.NewString()
		}
	}
	p, err := s.store.UpdatePayment(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(p.StudentName, fmt.Sprintf("Payment %q marked %s", p.Title, in.Status), hub.KindPayment)
	return p, nil
}

// Receipt returns a settled payment together with its owner.
func (s *PaymentService) Receipt(ctx context.Context, actor Actor, id string) (*models.Payment, *models.User, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if p.Status != models.PaymentPaid {
		return nil, nil, ErrNotPaid
	}
	owner, err := s.store.FindUserByID(ctx, p.StudentID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, err
	}
	if owner == nil {
		owner = &models.User{ID: p.StudentID, Name: p.StudentName, Room: p.Room}
	}
	return p, owner, nil
}

// MarkOverdue flips every Pending payment due before at to Overdue.
func (s *PaymentService) MarkOverdue(ctx context.Context, at time.Time) (int64, error) {
	n, err := s.store.MarkOverduePayments(ctx, at)
	if err != nil {
		return 0, fmt.Errorf("mark overdue payments: %w", err)
	}
	if n > 0 {
		s.hub.Publish("System", fmt.Sprintf("%d payment(s) became overdue", n), hub.KindPayment)
	}
	return n, nil
}
