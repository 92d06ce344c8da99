package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
)

type LeaveInput struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Reason    string    `json:"reason" validate:"required"`
	Student   string    `json:"student"`
}

type LeaveService struct {
	store  store.Store
	owners *owners
	hub    *hub.Hub
}

func (s *LeaveService) List(ctx context.Context, actor Actor) ([]models.LeaveRequest, error) {
	return s.store.ListLeaveRequests(ctx, actor.scope())
}

// Create ignores any client-side day count; days always come from the dates.
func (s *LeaveService) Create(ctx context.Context, actor Actor, in LeaveInput) (*models.LeaveRequest, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := check(in); err != nil {
		return nil, err
	}
	owner, err := s.owners.resolve(ctx, actor, in.Student, true)
	if err != nil {
		return nil, err
	}

	l := &models.LeaveRequest{
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Days:           models.LeaveDays(in.StartDate, in.EndDate),
		Reason:         in.Reason,
		Status:         models.LeavePending,
		StudentID:      owner.ID,
		StudentName:    owner.Name,
		Room:           owner.Room,
		SubmissionDate: now(),
	}
	if err := s.store.CreateLeaveRequest(ctx, l); err != nil {
		return nil, fmt.Errorf("create leave request: %w", err)
	}
	s.hub.Publish(l.StudentName, fmt.Sprintf("Applied for %d day leave", l.Days), hub.KindLeave)
	return l, nil
}

func (s *LeaveService) UpdateStatus(ctx context.Context, actor Actor, id string, status models.LeaveStatus) (*models.LeaveRequest, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status must be Pending, Approved or Rejected")
	}
	l, err := s.store.UpdateLeaveStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(l.StudentName, "Leave request "+strings.ToLower(string(status)), hub.KindLeave)
	return l, nil
}
