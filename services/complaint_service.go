package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
)

type ComplaintInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Priority    models.Priority `json:"priority"`
	Category    string          `json:"category" validate:"required"`
	Student     string          `json:"student"`
}

type ComplaintService struct {
	store  store.Store
	owners *owners
	hub    *hub.Hub
}

func (s *ComplaintService) List(ctx context.Context, actor Actor) ([]models.Complaint, error) {
	return s.store.ListComplaints(ctx, actor.scope())
}

func (s *ComplaintService) Create(ctx context.Context, actor Actor, in ComplaintInput) (*models.Complaint, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, invalid("priority must be High, Medium or Low")
	}

	owner, err := s.owners.resolve(ctx, actor, in.Student, false)
	if err != nil {
		return nil, err
	}

	c := &models.Complaint{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      models.ComplaintPending,
		Category:    in.Category,
		Date:        now(),
	}
	if owner != nil {
		c.StudentID, c.StudentName, c.Room = owner.ID, owner.Name, owner.Room
	} else {
		c.StudentName, c.Room = "Administration", "Office"
	}

	if err := s.store.CreateComplaint(ctx, c); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	s.hub.Publish(c.StudentName, "New complaint: "+c.Title, hub.KindComplaint)
	return c, nil
}

func (s *ComplaintService) UpdateStatus(ctx context.Context, actor Actor, id string, status models.ComplaintStatus) (*models.Complaint, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, invalid("status must be Pending, In-progress or Resolved")
	}
	c, err := s.store.UpdateComplaintStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(c.StudentName, fmt.Sprintf("Complaint %q marked %s", c.Title, status), hub.KindComplaint)
	return c, nil
}
