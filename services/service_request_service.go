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

type ServiceRequestInput struct {
	ServiceType string `json:"serviceType" validate:"required"`
	Description string `json:"description" validate:"required"`
	Student     string `json:"student"`
}

type ServiceRequestUpdate struct {
	Status        models.ServiceStatus `json:"status"`
	ScheduledDate *time.Time           `json:"scheduledDate,omitempty"`
}

type ServiceRequestService struct {
	store  store.Store
	owners *owners
	hub    *hub.Hub
}

func (s *ServiceRequestService) List(ctx context.Context, actor Actor) ([]models.ServiceRequest, error) {
	return s.store.ListServiceRequests(ctx, actor.scope())
}

func (s *ServiceRequestService) Create(ctx context.Context, actor Actor, in ServiceRequestInput) (*models.ServiceRequest, error) {
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	in.Description = strings.TrimSpace(in.Description)
	if err := check(in); err != nil {
		return nil, err
	}
	owner, err := s.owners.resolve(ctx, actor, in.Student, true)
	if err != nil {
		return nil, err
	}

	r := &models.ServiceRequest{
		ServiceType:   in.ServiceType,
		Description:   in.Description,
		Status:        models.ServicePending,
		StudentID:     owner.ID,
		StudentName:   owner.Name,
		Room:          owner.Room,
		RequestedDate: now(),
	}
	if err := s.store.CreateServiceRequest(ctx, r); err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}
	s.hub.Publish(r.StudentName, "Requested "+r.ServiceType, hub.KindService)
	return r, nil
}

func (s *ServiceRequestService) Update(ctx context.Context, actor Actor, id string, in ServiceRequestUpdate) (*models.ServiceRequest, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	if !in.Status.Valid() {
		return nil, invalid("status must be Pending, Approved, In-progress, Completed or Rejected")
	}
	r, err := s.store.UpdateServiceRequest(ctx, id, store.ServicePatch{Status: in.Status, ScheduledDate: in.ScheduledDate})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(r.StudentName, fmt.Sprintf("%s request marked %s", r.ServiceType, in.Status), hub.KindService)
	return r, nil
}
