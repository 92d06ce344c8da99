package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/hostel-app/hub"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/store"
)

type AnnouncementInput struct {
	Title    string                  `json:"title" validate:"required"`
	Content  string                  `json:"content" validate:"required"`
	Type     models.AnnouncementType `json:"type"`
	IsPinned bool                    `json:"isPinned"`
}

type AnnouncementService struct {
	store store.Store
	hub   *hub.Hub
}

// List is the same for every role.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	return s.store.ListAnnouncements(ctx)
}

func (s *AnnouncementService) Create(ctx context.Context, actor Actor, in AnnouncementInput) (*models.Announcement, error) {
	if err := actor.requireAdmin(); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = models.AnnouncementGeneral
	}
	if !in.Type.Valid() {
		return nil, invalid("type must be urgent, general or event")
	}

	a := &models.Announcement{
		Title:    in.Title,
		Content:  in.Content,
		Type:     in.Type,
		IsPinned: in.IsPinned,
		Date:     now(),
	}
	if err := s.store.CreateAnnouncement(ctx, a); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	s.hub.Publish("Admin", "Posted: "+a.Title, hub.KindAnnouncement)
	s.hub.BroadcastAnnouncement(a)
	return a, nil
}
