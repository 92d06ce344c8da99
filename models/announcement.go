package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementType string

const (
	AnnouncementUrgent  AnnouncementType = "urgent"
	AnnouncementGeneral AnnouncementType = "general"
	AnnouncementEvent   AnnouncementType = "event"
)

func (t AnnouncementType) Valid() bool {
	switch t {
	case AnnouncementUrgent, AnnouncementGeneral, AnnouncementEvent:
		return true
	}
	return false
}

type Announcement struct {
	ID       string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title    string           `json:"title" gorm:"type:varchar(255);not null"`
	Content  string           `json:"content" gorm:"type:text;not null"`
	Type     AnnouncementType `json:"type" gorm:"type:varchar(10);not null;default:'general'"`
	IsPinned bool             `json:"isPinned"`
	Date     time.Time        `json:"date" gorm:"index"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
