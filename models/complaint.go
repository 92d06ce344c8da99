package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "Pending"
	ComplaintInProgress ComplaintStatus = "In-progress"
	ComplaintResolved   ComplaintStatus = "Resolved"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved:
		return true
	}
	return false
}

type Complaint struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string          `json:"title" gorm:"type:varchar(255);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Priority    Priority        `json:"priority" gorm:"type:varchar(10);not null;default:'Medium'"`
	Status      ComplaintStatus `json:"status" gorm:"type:varchar(15);not null;default:'Pending'"`
	Category    string          `json:"category" gorm:"type:varchar(100);not null"`
	StudentID   string          `json:"student" gorm:"type:varchar(36);index"`
	StudentName string          `json:"studentName" gorm:"type:varchar(255);not null"`
	Room        string          `json:"room" gorm:"type:varchar(50);not null"`
	Date        time.Time       `json:"date" gorm:"index"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
