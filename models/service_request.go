package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceStatus string

const (
	ServicePending    ServiceStatus = "Pending"
	ServiceApproved   ServiceStatus = "Approved"
	ServiceInProgress ServiceStatus = "In-progress"
	ServiceCompleted  ServiceStatus = "Completed"
	ServiceRejected   ServiceStatus = "Rejected"
)

func (s ServiceStatus) Valid() bool {
	switch s {
	case ServicePending, ServiceApproved, ServiceInProgress, ServiceCompleted, ServiceRejected:
		return true
	}
	return false
}

type ServiceRequest struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ServiceType   string        `json:"serviceType" gorm:"type:varchar(100);not null"`
	Description   string        `json:"description" gorm:"type:text;not null"`
	Status        ServiceStatus `json:"status" gorm:"type:varchar(15);not null;default:'Pending'"`
	StudentID     string        `json:"student" gorm:"type:varchar(36);index"`
	StudentName   string        `json:"studentName" gorm:"type:varchar(255)"`
	Room          string        `json:"room" gorm:"type:varchar(50)"`
	RequestedDate time.Time     `json:"requestedDate" gorm:"index"`
	ScheduledDate *time.Time    `json:"scheduledDate,omitempty"`
}

func (s *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
