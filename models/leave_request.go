package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StartDate      time.Time   `json:"startDate" gorm:"not null"`
	EndDate        time.Time   `json:"endDate" gorm:"not null"`
	Days           int         `json:"days" gorm:"not null"`
	Reason         string      `json:"reason" gorm:"type:text;not null"`
	Status         LeaveStatus `json:"status" gorm:"type:varchar(10);not null;default:'Pending'"`
	StudentID      string      `json:"student" gorm:"type:varchar(36);index"`
	StudentName    string      `json:"studentName" gorm:"type:varchar(255)"`
	Room           string      `json:"room" gorm:"type:varchar(50)"`
	SubmissionDate time.Time   `json:"submissionDate" gorm:"index"`
}

func (l *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LeaveDays returns the number of whole days between start and end, rounded
// up, regardless of their order. The result is never below 1.
func LeaveDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
