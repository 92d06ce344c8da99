package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentOverdue PaymentStatus = "Overdue"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// Payment is a fee owed by one student.
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title         string        `json:"title" gorm:"type:varchar(255);not null"`
	Amount        float64       `json:"amount" gorm:"not null"`
	DueDate       time.Time     `json:"dueDate" gorm:"not null;index"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(10);not null;default:'Pending'"`
	PaidOn        *time.Time    `json:"paidOn,omitempty"`
	TransactionID string        `json:"transactionId,omitempty" gorm:"type:varchar(64)"`
	StudentID     string        `json:"student" gorm:"type:varchar(36);not null;index"`
	StudentName   string        `json:"studentName" gorm:"type:varchar(255)"`
	Room          string        `json:"room" gorm:"type:varchar(50)"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Outstanding reports whether the payment still counts towards dues.
func (p Payment) Outstanding() bool {
	return p.Status == PaymentPending || p.Status == PaymentOverdue
}
