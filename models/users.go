package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type UserStatus string

const (
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

// User is both an account and, for Role=User, a hostel resident.
type User struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string     `json:"name" gorm:"type:varchar(255);not null"`
	Email     string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string     `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role       `json:"role" gorm:"type:varchar(10);not null;default:'User'"`
	Room      string     `json:"room,omitempty" gorm:"type:varchar(50)"`
	Contact   string     `json:"contact,omitempty" gorm:"type:varchar(50)"`
	IsStudent bool       `json:"isStudent"`
	JoinDate  time.Time  `json:"joinDate"`
	Status    UserStatus `json:"status" gorm:"type:varchar(10);not null;default:'Active'"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Profile is the public projection returned with a token.
type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Room    string `json:"room,omitempty"`
	Contact string `json:"contact,omitempty"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		Room:    u.Room,
		Contact: u.Contact,
	}
}
