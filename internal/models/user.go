package models

import (
	"time"
)

// User is a registered field account. Phone is the identity key.
type User struct {
	ID        uint       `json:"-" gorm:"primaryKey"`
	Phone     string     `json:"phone" gorm:"size:15;uniqueIndex;not null"`
	Name      string     `json:"name" gorm:"not null"`
	Role      Role       `json:"role" gorm:"size:20;not null"`
	IsActive  bool       `json:"isActive" gorm:"not null"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UserRegistration is the admin-supplied payload for a new account
type UserRegistration struct {
	Phone string `json:"phone" validate:"required,phone"`
	Name  string `json:"name" validate:"required,max=120"`
	Role  string `json:"role" validate:"omitempty,oneof=ENUMERATOR ADMIN"`
}
