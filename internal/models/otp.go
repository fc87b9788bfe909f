package models

import (
	"time"
)

// OTP is the single live passcode for a phone. A new request overwrites it.
type OTP struct {
	Phone     string    `gorm:"primaryKey;size:15"`
	Code      string    `gorm:"size:6;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Attempts  int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies
func (OTP) TableName() string {
	return "otps"
}

// Expired reports whether the code is past its validity window
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
