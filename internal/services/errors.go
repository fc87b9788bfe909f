package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountInactive     = errors.New("account inactive")
	ErrUserNotFound        = errors.New("user not found")
	ErrOTPNotFound         = errors.New("no otp found")
	ErrOTPExpired          = errors.New("otp expired")
	ErrOTPAttemptsExceeded = errors.New("too many failed otp attempts")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrOccupationNotFound  = errors.New("occupation not found")
	ErrSynonymNotFound     = errors.New("synonym not found")
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrSMSNotConfigured    = errors.New("sms provider not configured")
)

// InvalidOTPError is a wrong guess that still leaves attempts remaining
type InvalidOTPError struct {
	Attempt     int
	MaxAttempts int
}

func (e *InvalidOTPError) Error() string {
	return fmt.Sprintf("invalid otp, attempt %d/%d", e.Attempt, e.MaxAttempts)
}

// DeliveryError is a messaging provider failure. Message is safe to show
// to the caller.
type DeliveryError struct {
	Provider string
	Code     int
	Message  string
	Err      error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s delivery failed (code %d): %v", e.Provider, e.Code, e.Err)
	}
	return fmt.Sprintf("%s delivery failed (code %d)", e.Provider, e.Code)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
