package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

var (
	// ErrNotFound is returned when a keyed record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken
	ErrDuplicate = errors.New("record already exists")
)

// Store defines the interface for the persistent records of the service
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	ListActiveUsers(ctx context.Context) ([]*models.User, error)
	ToggleUserActive(ctx context.Context, phone string) (bool, error)
	UpdateLastLogin(ctx context.Context, phone string, at time.Time) error
	DeleteUser(ctx context.Context, phone string) error

	// Synonym operations
	CreateSynonym(ctx context.Context, synonym *models.Synonym) error
	ListSynonyms(ctx context.Context) ([]*models.Synonym, error)
	DeleteSynonym(ctx context.Context, id uint) (*models.Synonym, error)

	// Audit operations. ListAudit returns the most recent entry first;
	// an empty action returns every entry.
	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
	ListAudit(ctx context.Context, action models.AuditAction) ([]*models.AuditEntry, error)

	// Saved search operations, always scoped to the owning phone
	CreateSavedSearch(ctx context.Context, search *models.SavedSearch) error
	ListSavedSearches(ctx context.Context, phone string) ([]*models.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, phone, id string) error

	// Ping reports whether the backing datastore is reachable
	Ping(ctx context.Context) error
	// Kind names the backend for health output
	Kind() string
}

// OTPLedger holds at most one live OTP record per phone
type OTPLedger interface {
	// Put upserts the record, replacing any unconsumed code for the phone
	Put(ctx context.Context, otp *models.OTP) error
	Get(ctx context.Context, phone string) (*models.OTP, error)
	// IncrementAttempts atomically bumps the failure counter and returns it
	IncrementAttempts(ctx context.Context, phone string) (int, error)
	Delete(ctx context.Context, phone string) error
	// DeleteExpired removes records whose expiry is before cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
