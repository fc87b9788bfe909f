package storage

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

// MemoryLedger keeps OTP records in process memory. Expiry is checked lazily
// by the verifier and DeleteExpired can be run periodically; no per-record
// timers are held.
type MemoryLedger struct {
	mu      sync.Mutex
	records map[string]*models.OTP
}

// NewMemoryLedger creates an empty in-process ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{records: make(map[string]*models.OTP)}
}

func (l *MemoryLedger) Put(ctx context.Context, otp *models.OTP) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored := *otp
	l.records[otp.Phone] = &stored
	return nil
}

func (l *MemoryLedger) Get(ctx context.Context, phone string) (*models.OTP, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	otp, ok := l.records[phone]
	if !ok {
		return nil, ErrNotFound
	}
	out := *otp
	return &out, nil
}

func (l *MemoryLedger) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	otp, ok := l.records[phone]
	if !ok {
		return 0, ErrNotFound
	}
	otp.Attempts++
	return otp.Attempts, nil
}

func (l *MemoryLedger) Delete(ctx context.Context, phone string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.records, phone)
	return nil
}

func (l *MemoryLedger) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var removed int64
	for phone, otp := range l.records {
		if otp.ExpiresAt.Before(cutoff) {
			delete(l.records, phone)
			removed++
		}
	}
	return removed, nil
}

// DatabaseLedger stores OTP records in the otps table keyed by phone
type DatabaseLedger struct {
	db *gorm.DB
}

// NewDatabaseLedger wraps a migrated connection
func NewDatabaseLedger(db *gorm.DB) *DatabaseLedger {
	return &DatabaseLedger{db: db}
}

func (l *DatabaseLedger) Put(ctx context.Context, otp *models.OTP) error {
	now := time.Now()
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = now
	}
	otp.UpdatedAt = now

	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "attempts", "created_at", "updated_at"}),
	}).Create(otp).Error
	return translate(err)
}

func (l *DatabaseLedger) Get(ctx context.Context, phone string) (*models.OTP, error) {
	var otp models.OTP
	if err := l.db.WithContext(ctx).Where("phone = ?", phone).First(&otp).Error; err != nil {
		return nil, translate(err)
	}
	return &otp, nil
}

func (l *DatabaseLedger) IncrementAttempts(ctx context.Context, phone string) (int, error) {
	var attempts int
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.OTP{}).
			Where("phone = ?", phone).
			UpdateColumn("attempts", gorm.Expr("attempts + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var otp models.OTP
		if err := tx.Select("attempts").Where("phone = ?", phone).First(&otp).Error; err != nil {
			return err
		}
		attempts = otp.Attempts
		return nil
	})
	return attempts, translate(err)
}

func (l *DatabaseLedger) Delete(ctx context.Context, phone string) error {
	return translate(l.db.WithContext(ctx).Where("phone = ?", phone).Delete(&models.OTP{}).Error)
}

func (l *DatabaseLedger) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := l.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&models.OTP{})
	return res.RowsAffected, translate(res.Error)
}
