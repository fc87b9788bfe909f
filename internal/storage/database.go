package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

// DatabaseStore persists records through gorm (PostgreSQL or SQLite)
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore wraps an already migrated connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (d *DatabaseStore) Kind() string { return d.db.Dialector.Name() }

func (d *DatabaseStore) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm sentinel errors onto storage errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// User operations
func (d *DatabaseStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(d.db.WithContext(ctx).Create(user).Error)
}

func (d *DatabaseStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (d *DatabaseStore) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&users).Error
	return users, translate(err)
}

// ToggleUserActive flips the flag in a single UPDATE so concurrent toggles
// never lose a write.
func (d *DatabaseStore) ToggleUserActive(ctx context.Context, phone string) (bool, error) {
	var active bool
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("phone = ?", phone).
			Updates(map[string]interface{}{
				"is_active":  gorm.Expr("NOT is_active"),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var user models.User
		if err := tx.Select("is_active").Where("phone = ?", phone).First(&user).Error; err != nil {
			return err
		}
		active = user.IsActive
		return nil
	})
	return active, translate(err)
}

func (d *DatabaseStore) UpdateLastLogin(ctx context.Context, phone string, at time.Time) error {
	res := d.db.WithContext(ctx).Model(&models.User{}).
		Where("phone = ?", phone).
		Updates(map[string]interface{}{"last_login": at, "updated_at": at})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DatabaseStore) DeleteUser(ctx context.Context, phone string) error {
	res := d.db.WithContext(ctx).Where("phone = ?", phone).Delete(&models.User{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Synonym operations
func (d *DatabaseStore) CreateSynonym(ctx context.Context, synonym *models.Synonym) error {
	return translate(d.db.WithContext(ctx).Create(synonym).Error)
}

func (d *DatabaseStore) ListSynonyms(ctx context.Context) ([]*models.Synonym, error) {
	var synonyms []*models.Synonym
	err := d.db.WithContext(ctx).Order("id ASC").Find(&synonyms).Error
	return synonyms, translate(err)
}

func (d *DatabaseStore) DeleteSynonym(ctx context.Context, id uint) (*models.Synonym, error) {
	var synonym models.Synonym
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&synonym, id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Synonym{}, id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &synonym, nil
}

// Audit operations
func (d *DatabaseStore) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return translate(d.db.WithContext(ctx).Create(entry).Error)
}

func (d *DatabaseStore) ListAudit(ctx context.Context, action models.AuditAction) ([]*models.AuditEntry, error) {
	q := d.db.WithContext(ctx).Order("id DESC")
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var entries []*models.AuditEntry
	err := q.Find(&entries).Error
	return entries, translate(err)
}

// Saved search operations
func (d *DatabaseStore) CreateSavedSearch(ctx context.Context, search *models.SavedSearch) error {
	return translate(d.db.WithContext(ctx).Create(search).Error)
}

func (d *DatabaseStore) ListSavedSearches(ctx context.Context, phone string) ([]*models.SavedSearch, error) {
	var searches []*models.SavedSearch
	err := d.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at DESC").
		Find(&searches).Error
	return searches, translate(err)
}

func (d *DatabaseStore) DeleteSavedSearch(ctx context.Context, phone, id string) error {
	res := d.db.WithContext(ctx).
		Where("id = ? AND phone = ?", id, phone).
		Delete(&models.SavedSearch{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
