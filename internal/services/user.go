package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
	"github.com/Ananth-NQI/nco-search-backend/internal/storage"
	"github.com/Ananth-NQI/nco-search-backend/internal/utils"
)

// DemoAccounts are the offline demo logins. They are only honoured when
// demo login is switched on explicitly.
var DemoAccounts = []models.User{
	{Phone: "9876543210", Name: "Test Enumerator", Role: models.RoleEnumerator, IsActive: true},
	{Phone: "8248805628", Name: "User (Verified)", Role: models.RoleEnumerator, IsActive: true},
}

// SeedUsers are the enumerators inserted by --seed
var SeedUsers = []models.User{
	{Phone: "8925341040", Name: "8925341040 - Enumerator", Role: models.RoleEnumerator, IsActive: true},
	{Phone: "8248805628", Name: "8248805628 - Enumerator", Role: models.RoleEnumerator, IsActive: true},
	{Phone: "8610873826", Name: "8610873826 - Enumerator", Role: models.RoleEnumerator, IsActive: true},
}

// UserService manages the credential store
type UserService struct {
	store  storage.Store
	audit  *AuditService
	logger *zap.Logger
	demo   map[string]models.User
	now    func() time.Time
}

func NewUserService(store storage.Store, audit *AuditService, logger *zap.Logger) *UserService {
	return &UserService{
		store:  store,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// EnableDemoAccounts lets DemoAccounts log in without a credential record
func (s *UserService) EnableDemoAccounts() {
	s.demo = make(map[string]models.User, len(DemoAccounts))
	for _, u := range DemoAccounts {
		s.demo[u.Phone] = u
	}
	s.logger.Warn("Demo accounts enabled", zap.Int("count", len(s.demo)))
}

// Lookup returns the user for phone whether active or not
func (s *UserService) Lookup(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.store.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if demo, ok := s.demo[phone]; ok {
		s.logger.Warn("Demo account login", zap.String("phone", utils.MaskPhone(phone)))
		return &demo, nil
	}
	return nil, ErrAccountNotFound
}

// FindActive is Lookup restricted to active accounts
func (s *UserService) FindActive(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.Lookup(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

// Register creates a new active account. Role defaults to ENUMERATOR.
func (s *UserService) Register(ctx context.Context, actor string, reg models.UserRegistration) (*models.User, error) {
	phone, ok := utils.NormalizePhone(reg.Phone)
	if !ok {
		return nil, ErrInvalidPhone
	}

	role := models.RoleEnumerator
	if reg.Role != "" {
		parsed, ok := models.ParseRole(reg.Role)
		if !ok {
			return nil, ErrInvalidRole
		}
		role = parsed
	}

	user := &models.User{
		Phone:    phone,
		Name:     strings.TrimSpace(reg.Name),
		Role:     role,
		IsActive: true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user created", zap.String("name", user.Name), zap.String("phone", utils.MaskPhone(phone)))
	s.audit.Log(ctx, models.AuditUserCreate, actor, fmt.Sprintf("Registered %s (%s) as %s", user.Name, phone, role))
	return user, nil
}

// ListActive returns every active account
func (s *UserService) ListActive(ctx context.Context) ([]*models.User, error) {
	users, err := s.store.ListActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// ToggleStatus flips the active flag and returns the new value
func (s *UserService) ToggleStatus(ctx context.Context, actor, phone string) (bool, error) {
	active, err := s.store.ToggleUserActive(ctx, phone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("toggle user: %w", err)
	}

	state := "deactivated"
	if active {
		state = "activated"
	}
	s.audit.Log(ctx, models.AuditUserToggle, actor, fmt.Sprintf("User %s %s", phone, state))
	return active, nil
}

// Delete hard-deletes an account
func (s *UserService) Delete(ctx context.Context, actor, phone string) error {
	if err := s.store.DeleteUser(ctx, phone); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.audit.Log(ctx, models.AuditUserDelete, actor, fmt.Sprintf("Deleted user %s", phone))
	return nil
}

// RecordLogin stamps lastLogin. Demo accounts have no record to update.
func (s *UserService) RecordLogin(ctx context.Context, phone string) {
	err := s.store.UpdateLastLogin(ctx, phone, s.now().UTC())
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("Error updating last login", zap.String("phone", utils.MaskPhone(phone)), zap.Error(err))
	}
}

// EnsureAdmins creates an active ADMIN account for every phone that has no
// record yet. Existing records are left alone whatever their role.
func (s *UserService) EnsureAdmins(ctx context.Context, phones []string) (int, error) {
	created := 0
	for _, raw := range phones {
		phone, ok := utils.NormalizePhone(raw)
		if !ok {
			return created, fmt.Errorf("admin phone %q: %w", raw, ErrInvalidPhone)
		}
		user := &models.User{
			Phone:    phone,
			Name:     phone + " - Admin",
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		err := s.store.CreateUser(ctx, user)
		if errors.Is(err, storage.ErrDuplicate) {
			existing, lookupErr := s.store.GetUserByPhone(ctx, phone)
			if lookupErr == nil && existing.Role != models.RoleAdmin {
				s.logger.Warn("Admin phone already registered with another role",
					zap.String("phone", utils.MaskPhone(phone)), zap.String("role", string(existing.Role)))
			}
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create admin %s: %w", utils.MaskPhone(phone), err)
		}
		created++
		s.logger.Info("Admin account created", zap.String("phone", utils.MaskPhone(phone)))
		s.audit.Log(ctx, models.AuditUserCreate, "system", fmt.Sprintf("Registered %s (%s) as %s", user.Name, phone, models.RoleAdmin))
	}
	return created, nil
}

// Seed inserts SeedUsers, skipping phones that already exist
func (s *UserService) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, u := range SeedUsers {
		user := u
		err := s.store.CreateUser(ctx, &user)
		if errors.Is(err, storage.ErrDuplicate) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", u.Phone, err)
		}
		created++
	}
	return created, nil
}
