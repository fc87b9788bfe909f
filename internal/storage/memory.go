package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ananth-NQI/nco-search-backend/internal/models"
)

// MemoryStore holds all data in memory. It is the degraded fallback used when
// no database is reachable and is not shared between instances.
type MemoryStore struct {
	users    map[string]*models.User
	synonyms map[uint]*models.Synonym
	audit    []*models.AuditEntry
	saved    map[string]*models.SavedSearch

	// Mutexes for thread safety
	userMu    sync.RWMutex
	synonymMu sync.RWMutex
	auditMu   sync.RWMutex
	savedMu   sync.RWMutex

	// Counters for ID generation
	userCounter    uint
	synonymCounter uint
	auditCounter   uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		synonyms: make(map[uint]*models.Synonym),
		saved:    make(map[string]*models.SavedSearch),
	}
}

func (m *MemoryStore) Kind() string { return "memory" }

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// User operations
func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[user.Phone]; exists {
		return ErrDuplicate
	}

	m.userCounter++
	now := time.Now()
	user.ID = m.userCounter
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	m.users[user.Phone] = &stored
	return nil
}

func (m *MemoryStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[phone]
	if !exists {
		return nil, ErrNotFound
	}
	out := *user
	return &out, nil
}

func (m *MemoryStore) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	var users []*models.User
	for _, user := range m.users {
		if user.IsActive {
			out := *user
			users = append(users, &out)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MemoryStore) ToggleUserActive(ctx context.Context, phone string) (bool, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	user, exists := m.users[phone]
	if !exists {
		return false, ErrNotFound
	}
	user.IsActive = !user.IsActive
	user.UpdatedAt = time.Now()
	return user.IsActive, nil
}

func (m *MemoryStore) UpdateLastLogin(ctx context.Context, phone string, at time.Time) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	user, exists := m.users[phone]
	if !exists {
		return ErrNotFound
	}
	user.LastLogin = &at
	user.UpdatedAt = at
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, phone string) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[phone]; !exists {
		return ErrNotFound
	}
	delete(m.users, phone)
	return nil
}

// Synonym operations
func (m *MemoryStore) CreateSynonym(ctx context.Context, synonym *models.Synonym) error {
	m.synonymMu.Lock()
	defer m.synonymMu.Unlock()

	m.synonymCounter++
	synonym.ID = m.synonymCounter
	if synonym.CreatedAt.IsZero() {
		synonym.CreatedAt = time.Now()
	}
	stored := *synonym
	m.synonyms[synonym.ID] = &stored
	return nil
}

func (m *MemoryStore) ListSynonyms(ctx context.Context) ([]*models.Synonym, error) {
	m.synonymMu.RLock()
	defer m.synonymMu.RUnlock()

	synonyms := make([]*models.Synonym, 0, len(m.synonyms))
	for _, s := range m.synonyms {
		out := *s
		synonyms = append(synonyms, &out)
	}
	sort.Slice(synonyms, func(i, j int) bool { return synonyms[i].ID < synonyms[j].ID })
	return synonyms, nil
}

func (m *MemoryStore) DeleteSynonym(ctx context.Context, id uint) (*models.Synonym, error) {
	m.synonymMu.Lock()
	defer m.synonymMu.Unlock()

	synonym, exists := m.synonyms[id]
	if !exists {
		return nil, ErrNotFound
	}
	delete(m.synonyms, id)
	return synonym, nil
}

// Audit operations
func (m *MemoryStore) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	m.auditMu.Lock()
	defer m.auditMu.Unlock()

	m.auditCounter++
	entry.ID = m.auditCounter
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	stored := *entry
	m.audit = append(m.audit, &stored)
	return nil
}

func (m *MemoryStore) ListAudit(ctx context.Context, action models.AuditAction) ([]*models.AuditEntry, error) {
	m.auditMu.RLock()
	defer m.auditMu.RUnlock()

	entries := make([]*models.AuditEntry, 0, len(m.audit))
	for i := len(m.audit) - 1; i >= 0; i-- {
		entry := m.audit[i]
		if action != "" && entry.Action != action {
			continue
		}
		out := *entry
		entries = append(entries, &out)
	}
	return entries, nil
}

// Saved search operations
func (m *MemoryStore) CreateSavedSearch(ctx context.Context, search *models.SavedSearch) error {
	m.savedMu.Lock()
	defer m.savedMu.Unlock()

	if _, exists := m.saved[search.ID]; exists {
		return ErrDuplicate
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now()
	}
	stored := *search
	m.saved[search.ID] = &stored
	return nil
}

func (m *MemoryStore) ListSavedSearches(ctx context.Context, phone string) ([]*models.SavedSearch, error) {
	m.savedMu.RLock()
	defer m.savedMu.RUnlock()

	var searches []*models.SavedSearch
	for _, s := range m.saved {
		if s.Phone == phone {
			out := *s
			searches = append(searches, &out)
		}
	}
	sort.Slice(searches, func(i, j int) bool {
		return searches[i].CreatedAt.After(searches[j].CreatedAt)
	})
	return searches, nil
}

func (m *MemoryStore) DeleteSavedSearch(ctx context.Context, phone, id string) error {
	m.savedMu.Lock()
	defer m.savedMu.Unlock()

	s, exists := m.saved[id]
	if !exists || s.Phone != phone {
		return ErrNotFound
	}
	delete(m.saved, id)
	return nil
}
