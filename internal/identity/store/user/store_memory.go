package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"darum/internal/identity/models"
	"darum/pkg/domain"
	"darum/pkg/platform/sentinel"
)

// InMemoryStore is the map-backed store used by unit tests and local runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

// NewInMemory builds an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *InMemoryStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}
	s.byID[user.ID] = user
	s.byEmail[key] = user.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byID[id]
	if !exists {
		return models.User{}, sentinel.ErrNotFound
	}
	return user, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[normalizeEmail(email)]
	if !exists {
		return models.User{}, sentinel.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.byEmail[normalizeEmail(email)]
	return exists, nil
}

func (s *InMemoryStore) UpdateRoles(_ context.Context, id string, roles []domain.Role, updatedAt time.Time) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return models.User{}, sentinel.ErrNotFound
	}
	user.Roles = append([]domain.Role(nil), roles...)
	user.UpdatedAt = updatedAt
	s.byID[id] = user
	return user, nil
}
