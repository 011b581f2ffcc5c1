// Package notification persists the notifier's delivery log.
package notification

import (
	"context"
	"sync"

	"darum/internal/notification/models"
)

// Store records notifications and their delivery outcomes.
type Store interface {
	Save(ctx context.Context, n models.Notification) error
	ListByRecipient(ctx context.Context, email string) ([]models.Notification, error)
}

// InMemoryStore keeps the delivery log in memory.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []models.Notification
}

// NewInMemory builds an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Save(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, n)
	return nil
}

func (s *InMemoryStore) ListByRecipient(_ context.Context, email string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Notification
	for _, n := range s.rows {
		if n.Recipient == email {
			out = append(out, n)
		}
	}
	return out, nil
}
