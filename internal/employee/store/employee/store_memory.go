package employee

import (
	"context"
	"sort"
	"strings"
	"sync"

	"darum/internal/employee/models"
	"darum/pkg/platform/sentinel"
)

// InMemoryStore is the map-backed store used by unit tests and local runs.
type InMemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]models.Employee
	byCode     map[string]string
	byIdentity map[string]string
	byEmail    map[string]string
}

// NewInMemory builds an empty in-memory store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byID:       make(map[string]models.Employee),
		byCode:     make(map[string]string),
		byIdentity: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *InMemoryStore) Create(_ context.Context, emp models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCode[emp.Code]; exists {
		return ErrDuplicateCode
	}
	if _, exists := s.byIdentity[emp.IdentityID]; exists {
		return ErrDuplicateIdentity
	}

	s.byID[emp.ID] = emp
	s.byCode[emp.Code] = emp.ID
	s.byIdentity[emp.IdentityID] = emp.ID
	s.byEmail[normalizeEmail(emp.Email)] = emp.ID
	return nil
}

func (s *InMemoryStore) FindByIdentityID(_ context.Context, identityID string) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byIdentity[identityID]
	if !exists {
		return models.Employee{}, sentinel.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryStore) FindByCode(_ context.Context, code string) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byCode[code]
	if !exists {
		return models.Employee{}, sentinel.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[normalizeEmail(email)]
	if !exists {
		return models.Employee{}, sentinel.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *InMemoryStore) Update(_ context.Context, emp models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.byID[emp.ID]
	if !exists {
		return models.Employee{}, sentinel.ErrNotFound
	}

	current.Department = emp.Department
	current.Position = emp.Position
	current.Status = emp.Status
	current.FirstName = emp.FirstName
	current.LastName = emp.LastName
	current.UpdatedAt = emp.UpdatedAt
	s.byID[emp.ID] = current
	return current, nil
}

func (s *InMemoryStore) ListByDepartment(_ context.Context, dept models.Department) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Employee
	for _, emp := range s.byID {
		if emp.Department == dept {
			out = append(out, emp)
		}
	}
	sortByCode(out)
	return out, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Employee, 0, len(s.byID))
	for _, emp := range s.byID {
		out = append(out, emp)
	}
	sortByCode(out)
	return out, nil
}

func sortByCode(emps []models.Employee) {
	sort.Slice(emps, func(i, j int) bool { return emps[i].Code < emps[j].Code })
}
