package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// RiskStore is an in-memory risk registry.
type RiskStore struct {
	mu      sync.RWMutex
	entries map[string]models.RiskEntry
}

// NewRiskStore constructs a store from seeded entries. Entries missing a
// status are normalized to blocking, matching the SQL repository boundary.
func NewRiskStore(entries []models.RiskEntry) *RiskStore {
	store := &RiskStore{entries: make(map[string]models.RiskEntry, len(entries))}
	for _, entry := range entries {
		if entry.Status == "" {
			entry.Status = models.RiskStatusAtRisk
		}
		store.entries[entry.ID] = entry
	}
	return store
}

// List returns entries matching the filter with pagination.
func (s *RiskStore) List(_ context.Context, filter models.RiskFilter) ([]models.RiskEntry, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]models.RiskEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.Department != "" && entry.Department != filter.Department {
			continue
		}
		if filter.Status != nil && entry.Status != *filter.Status {
			continue
		}
		if search != "" && !riskMatches(entry, search) {
			continue
		}
		matched = append(matched, entry)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page, size := clampPage(filter.Page, filter.PageSize)
	return paginate(matched, page, size), total, nil
}

// FindByID fetches an entry by stable identifier.
func (s *RiskStore) FindByID(_ context.Context, id string) (*models.RiskEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &entry, nil
}

// FindActiveByStudentID returns every blocking entry for the student, oldest
// first so the earliest case leads the denial message.
func (s *RiskStore) FindActiveByStudentID(_ context.Context, studentID string) ([]models.RiskEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := strings.ToLower(strings.TrimSpace(studentID))
	var active []models.RiskEntry
	for _, entry := range s.entries {
		if strings.ToLower(strings.TrimSpace(entry.StudentID)) != want {
			continue
		}
		if !entry.Status.Blocking() {
			continue
		}
		active = append(active, entry)
	}
	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })
	return active, nil
}

// HasActiveByStudentID reports whether any blocking entry exists for the student.
func (s *RiskStore) HasActiveByStudentID(ctx context.Context, studentID string) (bool, error) {
	active, err := s.FindActiveByStudentID(ctx, studentID)
	if err != nil {
		return false, err
	}
	return len(active) > 0, nil
}

// Create inserts a new entry, assigning a stable ID when absent.
func (s *RiskStore) Create(_ context.Context, entry *models.RiskEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = models.RiskStatusAtRisk
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	s.entries[entry.ID] = *entry
	return nil
}

// Update modifies an existing entry.
func (s *RiskStore) Update(_ context.Context, entry *models.RiskEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.ID]; !ok {
		return sql.ErrNoRows
	}
	if entry.Status == "" {
		entry.Status = models.RiskStatusAtRisk
	}
	entry.UpdatedAt = time.Now().UTC()
	s.entries[entry.ID] = *entry
	return nil
}

// Delete removes an entry by stable identifier.
func (s *RiskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.entries, id)
	return nil
}

// CountActive returns the number of blocking entries.
func (s *RiskStore) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, entry := range s.entries {
		if entry.Status.Blocking() {
			count++
		}
	}
	return count, nil
}

func riskMatches(entry models.RiskEntry, search string) bool {
	fields := []string{entry.StudentName, entry.StudentID, entry.CaseDescription, entry.AddedByName}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
