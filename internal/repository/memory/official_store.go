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

// OfficialStore is an in-memory staff directory.
type OfficialStore struct {
	mu        sync.RWMutex
	officials map[string]models.OfficialProfile
}

// NewOfficialStore constructs a store from seeded profiles.
func NewOfficialStore(officials []models.OfficialProfile) *OfficialStore {
	store := &OfficialStore{officials: make(map[string]models.OfficialProfile, len(officials))}
	for _, official := range officials {
		store.officials[official.ID] = official
	}
	return store
}

// List returns officials matching the filter with pagination.
func (s *OfficialStore) List(_ context.Context, filter models.OfficialFilter) ([]models.OfficialProfile, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]models.OfficialProfile, 0, len(s.officials))
	for _, official := range s.officials {
		if filter.Department != "" && official.Department != filter.Department {
			continue
		}
		if search != "" && !officialMatches(official, search) {
			continue
		}
		matched = append(matched, official)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].OfficialID < matched[j].OfficialID })

	total := len(matched)
	page, size := clampPage(filter.Page, filter.PageSize)
	return paginate(matched, page, size), total, nil
}

// FindByID fetches an official by stable identifier.
func (s *OfficialStore) FindByID(_ context.Context, id string) (*models.OfficialProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	official, ok := s.officials[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &official, nil
}

// FindByUsername fetches an official login record.
func (s *OfficialStore) FindByUsername(_ context.Context, username string) (*models.OfficialProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, official := range s.officials {
		if official.Username == username {
			found := official
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

// ExistsByUsername checks if the username is taken, optionally excluding an ID.
func (s *OfficialStore) ExistsByUsername(_ context.Context, username string, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, official := range s.officials {
		if official.Username == username && official.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts a new official record.
func (s *OfficialStore) Create(_ context.Context, official *models.OfficialProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if official.ID == "" {
		official.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if official.CreatedAt.IsZero() {
		official.CreatedAt = now
	}
	official.UpdatedAt = now
	s.officials[official.ID] = *official
	return nil
}

// Update modifies an existing official.
func (s *OfficialStore) Update(_ context.Context, official *models.OfficialProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.officials[official.ID]; !ok {
		return sql.ErrNoRows
	}
	official.UpdatedAt = time.Now().UTC()
	s.officials[official.ID] = *official
	return nil
}

// Delete removes an official by stable identifier.
func (s *OfficialStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.officials[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.officials, id)
	return nil
}

// Count returns the total number of officials.
func (s *OfficialStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.officials), nil
}

func officialMatches(official models.OfficialProfile, search string) bool {
	fields := []string{
		official.OfficialID, official.FirstName, official.LastName,
		official.Profession, official.Education, official.Department,
		official.Email, official.Phone, official.Username,
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
