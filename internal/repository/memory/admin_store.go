package memory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// AdminStore is a read-only in-memory administrator directory.
type AdminStore struct {
	mu     sync.RWMutex
	admins []models.Admin
}

// NewAdminStore constructs a store from seeded accounts.
func NewAdminStore(admins []models.Admin) *AdminStore {
	copied := make([]models.Admin, len(admins))
	copy(copied, admins)
	return &AdminStore{admins: copied}
}

// FindByUsername fetches an administrator login record.
func (s *AdminStore) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.admins {
		if s.admins[i].Username == username {
			admin := s.admins[i]
			return &admin, nil
		}
	}
	return nil, sql.ErrNoRows
}
