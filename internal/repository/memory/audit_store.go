package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// AuditStore keeps audit trail entries in memory. It exists so the audit
// pipeline stays wired during seed-backed runs; entries are lost on restart.
type AuditStore struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

// NewAuditStore constructs an empty audit store.
func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

// Create appends an audit log entry.
func (s *AuditStore) Create(_ context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Entries returns a snapshot of recorded entries, oldest first.
func (s *AuditStore) Entries() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AuditLog, len(s.entries))
	copy(out, s.entries)
	return out
}
