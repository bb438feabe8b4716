package memory

import (
	"sync"
	"time"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// DecisionStore holds approved clearance decisions just long enough for the
// certificate to be previewed or saved. Decisions are never request history;
// they expire after the configured TTL and are pruned lazily on access.
type DecisionStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	decisions map[string]storedDecision
	now       func() time.Time
}

type storedDecision struct {
	decision models.ClearanceDecision
	expires  time.Time
}

// NewDecisionStore constructs a store with the given retention window.
func NewDecisionStore(ttl time.Duration) *DecisionStore {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &DecisionStore{
		ttl:       ttl,
		decisions: make(map[string]storedDecision),
		now:       time.Now,
	}
}

// Put records an approved decision keyed by its ID.
func (s *DecisionStore) Put(decision models.ClearanceDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	s.decisions[decision.ID] = storedDecision{
		decision: decision,
		expires:  s.now().Add(s.ttl),
	}
}

// Get returns the decision for the ID if it has not expired.
func (s *DecisionStore) Get(id string) (models.ClearanceDecision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prune()
	stored, ok := s.decisions[id]
	if !ok {
		return models.ClearanceDecision{}, false
	}
	return stored.decision, true
}

// prune drops expired decisions. Caller must hold the write lock.
func (s *DecisionStore) prune() {
	now := s.now()
	for id, stored := range s.decisions {
		if now.After(stored.expires) {
			delete(s.decisions, id)
		}
	}
}
