package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

func TestDecisionStorePutAndGet(t *testing.T) {
	store := NewDecisionStore(time.Minute)
	store.Put(models.ClearanceDecision{ID: "d1", Outcome: models.DecisionApproved})

	decision, ok := store.Get("d1")
	require.True(t, ok)
	assert.Equal(t, models.DecisionApproved, decision.Outcome)

	_, ok = store.Get("unknown")
	assert.False(t, ok)
}

func TestDecisionStoreExpiresEntries(t *testing.T) {
	store := NewDecisionStore(time.Minute)
	current := time.Now()
	store.now = func() time.Time { return current }

	store.Put(models.ClearanceDecision{ID: "d1", Outcome: models.DecisionApproved})

	current = current.Add(2 * time.Minute)
	_, ok := store.Get("d1")
	assert.False(t, ok, "expired decisions must be pruned")
}
