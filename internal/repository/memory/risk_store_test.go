package memory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

func TestRiskStoreNormalizesStatuslessSeedEntries(t *testing.T) {
	store := NewRiskStore([]models.RiskEntry{
		{ID: "r1", StudentID: "EE010", CaseDescription: "Outstanding tuition balance"},
	})

	active, err := store.FindActiveByStudentID(context.Background(), "ee010")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, models.RiskStatusAtRisk, active[0].Status)
}

func TestRiskStoreFindActiveTrimsAndIgnoresCase(t *testing.T) {
	store := NewRiskStore([]models.RiskEntry{
		{ID: "r1", StudentID: " CS003 ", Status: models.RiskStatusAtRisk},
		{ID: "r2", StudentID: "CS003", Status: models.RiskStatusResolved},
	})

	active, err := store.FindActiveByStudentID(context.Background(), "cs003")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "r1", active[0].ID)
}

func TestRiskStoreDeleteUnknownID(t *testing.T) {
	store := NewRiskStore(nil)
	err := store.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRiskStoreListFiltersByStatusAndSearch(t *testing.T) {
	now := time.Now().UTC()
	store := NewRiskStore([]models.RiskEntry{
		{ID: "r1", StudentID: "CS003", StudentName: "Mulu", CaseDescription: "Unpaid library fine", Status: models.RiskStatusAtRisk, CreatedAt: now},
		{ID: "r2", StudentID: "EE010", StudentName: "Dawit", CaseDescription: "Tuition", Status: models.RiskStatusResolved, CreatedAt: now},
	})

	resolved := models.RiskStatusResolved
	entries, total, err := store.List(context.Background(), models.RiskFilter{Status: &resolved})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "r2", entries[0].ID)

	entries, total, err = store.List(context.Background(), models.RiskFilter{Search: "library"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "r1", entries[0].ID)
}

func TestRiskStoreCountActiveTreatsEmptyStatusAsBlocking(t *testing.T) {
	store := NewRiskStore([]models.RiskEntry{
		{ID: "r1", StudentID: "CS003", Status: models.RiskStatusAtRisk},
		{ID: "r2", StudentID: "EE010"},
		{ID: "r3", StudentID: "ME021", Status: models.RiskStatusResolved},
	})

	count, err := store.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
