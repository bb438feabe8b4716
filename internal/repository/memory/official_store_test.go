package memory

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

func seedOfficials() []models.OfficialProfile {
	return []models.OfficialProfile{
		{ID: "off-1", OfficialID: "OFF001", FirstName: "Tigist", LastName: "Mengistu", Department: "Library", Email: "tigist@bdu.edu.et", Username: "tigist.m"},
		{ID: "off-2", OfficialID: "OFF002", FirstName: "Getachew", LastName: "Abate", Department: "Finance", Email: "getachew@bdu.edu.et", Username: "getachew.a"},
	}
}

func TestOfficialStoreSearchSpansEveryField(t *testing.T) {
	store := NewOfficialStore(seedOfficials())

	officials, total, err := store.List(context.Background(), models.OfficialFilter{Search: "finance"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "OFF002", officials[0].OfficialID)

	officials, total, err = store.List(context.Background(), models.OfficialFilter{Search: "tigist@"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "OFF001", officials[0].OfficialID)
}

func TestOfficialStoreExistsByUsernameHonoursExclusion(t *testing.T) {
	store := NewOfficialStore(seedOfficials())

	taken, err := store.ExistsByUsername(context.Background(), "tigist.m", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = store.ExistsByUsername(context.Background(), "tigist.m", "off-1")
	require.NoError(t, err)
	assert.False(t, taken, "an official keeps their own username on update")
}

func TestOfficialStoreDeleteByStableID(t *testing.T) {
	store := NewOfficialStore(seedOfficials())

	require.NoError(t, store.Delete(context.Background(), "off-1"))
	_, err := store.FindByID(context.Background(), "off-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	remaining, total, err := store.List(context.Background(), models.OfficialFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "off-2", remaining[0].ID)
}

func TestStudentStoreFindByStudentIDIgnoresCaseAndSpace(t *testing.T) {
	store := NewStudentStore([]models.StudentProfile{
		{ID: "u1", StudentID: "CS001", Username: "abebe.k"},
	})

	student, err := store.FindByStudentID(context.Background(), "  cs001 ")
	require.NoError(t, err)
	assert.Equal(t, "CS001", student.StudentID)

	_, err = store.FindByStudentID(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
