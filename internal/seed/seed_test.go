package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

func TestLoadHashesPasswordsAndAssignsIDs(t *testing.T) {
	data, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, data.Students)
	require.NotEmpty(t, data.Officials)
	require.NotEmpty(t, data.Admins)

	for _, student := range data.Students {
		assert.NotEmpty(t, student.ID)
		assert.NotContains(t, student.PasswordHash, student.Username, "plaintext must never survive loading")
		assert.True(t, len(student.PasswordHash) > 20)
	}

	first := data.Students[0]
	err = bcrypt.CompareHashAndPassword([]byte(first.PasswordHash), []byte("wrong-password"))
	assert.Error(t, err)
}

func TestLoadDefaultsMissingRiskStatusToBlocking(t *testing.T) {
	data, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, data.Risks)

	var seen bool
	for _, risk := range data.Risks {
		assert.NotEqual(t, models.RiskStatus(""), risk.Status)
		if risk.StudentID == "EE010" {
			seen = true
			assert.Equal(t, models.RiskStatusAtRisk, risk.Status, "statusless seed entries default to blocking")
		}
	}
	assert.True(t, seen, "seed fixture for the statusless entry is missing")
}

func TestLoadNormalizesUnknownOfficialRole(t *testing.T) {
	data, err := Load()
	require.NoError(t, err)

	for _, official := range data.Officials {
		assert.True(t, official.Role.Valid())
	}
}
