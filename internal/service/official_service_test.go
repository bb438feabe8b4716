package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type officialRepoStub struct {
	officials map[string]models.OfficialProfile
}

func newOfficialRepoStub(officials ...models.OfficialProfile) *officialRepoStub {
	stub := &officialRepoStub{officials: map[string]models.OfficialProfile{}}
	for _, official := range officials {
		stub.officials[official.ID] = official
	}
	return stub
}

func (s *officialRepoStub) List(_ context.Context, _ models.OfficialFilter) ([]models.OfficialProfile, int, error) {
	var out []models.OfficialProfile
	for _, official := range s.officials {
		out = append(out, official)
	}
	return out, len(out), nil
}

func (s *officialRepoStub) FindByID(_ context.Context, id string) (*models.OfficialProfile, error) {
	if official, ok := s.officials[id]; ok {
		return &official, nil
	}
	return nil, sql.ErrNoRows
}

func (s *officialRepoStub) ExistsByUsername(_ context.Context, username, excludeID string) (bool, error) {
	for _, official := range s.officials {
		if official.Username == username && official.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *officialRepoStub) Create(_ context.Context, official *models.OfficialProfile) error {
	if official.ID == "" {
		official.ID = uuid.NewString()
	}
	s.officials[official.ID] = *official
	return nil
}

func (s *officialRepoStub) Update(_ context.Context, official *models.OfficialProfile) error {
	if _, ok := s.officials[official.ID]; !ok {
		return sql.ErrNoRows
	}
	s.officials[official.ID] = *official
	return nil
}

func (s *officialRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := s.officials[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.officials, id)
	return nil
}

func validOfficialRequest() models.OfficialRequest {
	return models.OfficialRequest{
		OfficialID: "OFF010",
		FirstName:  "Tigist",
		LastName:   "Mengistu",
		Role:       string(models.RoleDepartmentOfficial),
		Department: "Library",
		Email:      "tigist@bdu.edu.et",
		Username:   "tigist.m",
		Password:   "s3cret",
	}
}

func TestOfficialCreateMissingEmailLeavesDirectoryUnchanged(t *testing.T) {
	repo := newOfficialRepoStub()
	svc := NewOfficialService(repo, nil, validator.New(), nil, OfficialConfig{})

	req := validOfficialRequest()
	req.Email = "   "

	_, err := svc.Create(context.Background(), adminClaims(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
	assert.Empty(t, repo.officials, "failed create must not touch the collection")
}

func TestOfficialCreateRejectsMalformedEmail(t *testing.T) {
	svc := NewOfficialService(newOfficialRepoStub(), nil, validator.New(), nil, OfficialConfig{})

	req := validOfficialRequest()
	req.Email = "not-an-email"

	_, err := svc.Create(context.Background(), adminClaims(), req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "email")
}

func TestOfficialCreateHashesPasswordAndEnforcesUniqueUsername(t *testing.T) {
	repo := newOfficialRepoStub()
	svc := NewOfficialService(repo, nil, validator.New(), nil, OfficialConfig{})

	created, err := svc.Create(context.Background(), adminClaims(), validOfficialRequest())
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", created.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret")))

	dup := validOfficialRequest()
	dup.OfficialID = "OFF011"
	_, err = svc.Create(context.Background(), adminClaims(), dup)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestOfficialRequiredFieldsComeFromConfig(t *testing.T) {
	svc := NewOfficialService(newOfficialRepoStub(), nil, validator.New(), nil, OfficialConfig{
		RequiredFields: []string{"officialId", "phone"},
	})

	req := validOfficialRequest()
	req.Email = ""
	req.Phone = ""

	_, err := svc.Create(context.Background(), adminClaims(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "phone")
	assert.NotContains(t, appErr.Fields, "email", "email requirement was not configured")
}

func TestOfficialUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	existing := models.OfficialProfile{
		ID: "off-1", OfficialID: "OFF001", FirstName: "Tigist", LastName: "Mengistu",
		Department: "Library", Email: "tigist@bdu.edu.et", Username: "tigist.m",
		PasswordHash: "$2a$10$existinghash",
	}
	repo := newOfficialRepoStub(existing)
	svc := NewOfficialService(repo, nil, validator.New(), nil, OfficialConfig{})

	req := validOfficialRequest()
	req.Password = ""
	req.Phone = "0911000000"

	updated, err := svc.Update(context.Background(), adminClaims(), "off-1", req)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$existinghash", updated.PasswordHash)
	assert.Equal(t, "0911000000", updated.Phone)
}

func TestOfficialDeleteRequiresConfirmation(t *testing.T) {
	repo := newOfficialRepoStub(models.OfficialProfile{ID: "off-1", Username: "tigist.m"})
	svc := NewOfficialService(repo, nil, validator.New(), nil, OfficialConfig{})

	err := svc.Delete(context.Background(), adminClaims(), "off-1", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfirmationRequired.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.officials, 1)

	require.NoError(t, svc.Delete(context.Background(), adminClaims(), "off-1", true))
	assert.Empty(t, repo.officials)
}
