package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type authStudentStub struct {
	students map[string]models.StudentProfile
}

func (s *authStudentStub) FindByUsername(_ context.Context, username string) (*models.StudentProfile, error) {
	if student, ok := s.students[username]; ok {
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

type authOfficialStub struct {
	officials map[string]models.OfficialProfile
}

func (s *authOfficialStub) FindByUsername(_ context.Context, username string) (*models.OfficialProfile, error) {
	if official, ok := s.officials[username]; ok {
		return &official, nil
	}
	return nil, sql.ErrNoRows
}

type authAdminStub struct {
	admins map[string]models.Admin
}

func (s *authAdminStub) FindByUsername(_ context.Context, username string) (*models.Admin, error) {
	if admin, ok := s.admins[username]; ok {
		return &admin, nil
	}
	return nil, sql.ErrNoRows
}

type authAuditStub struct {
	entries []*models.AuditLog
}

func (s *authAuditStub) Create(_ context.Context, entry *models.AuditLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(t *testing.T, students *authStudentStub, officials *authOfficialStub, admins *authAdminStub, audit *authAuditStub) *AuthService {
	t.Helper()
	if students == nil {
		students = &authStudentStub{}
	}
	if officials == nil {
		officials = &authOfficialStub{}
	}
	if admins == nil {
		admins = &authAdminStub{}
	}
	if audit == nil {
		audit = &authAuditStub{}
	}
	return NewAuthService(students, officials, admins, audit, validator.New(), nil, AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "ccms-test",
	})
}

func TestLoginResolvesStudentFirst(t *testing.T) {
	hash := mustHash(t, "pass123")
	students := &authStudentStub{students: map[string]models.StudentProfile{
		"shared": {StudentID: "CS001", StudentName: "Abebe", Department: "Computer Science", Username: "shared", PasswordHash: hash},
	}}
	officials := &authOfficialStub{officials: map[string]models.OfficialProfile{
		"shared": {ID: "off-1", FirstName: "Tigist", Username: "shared", PasswordHash: mustHash(t, "other")},
	}}
	audit := &authAuditStub{}
	svc := newAuthService(t, students, officials, nil, audit)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "shared", Password: "pass123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.User.Role)
	assert.Equal(t, "CS001", res.User.ID)
	assert.NotEmpty(t, res.AccessToken)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
}

func TestLoginStudentPasswordMismatchDoesNotFallThrough(t *testing.T) {
	students := &authStudentStub{students: map[string]models.StudentProfile{
		"shared": {StudentID: "CS001", Username: "shared", PasswordHash: mustHash(t, "studentpass")},
	}}
	officials := &authOfficialStub{officials: map[string]models.OfficialProfile{
		"shared": {ID: "off-1", Username: "shared", PasswordHash: mustHash(t, "officialpass")},
	}}
	svc := newAuthService(t, students, officials, nil, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "shared", Password: "officialpass"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginUniformErrorForUnknownUserAndWrongPassword(t *testing.T) {
	students := &authStudentStub{students: map[string]models.StudentProfile{
		"known": {StudentID: "CS001", Username: "known", PasswordHash: mustHash(t, "right")},
	}}
	svc := newAuthService(t, students, nil, nil, nil)

	_, unknownErr := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "x"})
	_, wrongErr := svc.Login(context.Background(), models.LoginRequest{Username: "known", Password: "wrong"})
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, appErrors.FromError(unknownErr).Message, appErrors.FromError(wrongErr).Message)
}

func TestLoginAdminAndTokenRoundTrip(t *testing.T) {
	admins := &authAdminStub{admins: map[string]models.Admin{
		"admin": {ID: "adm-1", Name: "Registrar", Username: "admin", PasswordHash: mustHash(t, "adminpass")},
	}}
	svc := newAuthService(t, nil, nil, admins, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", claims.SubjectID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, nil, nil, nil, nil)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
