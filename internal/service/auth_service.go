package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type authStudentRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.StudentProfile, error)
}

type authOfficialRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.OfficialProfile, error)
}

type authAdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type authAuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// AuthService authenticates principals across the three directories.
// Resolution order is students, then officials, then administrators; the
// first username match wins and a password mismatch there is terminal.
type AuthService struct {
	students  authStudentRepository
	officials authOfficialRepository
	admins    authAdminRepository
	audit     authAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(students authStudentRepository, officials authOfficialRepository, admins authAdminRepository, audit authAuditRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		students:  students,
		officials: officials,
		admins:    admins,
		audit:     audit,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// Login authenticates a principal and returns an issued token. Unknown
// usernames and wrong passwords produce the same response.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	info, hash, err := s.resolve(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, expiresIn, err := s.issueToken(info)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.recordLogin(ctx, info, req)

	return &models.LoginResponse{AccessToken: token, ExpiresIn: expiresIn, User: info}, nil
}

// ValidateToken parses and validates a signed access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role")
	}
	return claims, nil
}

// resolve searches the directories in a fixed order and returns the profile
// and password hash of the first username match.
func (s *AuthService) resolve(ctx context.Context, username string) (models.UserInfo, string, error) {
	student, err := s.students.FindByUsername(ctx, username)
	if err == nil {
		info := models.UserInfo{
			ID:         student.StudentID,
			Name:       student.StudentName,
			Role:       models.RoleStudent,
			Department: student.Department,
		}
		return info, student.PasswordHash, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.UserInfo{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	official, err := s.officials.FindByUsername(ctx, username)
	if err == nil {
		role := official.Role
		if role != models.RoleAdmin {
			role = models.RoleDepartmentOfficial
		}
		info := models.UserInfo{
			ID:         official.ID,
			Name:       official.FullName(),
			Role:       role,
			Department: official.Department,
			Email:      official.Email,
		}
		return info, official.PasswordHash, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.UserInfo{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch official")
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err == nil {
		info := models.UserInfo{
			ID:    admin.ID,
			Name:  admin.Name,
			Role:  models.RoleAdmin,
			Email: admin.Email,
		}
		return info, admin.PasswordHash, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.UserInfo{}, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin")
	}

	return models.UserInfo{}, "", appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

func (s *AuthService) issueToken(info models.UserInfo) (string, int64, error) {
	now := time.Now().UTC()
	expiry := s.config.TokenExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	claims := &models.JWTClaims{
		SubjectID:  info.ID,
		Role:       info.Role,
		Name:       info.Name,
		Department: info.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   info.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, int64(expiry.Seconds()), nil
}

func (s *AuthService) recordLogin(ctx context.Context, info models.UserInfo, req models.LoginRequest) {
	if s.audit == nil {
		return
	}
	detail, _ := json.Marshal(map[string]string{"role": string(info.Role)})
	actorID := info.ID
	entry := &models.AuditLog{
		ActorID:   &actorID,
		Action:    models.AuditActionLogin,
		Resource:  "session",
		Detail:    detail,
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record login audit entry", zap.Error(err))
	}
}
