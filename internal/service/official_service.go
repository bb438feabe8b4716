package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type officialRepository interface {
	List(ctx context.Context, filter models.OfficialFilter) ([]models.OfficialProfile, int, error)
	FindByID(ctx context.Context, id string) (*models.OfficialProfile, error)
	ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error)
	Create(ctx context.Context, official *models.OfficialProfile) error
	Update(ctx context.Context, official *models.OfficialProfile) error
	Delete(ctx context.Context, id string) error
}

type officialAuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// OfficialConfig drives intake form validation. The required-field list is
// configuration because the form's field set has drifted across versions.
type OfficialConfig struct {
	RequiredFields []string
}

// OfficialService manages the staff directory on behalf of the main admin.
type OfficialService struct {
	officials officialRepository
	audit     officialAuditRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    OfficialConfig
}

// NewOfficialService constructs an OfficialService instance.
func NewOfficialService(officials officialRepository, audit officialAuditRepository, validate *validator.Validate, logger *zap.Logger, config OfficialConfig) *OfficialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if len(config.RequiredFields) == 0 {
		config.RequiredFields = []string{"officialId", "firstName", "lastName", "department", "email", "username", "password"}
	}
	return &OfficialService{officials: officials, audit: audit, validator: validate, logger: logger, config: config}
}

// List returns officials matching the filter.
func (s *OfficialService) List(ctx context.Context, filter models.OfficialFilter) ([]models.OfficialProfile, int, error) {
	officials, total, err := s.officials.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list officials")
	}
	return officials, total, nil
}

// Get fetches an official by stable identifier.
func (s *OfficialService) Get(ctx context.Context, id string) (*models.OfficialProfile, error) {
	official, err := s.officials.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "official not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch official")
	}
	return official, nil
}

// Create registers a new official. Validation failures leave the directory
// untouched.
func (s *OfficialService) Create(ctx context.Context, actor *models.JWTClaims, req models.OfficialRequest) (*models.OfficialProfile, error) {
	if fieldErrors := s.validateRequest(req, false); len(fieldErrors) > 0 {
		return nil, appErrors.Validation(fieldErrors)
	}

	taken, err := s.officials.ExistsByUsername(ctx, strings.TrimSpace(req.Username), "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "username already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	official := &models.OfficialProfile{
		OfficialID:   strings.TrimSpace(req.OfficialID),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         normalizeOfficialRole(req.Role),
		Profession:   strings.TrimSpace(req.Profession),
		Education:    strings.TrimSpace(req.Education),
		Department:   strings.TrimSpace(req.Department),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
	}

	if err := s.officials.Create(ctx, official); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create official")
	}

	s.recordAudit(ctx, actor, models.AuditActionOfficialCreate, official.ID, official.Username)
	return official, nil
}

// Update modifies an existing official. An empty password keeps the current
// hash.
func (s *OfficialService) Update(ctx context.Context, actor *models.JWTClaims, id string, req models.OfficialRequest) (*models.OfficialProfile, error) {
	official, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateRequest(req, true); len(fieldErrors) > 0 {
		return nil, appErrors.Validation(fieldErrors)
	}

	username := strings.TrimSpace(req.Username)
	if username != official.Username {
		taken, err := s.officials.ExistsByUsername(ctx, username, official.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already in use")
		}
	}

	official.OfficialID = strings.TrimSpace(req.OfficialID)
	official.FirstName = strings.TrimSpace(req.FirstName)
	official.LastName = strings.TrimSpace(req.LastName)
	official.Role = normalizeOfficialRole(req.Role)
	official.Profession = strings.TrimSpace(req.Profession)
	official.Education = strings.TrimSpace(req.Education)
	official.Department = strings.TrimSpace(req.Department)
	official.Email = strings.TrimSpace(req.Email)
	official.Phone = strings.TrimSpace(req.Phone)
	official.Username = username

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		official.PasswordHash = string(hash)
	}

	if err := s.officials.Update(ctx, official); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update official")
	}

	s.recordAudit(ctx, actor, models.AuditActionOfficialUpdate, official.ID, official.Username)
	return official, nil
}

// Delete removes an official after explicit confirmation.
func (s *OfficialService) Delete(ctx context.Context, actor *models.JWTClaims, id string, confirmed bool) error {
	if !confirmed {
		return appErrors.Clone(appErrors.ErrConfirmationRequired, "")
	}

	official, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.officials.Delete(ctx, official.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "official not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete official")
	}

	s.recordAudit(ctx, actor, models.AuditActionOfficialDelete, official.ID, official.Username)
	return nil
}

// validateRequest applies the configured required-field list and checks the
// email format. On update the password requirement is waived.
func (s *OfficialService) validateRequest(req models.OfficialRequest, isUpdate bool) map[string]string {
	fieldErrors := map[string]string{}

	for _, field := range s.config.RequiredFields {
		if isUpdate && field == "password" {
			continue
		}
		if strings.TrimSpace(requestField(req, field)) == "" {
			fieldErrors[field] = field + " is required"
		}
	}

	if email := strings.TrimSpace(req.Email); email != "" {
		if err := s.validator.Var(email, "email"); err != nil {
			fieldErrors["email"] = "email must be a valid address"
		}
	}

	return fieldErrors
}

func requestField(req models.OfficialRequest, name string) string {
	switch name {
	case "officialId":
		return req.OfficialID
	case "firstName":
		return req.FirstName
	case "lastName":
		return req.LastName
	case "role":
		return req.Role
	case "profession":
		return req.Profession
	case "education":
		return req.Education
	case "department":
		return req.Department
	case "email":
		return req.Email
	case "phone":
		return req.Phone
	case "username":
		return req.Username
	case "password":
		return req.Password
	}
	return "unknown"
}

func normalizeOfficialRole(raw string) models.Role {
	role := models.Role(strings.TrimSpace(raw))
	if !role.Valid() || role == models.RoleStudent {
		return models.RoleDepartmentOfficial
	}
	return role
}

func (s *OfficialService) recordAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID, username string) {
	if s.audit == nil {
		return
	}
	detail, _ := json.Marshal(map[string]string{"username": username})
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "official",
		ResourceID: &resourceID,
		Detail:     detail,
	}
	if actor != nil {
		actorID := actor.SubjectID
		entry.ActorID = &actorID
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit entry", zap.String("action", action), zap.Error(err))
	}
}
