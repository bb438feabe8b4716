package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type riskRepository interface {
	List(ctx context.Context, filter models.RiskFilter) ([]models.RiskEntry, int, error)
	FindByID(ctx context.Context, id string) (*models.RiskEntry, error)
	HasActiveByStudentID(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, entry *models.RiskEntry) error
	Update(ctx context.Context, entry *models.RiskEntry) error
	Delete(ctx context.Context, id string) error
}

type riskStudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

type riskAuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// RiskService manages the risk registry. Department officials operate on
// their own office's entries; admins see everything.
type RiskService struct {
	risks    riskRepository
	students riskStudentRepository
	audit    riskAuditRepository
	logger   *zap.Logger
}

// NewRiskService constructs a RiskService instance.
func NewRiskService(risks riskRepository, students riskStudentRepository, audit riskAuditRepository, logger *zap.Logger) *RiskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{risks: risks, students: students, audit: audit, logger: logger}
}

// List returns registry entries visible to the actor.
func (s *RiskService) List(ctx context.Context, actor *models.JWTClaims, filter models.RiskFilter) ([]models.RiskEntry, int, error) {
	scopeFilter(actor, &filter)
	entries, total, err := s.risks.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list risk entries")
	}
	return entries, total, nil
}

// Get fetches a single entry, enforcing the actor's scope.
func (s *RiskService) Get(ctx context.Context, actor *models.JWTClaims, id string) (*models.RiskEntry, error) {
	return s.findScoped(ctx, actor, id)
}

// Create flags a student. The student must exist in the directory and must
// not already carry an active entry.
func (s *RiskService) Create(ctx context.Context, actor *models.JWTClaims, req models.RiskCreateRequest) (*models.RiskEntry, error) {
	department := strings.TrimSpace(req.Department)
	if actor != nil && actor.Role == models.RoleDepartmentOfficial {
		department = actor.Department
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.StudentID) == "" {
		fieldErrors["studentId"] = "student ID is required"
	}
	if department == "" {
		fieldErrors["department"] = "department is required"
	}
	if strings.TrimSpace(req.CaseDescription) == "" {
		fieldErrors["caseDescription"] = "case description is required"
	}
	if len(fieldErrors) > 0 {
		return nil, appErrors.Validation(fieldErrors)
	}

	student, err := s.students.FindByStudentID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	active, err := s.risks.HasActiveByStudentID(ctx, student.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check risk registry")
	}
	if active {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already has an active risk entry")
	}

	status := models.RiskStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.RiskStatusAtRisk
	}

	entry := &models.RiskEntry{
		StudentID:       student.StudentID,
		StudentName:     student.StudentName,
		Department:      department,
		CaseDescription: strings.TrimSpace(req.CaseDescription),
		Status:          status,
	}
	if actor != nil {
		entry.AddedByID = actor.SubjectID
		entry.AddedByName = actor.Name
	}

	if err := s.risks.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create risk entry")
	}

	s.recordAudit(ctx, actor, models.AuditActionRiskCreate, entry.ID, map[string]string{"studentId": entry.StudentID})
	return entry, nil
}

// Update modifies an entry by its stable ID. Other entries keep their
// identifiers, so concurrent edits never shift targets.
func (s *RiskService) Update(ctx context.Context, actor *models.JWTClaims, id string, req models.RiskUpdateRequest) (*models.RiskEntry, error) {
	entry, err := s.findScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.CaseDescription) == "" {
		fieldErrors["caseDescription"] = "case description is required"
	}
	department := entry.Department
	if actor == nil || actor.Role == models.RoleAdmin {
		department = strings.TrimSpace(req.Department)
		if department == "" {
			fieldErrors["department"] = "department is required"
		}
	}
	if len(fieldErrors) > 0 {
		return nil, appErrors.Validation(fieldErrors)
	}

	entry.CaseDescription = strings.TrimSpace(req.CaseDescription)
	entry.Department = department
	if status := models.RiskStatus(strings.TrimSpace(req.Status)); status != "" {
		entry.Status = status
	}

	if err := s.risks.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update risk entry")
	}

	s.recordAudit(ctx, actor, models.AuditActionRiskUpdate, entry.ID, map[string]string{"studentId": entry.StudentID})
	return entry, nil
}

// Delete removes an entry after explicit confirmation.
func (s *RiskService) Delete(ctx context.Context, actor *models.JWTClaims, id string, confirmed bool) error {
	if !confirmed {
		return appErrors.Clone(appErrors.ErrConfirmationRequired, "")
	}

	entry, err := s.findScoped(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.risks.Delete(ctx, entry.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "risk entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete risk entry")
	}

	s.recordAudit(ctx, actor, models.AuditActionRiskDelete, entry.ID, map[string]string{"studentId": entry.StudentID})
	return nil
}

// EligibleStudents lists directory students without an active entry, for the
// select-existing-student flow. Eligibility is computed over the whole
// filtered directory before the requested page is cut, so the returned total
// counts every eligible student.
func (s *RiskService) EligibleStudents(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error) {
	walk := filter
	walk.Page = 1
	walk.PageSize = 100

	var eligible []models.StudentProfile
	seen := 0
	for {
		students, total, err := s.students.List(ctx, walk)
		if err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
		}
		for _, student := range students {
			active, err := s.risks.HasActiveByStudentID(ctx, student.StudentID)
			if err != nil {
				return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check risk registry")
			}
			if !active {
				eligible = append(eligible, student)
			}
		}
		seen += len(students)
		if seen >= total || len(students) == 0 {
			break
		}
		walk.Page++
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	} else if size > 100 {
		size = 100
	}
	start := (page - 1) * size
	if start >= len(eligible) {
		return []models.StudentProfile{}, len(eligible), nil
	}
	end := start + size
	if end > len(eligible) {
		end = len(eligible)
	}
	return eligible[start:end], len(eligible), nil
}

func (s *RiskService) findScoped(ctx context.Context, actor *models.JWTClaims, id string) (*models.RiskEntry, error) {
	entry, err := s.risks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "risk entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch risk entry")
	}
	if actor != nil && actor.Role == models.RoleDepartmentOfficial && entry.Department != actor.Department {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "entry belongs to another department")
	}
	return entry, nil
}

func scopeFilter(actor *models.JWTClaims, filter *models.RiskFilter) {
	if actor != nil && actor.Role == models.RoleDepartmentOfficial && actor.Department != "" {
		filter.Department = actor.Department
	}
}

func (s *RiskService) recordAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string, detail map[string]string) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(detail)
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "risk_entry",
		ResourceID: &resourceID,
		Detail:     payload,
	}
	if actor != nil {
		actorID := actor.SubjectID
		entry.ActorID = &actorID
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit entry", zap.String("action", action), zap.Error(err))
	}
}
