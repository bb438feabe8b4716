package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

// StudentService exposes the read-only student directory. The clearance
// workflow never mutates these records.
type StudentService struct {
	students studentRepository
	logger   *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students studentRepository, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, logger: logger}
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, total, nil
}

// Get resolves a student by campus identifier, case-insensitively.
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}
