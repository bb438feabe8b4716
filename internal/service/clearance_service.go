package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/internal/repository/memory"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type clearanceStudentRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

type clearanceRiskRepository interface {
	FindActiveByStudentID(ctx context.Context, studentID string) ([]models.RiskEntry, error)
}

type decisionMetrics interface {
	ObserveClearanceDecision(outcome models.DecisionOutcome)
}

// DecisionFanout broadcasts decision observations to multiple recorders.
type DecisionFanout []decisionMetrics

// ObserveClearanceDecision forwards the outcome to every recorder.
func (f DecisionFanout) ObserveClearanceDecision(outcome models.DecisionOutcome) {
	for _, recorder := range f {
		if recorder != nil {
			recorder.ObserveClearanceDecision(outcome)
		}
	}
}

// ClearanceConfig tunes the decision workflow.
type ClearanceConfig struct {
	// CheckDelay is the pause between accepting a valid submission and
	// running the eligibility check. It exists so the client can show its
	// processing state; the check itself is instantaneous.
	CheckDelay time.Duration
}

// ClearanceService derives a decision for each submission. Decisions are
// never persisted as request history; approved ones are parked in the
// decision store until their certificate is previewed or saved.
type ClearanceService struct {
	students  clearanceStudentRepository
	risks     clearanceRiskRepository
	decisions *memory.DecisionStore
	metrics   decisionMetrics
	logger    *zap.Logger
	config    ClearanceConfig
}

// NewClearanceService constructs a ClearanceService instance.
func NewClearanceService(students clearanceStudentRepository, risks clearanceRiskRepository, decisions *memory.DecisionStore, metrics decisionMetrics, logger *zap.Logger, config ClearanceConfig) *ClearanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClearanceService{
		students:  students,
		risks:     risks,
		decisions: decisions,
		metrics:   metrics,
		logger:    logger,
		config:    config,
	}
}

// Submit validates the form, re-resolves the student against the directory
// and derives the decision. Validation failures reject the submission before
// any directory or registry lookup happens.
func (s *ClearanceService) Submit(ctx context.Context, studentID string, submission models.ClearanceSubmission) (*models.ClearanceDecision, error) {
	now := time.Now().UTC()

	if fieldErrors := validateSubmission(submission); len(fieldErrors) > 0 {
		decision := &models.ClearanceDecision{
			ID:          uuid.NewString(),
			StudentID:   strings.TrimSpace(studentID),
			Outcome:     models.DecisionRejected,
			Message:     "please fill in all required fields",
			FieldErrors: fieldErrors,
			DecidedAt:   now,
		}
		s.observe(decision.Outcome)
		return decision, nil
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	// The token identifies the requester but the directory stays
	// authoritative: a student removed since login must not clear.
	student, err := s.students.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	blocking, err := s.risks.FindActiveByStudentID(ctx, student.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check risk registry")
	}

	if len(blocking) > 0 {
		decision := &models.ClearanceDecision{
			ID:              uuid.NewString(),
			StudentID:       student.StudentID,
			Outcome:         models.DecisionDenied,
			Message:         denialMessage(blocking),
			BlockingEntries: blocking,
			DecidedAt:       now,
		}
		s.observe(decision.Outcome)
		return decision, nil
	}

	reason := strings.TrimSpace(submission.Reason)
	if models.ClearanceReason(reason) == models.ReasonOther {
		reason = strings.TrimSpace(submission.OtherReason)
	}

	decision := &models.ClearanceDecision{
		ID:        uuid.NewString(),
		StudentID: student.StudentID,
		Outcome:   models.DecisionApproved,
		Message:   "clearance approved",
		Certificate: &models.CertificateData{
			StudentName:     student.StudentName,
			FatherName:      student.FatherName,
			GrandFatherName: student.GrandFatherName,
			Sex:             student.Sex,
			StudentID:       student.StudentID,
			Department:      student.Department,
			AcademicYear:    strings.TrimSpace(submission.AcademicYear),
			Semester:        strings.TrimSpace(submission.Semester),
			YearOfStudy:     strings.TrimSpace(submission.YearOfStudy),
			Reason:          reason,
			SubmittedAt:     now,
		},
		DecidedAt: now,
	}

	if s.decisions != nil {
		s.decisions.Put(*decision)
	}
	s.observe(decision.Outcome)
	return decision, nil
}

// Decision returns a previously approved decision while it is still held.
func (s *ClearanceService) Decision(id string) (*models.ClearanceDecision, error) {
	if s.decisions == nil {
		return nil, appErrors.Clone(appErrors.ErrCertificateNotReady, "")
	}
	decision, ok := s.decisions.Get(id)
	if !ok || decision.Outcome != models.DecisionApproved || decision.Certificate == nil {
		return nil, appErrors.Clone(appErrors.ErrCertificateNotReady, "")
	}
	return &decision, nil
}

// wait holds the submission for the configured delay, honouring cancellation.
func (s *ClearanceService) wait(ctx context.Context) error {
	if s.config.CheckDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.config.CheckDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "clearance check cancelled")
	case <-timer.C:
		return nil
	}
}

func (s *ClearanceService) observe(outcome models.DecisionOutcome) {
	if s.metrics != nil {
		s.metrics.ObserveClearanceDecision(outcome)
	}
}

// validateSubmission trims and checks every requester-editable field,
// collecting all failures rather than stopping at the first.
func validateSubmission(submission models.ClearanceSubmission) map[string]string {
	fieldErrors := map[string]string{}

	required := []struct {
		key     string
		value   string
		message string
	}{
		{"academicYear", submission.AcademicYear, "academic year is required"},
		{"semester", submission.Semester, "semester is required"},
		{"yearOfStudy", submission.YearOfStudy, "year of study is required"},
		{"reason", submission.Reason, "reason is required"},
		{"date", submission.Date, "date is required"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			fieldErrors[field.key] = field.message
		}
	}

	reason := models.ClearanceReason(strings.TrimSpace(submission.Reason))
	if _, ok := fieldErrors["reason"]; !ok {
		known := false
		for _, candidate := range models.KnownReasons() {
			if reason == candidate {
				known = true
				break
			}
		}
		if !known {
			fieldErrors["reason"] = "reason must be one of the offered options"
		}
	}
	if reason == models.ReasonOther && strings.TrimSpace(submission.OtherReason) == "" {
		fieldErrors["otherReason"] = "please describe the other reason"
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// denialMessage leads with the earliest recorded case so the student sees
// the oldest obligation first.
func denialMessage(blocking []models.RiskEntry) string {
	first := blocking[0].CaseDescription
	if len(blocking) == 1 {
		return fmt.Sprintf("clearance denied: %s", first)
	}
	return fmt.Sprintf("clearance denied: %s (and %d more outstanding cases)", first, len(blocking)-1)
}
