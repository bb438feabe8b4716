package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdu-ccms/ccms-api/internal/models"
	"github.com/bdu-ccms/ccms-api/internal/repository/memory"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type clearanceStudentStub struct {
	students map[string]models.StudentProfile
	calls    int
}

func (s *clearanceStudentStub) FindByStudentID(_ context.Context, studentID string) (*models.StudentProfile, error) {
	s.calls++
	if student, ok := s.students[studentID]; ok {
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

type clearanceRiskStub struct {
	entries map[string][]models.RiskEntry
	calls   int
}

func (s *clearanceRiskStub) FindActiveByStudentID(_ context.Context, studentID string) ([]models.RiskEntry, error) {
	s.calls++
	return s.entries[studentID], nil
}

func validSubmission() models.ClearanceSubmission {
	return models.ClearanceSubmission{
		AcademicYear: "2017 E.C.",
		Semester:     "II",
		YearOfStudy:  "4",
		Reason:       string(models.ReasonGraduation),
		Date:         "2025-06-30",
	}
}

func newClearanceService(students *clearanceStudentStub, risks *clearanceRiskStub) (*ClearanceService, *memory.DecisionStore) {
	decisions := memory.NewDecisionStore(time.Minute)
	svc := NewClearanceService(students, risks, decisions, nil, nil, ClearanceConfig{})
	return svc, decisions
}

func TestClearanceSubmitRejectsIncompleteFormWithoutLookups(t *testing.T) {
	students := &clearanceStudentStub{}
	risks := &clearanceRiskStub{}
	svc, _ := newClearanceService(students, risks)

	submission := validSubmission()
	submission.Semester = "   "

	decision, err := svc.Submit(context.Background(), "STU001", submission)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionRejected, decision.Outcome)
	assert.Contains(t, decision.FieldErrors, "semester")
	assert.Zero(t, students.calls, "rejected submissions must not read the directory")
	assert.Zero(t, risks.calls, "rejected submissions must not read the registry")
}

func TestClearanceSubmitRequiresOtherReasonDetail(t *testing.T) {
	svc, _ := newClearanceService(&clearanceStudentStub{}, &clearanceRiskStub{})

	submission := validSubmission()
	submission.Reason = string(models.ReasonOther)
	submission.OtherReason = "  "

	decision, err := svc.Submit(context.Background(), "STU001", submission)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionRejected, decision.Outcome)
	assert.Contains(t, decision.FieldErrors, "otherReason")
	assert.NotContains(t, decision.FieldErrors, "reason")
}

func TestClearanceSubmitRejectsUnknownReason(t *testing.T) {
	svc, _ := newClearanceService(&clearanceStudentStub{}, &clearanceRiskStub{})

	submission := validSubmission()
	submission.Reason = "Vacation"

	decision, err := svc.Submit(context.Background(), "STU001", submission)
	require.NoError(t, err)
	assert.Equal(t, models.DecisionRejected, decision.Outcome)
	assert.Contains(t, decision.FieldErrors, "reason")
}

func TestClearanceSubmitApprovesCleanStudent(t *testing.T) {
	students := &clearanceStudentStub{students: map[string]models.StudentProfile{
		"STU001": {
			StudentID:       "STU001",
			StudentName:     "Abebe",
			FatherName:      "Kebede",
			GrandFatherName: "Lemma",
			Sex:             "M",
			Department:      "Computer Science",
		},
	}}
	svc, decisions := newClearanceService(students, &clearanceRiskStub{})

	decision, err := svc.Submit(context.Background(), "STU001", validSubmission())
	require.NoError(t, err)
	assert.Equal(t, models.DecisionApproved, decision.Outcome)
	require.NotNil(t, decision.Certificate)
	assert.Equal(t, "Abebe", decision.Certificate.StudentName)
	assert.Equal(t, "Computer Science", decision.Certificate.Department)
	assert.Equal(t, string(models.ReasonGraduation), decision.Certificate.Reason)
	assert.NotEmpty(t, decision.ID)

	stored, ok := decisions.Get(decision.ID)
	require.True(t, ok)
	assert.Equal(t, models.DecisionApproved, stored.Outcome)
}

func TestClearanceSubmitDeniesFlaggedStudentListingEveryEntry(t *testing.T) {
	students := &clearanceStudentStub{students: map[string]models.StudentProfile{
		"STU002": {StudentID: "STU002", StudentName: "Hana"},
	}}
	base := time.Now().UTC()
	risks := &clearanceRiskStub{entries: map[string][]models.RiskEntry{
		"STU002": {
			{ID: "r1", StudentID: "STU002", CaseDescription: "Unpaid library fine", Status: models.RiskStatusAtRisk, CreatedAt: base},
			{ID: "r2", StudentID: "STU002", CaseDescription: "Missing lab equipment", Status: models.RiskStatusAtRisk, CreatedAt: base.Add(time.Hour)},
		},
	}}
	svc, _ := newClearanceService(students, risks)

	decision, err := svc.Submit(context.Background(), "STU002", validSubmission())
	require.NoError(t, err)
	assert.Equal(t, models.DecisionDenied, decision.Outcome)
	assert.Contains(t, decision.Message, "Unpaid library fine")
	assert.Len(t, decision.BlockingEntries, 2)
	assert.Nil(t, decision.Certificate)
}

func TestClearanceSubmitUnknownStudent(t *testing.T) {
	svc, _ := newClearanceService(&clearanceStudentStub{}, &clearanceRiskStub{})

	_, err := svc.Submit(context.Background(), "GHOST", validSubmission())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrStudentNotFound.Code, appErr.Code)
}

func TestClearanceSubmitIsIdempotentForUnchangedRegistry(t *testing.T) {
	students := &clearanceStudentStub{students: map[string]models.StudentProfile{
		"STU001": {StudentID: "STU001", StudentName: "Abebe"},
	}}
	svc, _ := newClearanceService(students, &clearanceRiskStub{})

	first, err := svc.Submit(context.Background(), "STU001", validSubmission())
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), "STU001", validSubmission())
	require.NoError(t, err)
	assert.Equal(t, first.Outcome, second.Outcome)
}

func TestClearanceSubmitHonoursCancellationDuringDelay(t *testing.T) {
	students := &clearanceStudentStub{students: map[string]models.StudentProfile{
		"STU001": {StudentID: "STU001"},
	}}
	svc := NewClearanceService(students, &clearanceRiskStub{}, nil, nil, nil, ClearanceConfig{CheckDelay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Submit(ctx, "STU001", validSubmission())
	require.Error(t, err)
	assert.Zero(t, students.calls, "cancelled submissions must stop before the directory read")
}

func TestClearanceDecisionOnlyServesApproved(t *testing.T) {
	svc, decisions := newClearanceService(&clearanceStudentStub{}, &clearanceRiskStub{})

	decisions.Put(models.ClearanceDecision{ID: "rejected-1", Outcome: models.DecisionRejected})

	_, err := svc.Decision("rejected-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrCertificateNotReady.Code, appErr.Code)

	_, err = svc.Decision("missing")
	require.Error(t, err)
}
