package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdu-ccms/ccms-api/internal/models"
	appErrors "github.com/bdu-ccms/ccms-api/pkg/errors"
)

type riskRepoStub struct {
	entries map[string]models.RiskEntry
}

func newRiskRepoStub(entries ...models.RiskEntry) *riskRepoStub {
	stub := &riskRepoStub{entries: map[string]models.RiskEntry{}}
	for _, entry := range entries {
		stub.entries[entry.ID] = entry
	}
	return stub
}

func (s *riskRepoStub) List(_ context.Context, filter models.RiskFilter) ([]models.RiskEntry, int, error) {
	var out []models.RiskEntry
	for _, entry := range s.entries {
		if filter.Department != "" && entry.Department != filter.Department {
			continue
		}
		out = append(out, entry)
	}
	return out, len(out), nil
}

func (s *riskRepoStub) FindByID(_ context.Context, id string) (*models.RiskEntry, error) {
	if entry, ok := s.entries[id]; ok {
		return &entry, nil
	}
	return nil, sql.ErrNoRows
}

func (s *riskRepoStub) HasActiveByStudentID(_ context.Context, studentID string) (bool, error) {
	for _, entry := range s.entries {
		if entry.StudentID == studentID && entry.Status.Blocking() {
			return true, nil
		}
	}
	return false, nil
}

func (s *riskRepoStub) Create(_ context.Context, entry *models.RiskEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.entries[entry.ID] = *entry
	return nil
}

func (s *riskRepoStub) Update(_ context.Context, entry *models.RiskEntry) error {
	if _, ok := s.entries[entry.ID]; !ok {
		return sql.ErrNoRows
	}
	s.entries[entry.ID] = *entry
	return nil
}

func (s *riskRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := s.entries[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.entries, id)
	return nil
}

type riskStudentsStub struct {
	students []models.StudentProfile
}

func (s *riskStudentsStub) List(_ context.Context, _ models.StudentFilter) ([]models.StudentProfile, int, error) {
	return s.students, len(s.students), nil
}

func (s *riskStudentsStub) FindByStudentID(_ context.Context, studentID string) (*models.StudentProfile, error) {
	for _, student := range s.students {
		if student.StudentID == studentID {
			found := student
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{SubjectID: "adm-1", Name: "Registrar", Role: models.RoleAdmin}
}

func officialClaims(department string) *models.JWTClaims {
	return &models.JWTClaims{SubjectID: "off-1", Name: "Tigist", Role: models.RoleDepartmentOfficial, Department: department}
}

func TestRiskCreateRefusesAlreadyFlaggedStudent(t *testing.T) {
	repo := newRiskRepoStub(models.RiskEntry{ID: "r1", StudentID: "CS003", Status: models.RiskStatusAtRisk})
	students := &riskStudentsStub{students: []models.StudentProfile{{StudentID: "CS003", StudentName: "Mulu"}}}
	svc := NewRiskService(repo, students, nil, nil)

	_, err := svc.Create(context.Background(), adminClaims(), models.RiskCreateRequest{
		StudentID: "CS003", Department: "Library", CaseDescription: "Another fine",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.entries, 1)
}

func TestRiskCreateValidatesTrimmedFields(t *testing.T) {
	repo := newRiskRepoStub()
	svc := NewRiskService(repo, &riskStudentsStub{}, nil, nil)

	_, err := svc.Create(context.Background(), adminClaims(), models.RiskCreateRequest{
		StudentID: "  ", Department: "Library", CaseDescription: " ",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "studentId")
	assert.Contains(t, appErr.Fields, "caseDescription")
	assert.Empty(t, repo.entries, "validation failure must not mutate the registry")
}

func TestRiskCreateStampsOfficialDepartmentAndActor(t *testing.T) {
	repo := newRiskRepoStub()
	students := &riskStudentsStub{students: []models.StudentProfile{{StudentID: "CS001", StudentName: "Abebe"}}}
	svc := NewRiskService(repo, students, nil, nil)

	entry, err := svc.Create(context.Background(), officialClaims("Library"), models.RiskCreateRequest{
		StudentID: "CS001", Department: "ignored", CaseDescription: "Unreturned book",
	})
	require.NoError(t, err)
	assert.Equal(t, "Library", entry.Department)
	assert.Equal(t, "off-1", entry.AddedByID)
	assert.Equal(t, "Abebe", entry.StudentName)
	assert.Equal(t, models.RiskStatusAtRisk, entry.Status)
}

func TestRiskDeleteRequiresConfirmation(t *testing.T) {
	repo := newRiskRepoStub(models.RiskEntry{ID: "r1", StudentID: "CS003", Department: "Library"})
	svc := NewRiskService(repo, &riskStudentsStub{}, nil, nil)

	err := svc.Delete(context.Background(), adminClaims(), "r1", false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConfirmationRequired.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.entries, 1)

	require.NoError(t, svc.Delete(context.Background(), adminClaims(), "r1", true))
	assert.Empty(t, repo.entries)
}

func TestRiskDeleteTargetsStableIDNotPosition(t *testing.T) {
	repo := newRiskRepoStub(
		models.RiskEntry{ID: "r1", StudentID: "CS003", Department: "Library"},
		models.RiskEntry{ID: "r2", StudentID: "EE010", Department: "Finance"},
	)
	svc := NewRiskService(repo, &riskStudentsStub{}, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), adminClaims(), "r2", true))
	_, ok := repo.entries["r1"]
	assert.True(t, ok, "unrelated entry must survive")
	_, ok = repo.entries["r2"]
	assert.False(t, ok)
}

func TestRiskOfficialScopedToOwnDepartment(t *testing.T) {
	repo := newRiskRepoStub(
		models.RiskEntry{ID: "r1", StudentID: "CS003", Department: "Library"},
		models.RiskEntry{ID: "r2", StudentID: "EE010", Department: "Finance"},
	)
	svc := NewRiskService(repo, &riskStudentsStub{}, nil, nil)

	entries, _, err := svc.List(context.Background(), officialClaims("Library"), models.RiskFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Library", entries[0].Department)

	_, err = svc.Get(context.Background(), officialClaims("Library"), "r2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestEligibleStudentsExcludesActivelyFlagged(t *testing.T) {
	repo := newRiskRepoStub(
		models.RiskEntry{ID: "r1", StudentID: "CS003", Status: models.RiskStatusAtRisk},
		models.RiskEntry{ID: "r2", StudentID: "ME021", Status: models.RiskStatusResolved},
	)
	students := &riskStudentsStub{students: []models.StudentProfile{
		{StudentID: "CS001"}, {StudentID: "CS003"}, {StudentID: "ME021"},
	}}
	svc := NewRiskService(repo, students, nil, nil)

	eligible, total, err := svc.EligibleStudents(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	ids := []string{eligible[0].StudentID, eligible[1].StudentID}
	assert.ElementsMatch(t, []string{"CS001", "ME021"}, ids, "resolved entries must not block eligibility")
}

// pagedStudentsStub honours Page/PageSize the way the real repositories do.
type pagedStudentsStub struct {
	students []models.StudentProfile
}

func (s *pagedStudentsStub) List(_ context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	start := (page - 1) * size
	if start >= len(s.students) {
		return nil, len(s.students), nil
	}
	end := start + size
	if end > len(s.students) {
		end = len(s.students)
	}
	return s.students[start:end], len(s.students), nil
}

func (s *pagedStudentsStub) FindByStudentID(_ context.Context, studentID string) (*models.StudentProfile, error) {
	for _, student := range s.students {
		if student.StudentID == studentID {
			found := student
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func TestEligibleStudentsCountsAcrossDirectoryPages(t *testing.T) {
	directory := make([]models.StudentProfile, 0, 120)
	var entries []models.RiskEntry
	for i := 0; i < 120; i++ {
		id := fmt.Sprintf("CS%03d", i+1)
		directory = append(directory, models.StudentProfile{StudentID: id})
		// flag every twelfth student
		if i%12 == 0 {
			entries = append(entries, models.RiskEntry{ID: uuid.NewString(), StudentID: id, Status: models.RiskStatusAtRisk})
		}
	}
	svc := NewRiskService(newRiskRepoStub(entries...), &pagedStudentsStub{students: directory}, nil, nil)

	firstPage, total, err := svc.EligibleStudents(context.Background(), models.StudentFilter{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 110, total, "total must count eligible students beyond the requested page")
	require.Len(t, firstPage, 50)

	lastPage, total, err := svc.EligibleStudents(context.Background(), models.StudentFilter{Page: 3, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 110, total)
	assert.Len(t, lastPage, 10)

	beyond, total, err := svc.EligibleStudents(context.Background(), models.StudentFilter{Page: 4, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 110, total)
	assert.Empty(t, beyond)
}
