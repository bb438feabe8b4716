// Package memory holds seed-backed in-memory stores used when no database is
// reachable. Each store mirrors the method set of its SQL counterpart,
// including the sql.ErrNoRows contract, so services never know which backing
// they were given.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// StudentStore is a read-only in-memory student directory.
type StudentStore struct {
	mu       sync.RWMutex
	students []models.StudentProfile
}

// NewStudentStore constructs a store from seeded profiles.
func NewStudentStore(students []models.StudentProfile) *StudentStore {
	copied := make([]models.StudentProfile, len(students))
	copy(copied, students)
	return &StudentStore{students: copied}
}

// List returns students matching the filter with pagination.
func (s *StudentStore) List(_ context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.StudentProfile, 0, len(s.students))
	search := strings.ToLower(filter.Search)
	for _, student := range s.students {
		if filter.Department != "" && student.Department != filter.Department {
			continue
		}
		if search != "" && !studentMatches(student, search) {
			continue
		}
		matched = append(matched, student)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].StudentID < matched[j].StudentID })

	total := len(matched)
	page, size := clampPage(filter.Page, filter.PageSize)
	return paginate(matched, page, size), total, nil
}

// FindByStudentID resolves a student by campus identifier. Matching trims
// whitespace and ignores case, mirroring the SQL repository.
func (s *StudentStore) FindByStudentID(_ context.Context, studentID string) (*models.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := strings.ToLower(strings.TrimSpace(studentID))
	for i := range s.students {
		if strings.ToLower(strings.TrimSpace(s.students[i].StudentID)) == want {
			student := s.students[i]
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

// FindByUsername resolves a student login record.
func (s *StudentStore) FindByUsername(_ context.Context, username string) (*models.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.students {
		if s.students[i].Username == username {
			student := s.students[i]
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

// Count returns the number of enrolled students.
func (s *StudentStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students), nil
}

func studentMatches(student models.StudentProfile, search string) bool {
	for _, field := range []string{student.StudentID, student.StudentName, student.FatherName, student.Department} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func clampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size
}

func paginate[T any](items []T, page, size int) []T {
	offset := (page - 1) * size
	if offset >= len(items) {
		return []T{}
	}
	end := offset + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-offset)
	copy(out, items[offset:end])
	return out
}
