package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// StudentRepository reads the authoritative student directory. The clearance
// workflow never writes here; rows are reference data loaded by migration.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "id, student_id, student_name, father_name, grand_father_name, sex, department, academic_year, year_of_study, username, password_hash, created_at, updated_at"

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfile, int, error) {
	base := "FROM students"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(student_name) LIKE $%d OR LOWER(student_id) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY student_id ASC LIMIT %d OFFSET %d", studentColumns, base, size, offset)

	var students []models.StudentProfile
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByStudentID fetches a student by institutional identifier. The match
// is case-insensitive after trimming, mirroring how the identifier is typed
// into the original form.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE LOWER(TRIM(student_id)) = $1 LIMIT 1", studentColumns)
	var student models.StudentProfile
	if err := r.db.GetContext(ctx, &student, query, strings.ToLower(strings.TrimSpace(studentID))); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUsername fetches a student login record.
func (r *StudentRepository) FindByUsername(ctx context.Context, username string) (*models.StudentProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE username = $1 LIMIT 1", studentColumns)
	var student models.StudentProfile
	if err := r.db.GetContext(ctx, &student, query, username); err != nil {
		return nil, err
	}
	return &student, nil
}

// Count returns the total number of enrolled students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students"); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}
