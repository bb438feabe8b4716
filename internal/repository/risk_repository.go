package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// RiskRepository manages persistence for the risk registry. Every mutation
// is keyed by the entry's generated ID; positional operations do not exist.
type RiskRepository struct {
	db *sqlx.DB
}

// NewRiskRepository constructs a RiskRepository.
func NewRiskRepository(db *sqlx.DB) *RiskRepository {
	return &RiskRepository{db: db}
}

const riskColumns = "id, student_id, student_name, department, case_description, added_by_id, added_by_name, status, created_at, updated_at"

// List returns risk entries matching the provided filters.
func (r *RiskRepository) List(ctx context.Context, filter models.RiskFilter) ([]models.RiskEntry, int, error) {
	base := "FROM risk_entries"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(student_name) LIKE $%d OR LOWER(student_id) LIKE $%d OR LOWER(case_description) LIKE $%d OR LOWER(added_by_name) LIKE $%d)", idx, idx, idx, idx))
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", riskColumns, base, size, offset)

	var entries []models.RiskEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list risk entries: %w", err)
	}
	normalizeRiskEntries(entries)

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count risk entries: %w", err)
	}
	return entries, total, nil
}

// FindByID fetches a risk entry by stable identifier.
func (r *RiskRepository) FindByID(ctx context.Context, id string) (*models.RiskEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM risk_entries WHERE id = $1 LIMIT 1", riskColumns)
	var entry models.RiskEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	if entry.Status == "" {
		entry.Status = models.RiskStatusAtRisk
	}
	return &entry, nil
}

// FindActiveByStudentID returns every blocking entry for the student,
// matching case-insensitively after trimming. Entries stored without a
// status count as blocking.
func (r *RiskRepository) FindActiveByStudentID(ctx context.Context, studentID string) ([]models.RiskEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM risk_entries WHERE LOWER(TRIM(student_id)) = $1 AND (status = $2 OR status = '') ORDER BY created_at ASC", riskColumns)
	var entries []models.RiskEntry
	if err := r.db.SelectContext(ctx, &entries, query, strings.ToLower(strings.TrimSpace(studentID)), models.RiskStatusAtRisk); err != nil {
		return nil, fmt.Errorf("find active risks: %w", err)
	}
	normalizeRiskEntries(entries)
	return entries, nil
}

// HasActiveByStudentID checks for any blocking entry without loading rows.
func (r *RiskRepository) HasActiveByStudentID(ctx context.Context, studentID string) (bool, error) {
	query := "SELECT 1 FROM risk_entries WHERE LOWER(TRIM(student_id)) = $1 AND (status = $2 OR status = '') LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, strings.ToLower(strings.TrimSpace(studentID)), models.RiskStatusAtRisk); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active risk: %w", err)
	}
	return true, nil
}

// Create inserts a new risk entry.
func (r *RiskRepository) Create(ctx context.Context, entry *models.RiskEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Status == "" {
		entry.Status = models.RiskStatusAtRisk
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	const query = `INSERT INTO risk_entries (id, student_id, student_name, department, case_description, added_by_id, added_by_name, status, created_at, updated_at)
        VALUES (:id, :student_id, :student_name, :department, :case_description, :added_by_id, :added_by_name, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create risk entry: %w", err)
	}
	return nil
}

// Update modifies an existing risk entry.
func (r *RiskRepository) Update(ctx context.Context, entry *models.RiskEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE risk_entries SET student_id = :student_id, student_name = :student_name, department = :department, case_description = :case_description, added_by_id = :added_by_id, added_by_name = :added_by_name, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update risk entry: %w", err)
	}
	return nil
}

// Delete removes an entry by stable identifier.
func (r *RiskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM risk_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete risk entry: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountActive returns the number of blocking entries in the registry.
func (r *RiskRepository) CountActive(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM risk_entries WHERE status = $1 OR status = ''", models.RiskStatusAtRisk); err != nil {
		return 0, fmt.Errorf("count active risks: %w", err)
	}
	return total, nil
}

func normalizeRiskEntries(entries []models.RiskEntry) {
	for i := range entries {
		if entries[i].Status == "" {
			entries[i].Status = models.RiskStatusAtRisk
		}
	}
}
