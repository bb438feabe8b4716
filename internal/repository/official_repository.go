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

// OfficialRepository manages persistence for the staff directory.
type OfficialRepository struct {
	db *sqlx.DB
}

// NewOfficialRepository constructs an OfficialRepository.
func NewOfficialRepository(db *sqlx.DB) *OfficialRepository {
	return &OfficialRepository{db: db}
}

const officialColumns = "id, official_id, first_name, last_name, role, profession, education, department, email, phone, username, password_hash, created_at, updated_at"

// List returns officials matching the provided filters. Search matches
// across every textual column, mirroring the admin table's filter box.
func (r *OfficialRepository) List(ctx context.Context, filter models.OfficialFilter) ([]models.OfficialProfile, int, error) {
	base := "FROM officials"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Search != "" {
		idx := len(args) + 1
		cols := []string{"official_id", "first_name", "last_name", "profession", "education", "department", "email", "phone", "username"}
		likes := make([]string, 0, len(cols))
		for _, col := range cols {
			likes = append(likes, fmt.Sprintf("LOWER(%s) LIKE $%d", col, idx))
		}
		conditions = append(conditions, "("+strings.Join(likes, " OR ")+")")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY official_id ASC LIMIT %d OFFSET %d", officialColumns, base, size, offset)

	var officials []models.OfficialProfile
	if err := r.db.SelectContext(ctx, &officials, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list officials: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count officials: %w", err)
	}
	return officials, total, nil
}

// FindByID fetches an official by stable identifier.
func (r *OfficialRepository) FindByID(ctx context.Context, id string) (*models.OfficialProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM officials WHERE id = $1 LIMIT 1", officialColumns)
	var official models.OfficialProfile
	if err := r.db.GetContext(ctx, &official, query, id); err != nil {
		return nil, err
	}
	return &official, nil
}

// FindByUsername fetches an official login record.
func (r *OfficialRepository) FindByUsername(ctx context.Context, username string) (*models.OfficialProfile, error) {
	query := fmt.Sprintf("SELECT %s FROM officials WHERE username = $1 LIMIT 1", officialColumns)
	var official models.OfficialProfile
	if err := r.db.GetContext(ctx, &official, query, username); err != nil {
		return nil, err
	}
	return &official, nil
}

// ExistsByUsername checks if the username is taken, optionally excluding an ID.
func (r *OfficialRepository) ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM officials WHERE username = $1"
	args := []interface{}{username}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check username: %w", err)
	}
	return true, nil
}

// Create inserts a new official record.
func (r *OfficialRepository) Create(ctx context.Context, official *models.OfficialProfile) error {
	if official.ID == "" {
		official.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if official.CreatedAt.IsZero() {
		official.CreatedAt = now
	}
	official.UpdatedAt = now
	const query = `INSERT INTO officials (id, official_id, first_name, last_name, role, profession, education, department, email, phone, username, password_hash, created_at, updated_at)
        VALUES (:id, :official_id, :first_name, :last_name, :role, :profession, :education, :department, :email, :phone, :username, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, official); err != nil {
		return fmt.Errorf("create official: %w", err)
	}
	return nil
}

// Update modifies an existing official.
func (r *OfficialRepository) Update(ctx context.Context, official *models.OfficialProfile) error {
	official.UpdatedAt = time.Now().UTC()
	const query = `UPDATE officials SET official_id = :official_id, first_name = :first_name, last_name = :last_name, role = :role, profession = :profession, education = :education, department = :department, email = :email, phone = :phone, username = :username, password_hash = :password_hash, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, official); err != nil {
		return fmt.Errorf("update official: %w", err)
	}
	return nil
}

// Delete removes an official by stable identifier.
func (r *OfficialRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM officials WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete official: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of officials.
func (r *OfficialRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM officials"); err != nil {
		return 0, fmt.Errorf("count officials: %w", err)
	}
	return total, nil
}
