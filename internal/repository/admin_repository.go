package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

// AdminRepository reads registrar administrator accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByUsername fetches an administrator login record.
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	const query = `SELECT id, admin_id, name, email, username, password_hash, created_at, updated_at
        FROM admins WHERE username = $1 LIMIT 1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, username); err != nil {
		return nil, err
	}
	return &admin, nil
}
