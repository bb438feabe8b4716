package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepositoryFindByUsernameScansFullRow(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "admin_id", "name", "email", "username", "password_hash", "created_at", "updated_at"}).
		AddRow("adm-1", "ADM001", "Registrar Office", "registrar@bdu.edu.et", "registrar", "hash", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE username = $1 LIMIT 1")).
		WithArgs("registrar").
		WillReturnRows(rows)

	admin, err := repo.FindByUsername(context.Background(), "registrar")
	require.NoError(t, err)
	assert.Equal(t, "ADM001", admin.AdminID)
	assert.Equal(t, "Registrar Office", admin.Name)
	assert.False(t, admin.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepositoryFindByUsernameMiss(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE username = $1 LIMIT 1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
