package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdu-ccms/ccms-api/internal/models"
)

func newRiskMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func riskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "student_name", "department", "case_description", "added_by_id", "added_by_name", "status", "created_at", "updated_at"})
}

func TestRiskRepositoryListNormalizesEmptyStatus(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	now := time.Now()
	rows := riskRows().
		AddRow("r1", "CS003", "Mulu", "Library", "Unpaid library fine", "off-1", "Tigist", "atRisk", now, now).
		AddRow("r2", "EE010", "Dawit", "Finance", "Outstanding tuition balance", "off-2", "Getachew", "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, student_name, department, case_description, added_by_id, added_by_name, status, created_at, updated_at FROM risk_entries WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM risk_entries WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	entries, total, err := repo.List(context.Background(), models.RiskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, models.RiskStatusAtRisk, entries[1].Status, "legacy statusless entries are blocking")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositoryFindActiveMatchesCaseInsensitively(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, student_name, department, case_description, added_by_id, added_by_name, status, created_at, updated_at FROM risk_entries WHERE LOWER(TRIM(student_id)) = $1 AND (status = $2 OR status = '') ORDER BY created_at ASC")).
		WithArgs("cs003", models.RiskStatusAtRisk).
		WillReturnRows(riskRows().AddRow("r1", "CS003", "Mulu", "Library", "Unpaid library fine", "off-1", "Tigist", "atRisk", now, now))

	entries, err := repo.FindActiveByStudentID(context.Background(), "  CS003 ")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Unpaid library fine", entries[0].CaseDescription)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositoryCreateDefaultsIDAndStatus(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectExec("INSERT INTO risk_entries").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.RiskEntry{StudentID: "CS001", StudentName: "Abebe", Department: "Library", CaseDescription: "Unreturned book"}
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, models.RiskStatusAtRisk, entry.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositoryDeleteMissingRowReturnsNoRows(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM risk_entries WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRiskRepositoryHasActiveMissReturnsFalse(t *testing.T) {
	db, mock, cleanup := newRiskMock(t)
	defer cleanup()
	repo := NewRiskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM risk_entries WHERE LOWER(TRIM(student_id)) = $1 AND (status = $2 OR status = '') LIMIT 1")).
		WithArgs("cs001", models.RiskStatusAtRisk).
		WillReturnError(sql.ErrNoRows)

	active, err := repo.HasActiveByStudentID(context.Background(), "CS001")
	require.NoError(t, err)
	assert.False(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}
