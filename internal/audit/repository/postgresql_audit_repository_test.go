package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/audit/domain"
)

func TestPostgreSQLAuditRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAuditRepository(db)
	entry := &domain.Entry{
		ID:        uuid.Must(uuid.NewV7()),
		Path:      "secrets/prod.env",
		Operation: domain.OperationClean,
		Success:   true,
		Signature: []byte("0123456789012345678901234567890x"),
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_entries").
		WithArgs(entry.ID, entry.Path, entry.Operation, entry.Success, entry.Signature, entry.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), entry))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditRepositoryListSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAuditRepository(db)
	since := time.Now().Add(-time.Hour).UTC()
	id := uuid.Must(uuid.NewV7())
	createdAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "path", "operation", "success", "signature", "created_at"}).
		AddRow(id, "secrets/prod.env", string(domain.OperationClean), true, []byte("sig"), createdAt)

	mock.ExpectQuery("SELECT id, path, operation, success, signature, created_at").
		WithArgs(since).
		WillReturnRows(rows)

	entries, err := repo.ListSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, id, entries[0].ID)
	require.Equal(t, domain.OperationClean, entries[0].Operation)
}

func TestPostgreSQLAuditRepositoryDeleteOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := NewPostgreSQLAuditRepository(db)
	cutoff := time.Now().Add(-24 * time.Hour).UTC()

	mock.ExpectExec("DELETE FROM audit_entries").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(3), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
