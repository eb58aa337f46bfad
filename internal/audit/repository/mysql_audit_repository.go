package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/allisson/sixseal/internal/audit/domain"
	"github.com/allisson/sixseal/internal/database"
	apperrors "github.com/allisson/sixseal/internal/errors"
)

// MySQLAuditRepository persists audit entries to MySQL, storing the entry ID
// as BINARY(16) since MySQL has no native UUID type.
type MySQLAuditRepository struct {
	db *sql.DB
}

// NewMySQLAuditRepository builds a MySQLAuditRepository backed by db.
func NewMySQLAuditRepository(db *sql.DB) *MySQLAuditRepository {
	return &MySQLAuditRepository{db: db}
}

func (m *MySQLAuditRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, m.db)

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit entry id")
	}

	query := `INSERT INTO audit_entries (id, path, operation, success, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		entry.Path,
		entry.Operation,
		entry.Success,
		entry.Signature,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit entry")
	}
	return nil
}

func (m *MySQLAuditRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, path, operation, success, signature, created_at
			  FROM audit_entries WHERE created_at >= ? ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, since)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var rawID []byte
		if err := rows.Scan(&rawID, &e.Path, &e.Operation, &e.Success, &e.Signature, &e.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		if err := e.ID.UnmarshalBinary(rawID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit entry id")
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

func (m *MySQLAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM audit_entries WHERE created_at < ?`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete old audit entries")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read rows affected")
	}
	return affected, nil
}
