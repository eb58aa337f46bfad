package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sixseal/internal/audit/domain"
	"github.com/allisson/sixseal/internal/database"
	apperrors "github.com/allisson/sixseal/internal/errors"
)

// PostgreSQLAuditRepository persists audit entries to PostgreSQL using native
// UUID and BYTEA types.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditRepository builds a PostgreSQLAuditRepository backed by db.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}

func (p *PostgreSQLAuditRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_entries (id, path, operation, success, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
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

func (p *PostgreSQLAuditRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, path, operation, success, signature, created_at
			  FROM audit_entries WHERE created_at >= $1 ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, since)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit entries")
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var id uuid.UUID
		if err := rows.Scan(&id, &e.Path, &e.Operation, &e.Success, &e.Signature, &e.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit entry")
		}
		e.ID = id
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit entries")
	}

	return entries, nil
}

func (p *PostgreSQLAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM audit_entries WHERE created_at < $1`

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
