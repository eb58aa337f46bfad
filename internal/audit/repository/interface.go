// Package repository persists audit trail entries to PostgreSQL or MySQL.
package repository

import (
	"context"
	"time"

	"github.com/allisson/sixseal/internal/audit/domain"
)

// Repository defines persistence operations for audit trail entries.
// Implementations must support transaction-aware operations via
// database.GetTx-style context propagation.
type Repository interface {
	// Create stores a new audit entry.
	Create(ctx context.Context, entry *domain.Entry) error

	// ListSince returns entries created at or after since, ordered oldest first.
	ListSince(ctx context.Context, since time.Time) ([]*domain.Entry, error)

	// DeleteOlderThan removes entries created before cutoff and reports how
	// many rows were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
