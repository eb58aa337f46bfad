package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/sixseal/internal/audit/domain"
	"github.com/allisson/sixseal/internal/audit/repository"
)

// UseCase records signed audit entries for clean/smudge operations and
// supports later verification and retention cleanup.
type UseCase struct {
	signer *Signer
	repo   repository.Repository
}

// NewUseCase builds a UseCase that signs entries with masterKey and persists
// them through repo.
func NewUseCase(masterKey []byte, repo repository.Repository) *UseCase {
	return &UseCase{signer: NewSigner(masterKey), repo: repo}
}

// Record signs and persists an audit entry for the given operation. Entry IDs
// are UUIDv7 so they sort in creation order alongside created_at.
func (u *UseCase) Record(ctx context.Context, path string, op domain.Operation, success bool) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate audit entry id: %w", err)
	}

	entry := &domain.Entry{
		ID:        id,
		Path:      path,
		Operation: op,
		Success:   success,
		CreatedAt: time.Now().UTC(),
	}

	sig, err := u.signer.Sign(entry)
	if err != nil {
		return err
	}
	entry.Signature = sig

	return u.repo.Create(ctx, entry)
}

// VerifySince checks the signature of every entry created at or after since,
// returning the subset whose signatures fail verification.
func (u *UseCase) VerifySince(ctx context.Context, since time.Time) ([]*domain.Entry, error) {
	entries, err := u.repo.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}

	var invalid []*domain.Entry
	for _, e := range entries {
		if !e.HasSignature() {
			invalid = append(invalid, e)
			continue
		}
		if err := u.signer.Verify(e); err != nil {
			invalid = append(invalid, e)
		}
	}

	return invalid, nil
}

// VerifyBetween checks the signature of every entry created within [start, end],
// returning how many entries were checked and the subset that failed.
func (u *UseCase) VerifyBetween(ctx context.Context, start, end time.Time) (int, []*domain.Entry, error) {
	entries, err := u.repo.ListSince(ctx, start)
	if err != nil {
		return 0, nil, err
	}

	checked := 0
	var invalid []*domain.Entry
	for _, e := range entries {
		if e.CreatedAt.After(end) {
			continue
		}
		checked++
		if !e.HasSignature() {
			invalid = append(invalid, e)
			continue
		}
		if err := u.signer.Verify(e); err != nil {
			invalid = append(invalid, e)
		}
	}

	return checked, invalid, nil
}

// Clean removes entries older than cutoff and reports how many were removed.
func (u *UseCase) Clean(ctx context.Context, cutoff time.Time) (int64, error) {
	return u.repo.DeleteOlderThan(ctx, cutoff)
}
