// Package domain holds the audit trail's core types: a signed record of every
// clean/smudge operation the filter performs.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/sixseal/internal/errors"
)

// Operation identifies which filter verb an Entry records.
type Operation string

const (
	OperationClean  Operation = "clean"
	OperationSmudge Operation = "smudge"
)

// ErrSignatureInvalid indicates an audit entry's signature does not match its
// recomputed value, meaning the row was tampered with or corrupted.
var ErrSignatureInvalid = apperrors.Wrap(apperrors.ErrAuthenticationFailed, "audit entry signature invalid")

// Entry records a single clean or smudge invocation against a repository
// path. Signature is an HMAC-SHA256 tag over the entry's canonical
// encoding, computed with a key derived from the active master key — it lets
// a later audit pass detect whether the log itself was tampered with.
type Entry struct {
	ID        uuid.UUID
	Path      string
	Operation Operation
	Success   bool
	Signature []byte
	CreatedAt time.Time
}

// HasSignature reports whether the entry carries a signature of the expected
// HMAC-SHA256 size. Entries persisted before the audit trail existed have
// none and are treated as legacy, unverifiable rows.
func (e *Entry) HasSignature() bool {
	return len(e.Signature) == 32
}
