// Package errors provides standardized domain errors shared across sixseal's packages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors that every domain package wraps with context via Wrap.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a conflict with existing data.
	ErrConflict = errors.New("conflict")

	// ErrNotInitialized indicates an operation ran before required state (e.g. the
	// key store) was set up.
	ErrNotInitialized = errors.New("not initialized")

	// ErrUnsupportedVersion indicates a wire blob carries an unknown version byte.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrInvalidBlobFormat indicates stored bytes are too short or structurally
	// malformed. On the smudge path this is never surfaced to the caller: it is the
	// signal to fall back to legacy plaintext pass-through.
	ErrInvalidBlobFormat = errors.New("invalid blob format")

	// ErrAuthenticationFailed indicates an AEAD layer's tag did not verify.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidParameters indicates a key, nonce, or tag of the wrong size reached
	// a provider.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrCommandFailed indicates the host VCS add verb exited non-zero for reasons
	// other than index-lock contention.
	ErrCommandFailed = errors.New("command failed")

	// ErrIndexLockConflict indicates the add verb failed because of index.lock
	// contention; internal to the staging workflow's retry loop.
	ErrIndexLockConflict = errors.New("index lock conflict")

	// ErrTaskExit indicates a worker was killed, e.g. by its per-task timeout.
	ErrTaskExit = errors.New("task exit")

	// ErrInvalidPaths indicates add_files was called with a malformed path list.
	ErrInvalidPaths = errors.New("invalid paths")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
