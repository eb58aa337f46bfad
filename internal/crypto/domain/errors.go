package domain

import (
	"github.com/allisson/sixseal/internal/errors"
)

// Cryptographic pipeline errors, each wrapping one of the shared sentinels in
// internal/errors so callers can still errors.Is against the generic kind.
var (
	// ErrNotInitialized indicates a filter ran before the key store held a master
	// keypair.
	ErrNotInitialized = errors.Wrap(errors.ErrNotInitialized, "key store not initialized")

	// ErrUnsupportedVersion indicates a wire blob's leading byte names an unknown
	// format version.
	ErrUnsupportedVersion = errors.Wrap(errors.ErrUnsupportedVersion, "unsupported wire version")

	// ErrInvalidBlobFormat indicates stored bytes are too short or otherwise
	// structurally malformed. Never surfaced on the smudge path: it signals legacy
	// plaintext pass-through instead.
	ErrInvalidBlobFormat = errors.Wrap(errors.ErrInvalidBlobFormat, "invalid blob format")

	// ErrAuthenticationFailed indicates a layer's authentication tag did not verify.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrAuthenticationFailed, "authentication failed")

	// ErrInvalidParameters indicates a key, nonce, or tag of the wrong size reached
	// a provider.
	ErrInvalidParameters = errors.Wrap(errors.ErrInvalidParameters, "invalid cryptographic parameters")

	// ErrEmptyPath indicates an empty file path was used as AAD/salt input, which
	// is disallowed since FilePath must be non-empty.
	ErrEmptyPath = errors.Wrap(errors.ErrInvalidInput, "file path must not be empty")

	// ErrKeypairNotFound indicates no persisted keypair file exists at the
	// configured path.
	ErrKeypairNotFound = errors.Wrap(errors.ErrNotFound, "master keypair not found")
)
