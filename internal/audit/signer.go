// Package audit signs and verifies audit trail entries and persists them
// through a pluggable repository.
package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/allisson/sixseal/internal/audit/domain"
)

const signingKeyInfo = "sixseal-audit-signing-v1"

// Signer produces and checks HMAC-SHA256 signatures over audit entries,
// using a signing key derived from the active master key via HKDF-SHA256.
// Deriving a dedicated signing key keeps audit-log integrity independent of
// the six-layer encryption keys even though both trace back to the same
// master key.
type Signer struct {
	masterKey []byte
}

// NewSigner builds a Signer keyed by masterKey.
func NewSigner(masterKey []byte) *Signer {
	return &Signer{masterKey: masterKey}
}

func (s *Signer) deriveSigningKey() ([]byte, error) {
	kdf := hkdf.New(sha256.New, s.masterKey, nil, []byte(signingKeyInfo))

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, signingKey); err != nil {
		return nil, fmt.Errorf("failed to derive audit signing key: %w", err)
	}
	return signingKey, nil
}

// canonicalize renders an entry as a length-prefixed byte sequence so the
// signature covers every field unambiguously.
func canonicalize(e *domain.Entry) []byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, e.ID[:]...)
	buf = appendLengthPrefixed(buf, []byte(e.Path))
	buf = appendLengthPrefixed(buf, []byte(e.Operation))

	success := byte(0)
	if e.Success {
		success = 1
	}
	buf = append(buf, success)

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(e.CreatedAt.UnixNano()))
	buf = append(buf, ts...)

	return buf
}

func appendLengthPrefixed(buf, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	return append(buf, data...)
}

// Sign computes the HMAC-SHA256 signature for e.
func (s *Signer) Sign(e *domain.Entry) ([]byte, error) {
	signingKey, err := s.deriveSigningKey()
	if err != nil {
		return nil, err
	}
	defer zero(signingKey)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonicalize(e))
	return mac.Sum(nil), nil
}

// Verify reports whether e's stored signature matches its recomputed value.
// It returns domain.ErrSignatureInvalid when they differ.
func (s *Signer) Verify(e *domain.Entry) error {
	expected, err := s.Sign(e)
	if err != nil {
		return err
	}
	if !hmac.Equal(e.Signature, expected) {
		return domain.ErrSignatureInvalid
	}
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
