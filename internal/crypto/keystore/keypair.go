// Package keystore persists the master keypair to disk, optionally wrapped with
// a cloud or local KMS key so the file holds ciphertext instead of raw secret
// material.
package keystore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// Store loads and saves a MasterKeypair at Path. When KMS is configured
// (KMSService and KeyURI both set), the persisted file holds the keypair's
// marshaled bytes wrapped by the KMS key rather than in the clear.
type Store struct {
	Path       string
	KMSService KMSService
	KeyURI     string
}

// NewStore returns a Store with no KMS wrapping configured.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// WithKMS returns a copy of s configured to wrap the persisted keypair with the
// given KMS service and key URI.
func (s *Store) WithKMS(svc KMSService, keyURI string) *Store {
	return &Store{Path: s.Path, KMSService: svc, KeyURI: keyURI}
}

// Exists reports whether a keypair file is present at Path.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Load reads and parses the keypair file, unwrapping it with KMS first if
// configured. Returns domain.ErrKeypairNotFound if no file exists at Path.
func (s *Store) Load(ctx context.Context) (*domain.MasterKeypair, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrKeypairNotFound
		}
		return nil, domain.ErrInvalidParameters
	}

	if s.kmsEnabled() {
		raw, err = s.unwrap(ctx, raw)
		if err != nil {
			return nil, err
		}
	}

	return domain.ParseMasterKeypair(raw)
}

// Save marshals kp and writes it to Path, wrapping with KMS first if
// configured. The parent directory is created if missing; the file is written
// with 0600 permissions since it may hold raw secret material.
func (s *Store) Save(ctx context.Context, kp *domain.MasterKeypair) error {
	raw, err := kp.Marshal()
	if err != nil {
		return err
	}
	defer domain.Zero(raw)

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return domain.ErrInvalidParameters
	}

	out := raw
	if s.kmsEnabled() {
		out, err = s.wrap(ctx, raw)
		if err != nil {
			return err
		}
	}

	return os.WriteFile(s.Path, out, 0o600)
}

func (s *Store) kmsEnabled() bool {
	return s.KMSService != nil && s.KeyURI != ""
}

func (s *Store) wrap(ctx context.Context, plaintext []byte) ([]byte, error) {
	keeper, err := s.KMSService.OpenKeeper(ctx, s.KeyURI)
	if err != nil {
		return nil, domain.ErrInvalidParameters
	}
	defer keeper.Close()

	ciphertext, err := keeper.Encrypt(ctx, plaintext)
	if err != nil {
		return nil, domain.ErrInvalidParameters
	}
	return ciphertext, nil
}

func (s *Store) unwrap(ctx context.Context, ciphertext []byte) ([]byte, error) {
	keeper, err := s.KMSService.OpenKeeper(ctx, s.KeyURI)
	if err != nil {
		return nil, domain.ErrInvalidParameters
	}
	defer keeper.Close()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
