// Package filter implements the clean/smudge facade a VCS content filter calls
// on every checkout and commit.
package filter

import (
	"errors"

	"github.com/allisson/sixseal/internal/crypto/domain"
	"github.com/allisson/sixseal/internal/crypto/sixlayer"
)

// Facade is the clean/smudge entry point bound to one master key. It is
// stateless beyond that key and safe for concurrent use, since sixlayer.Cipher
// carries no mutable state either.
type Facade struct {
	cipher    sixlayer.Cipher
	masterKey []byte
}

// NewFacade returns a Facade that encrypts and decrypts with masterKey.
func NewFacade(masterKey []byte) *Facade {
	return &Facade{cipher: sixlayer.NewCipher(), masterKey: masterKey}
}

// Clean encrypts plaintext for path and returns the wire-format blob a VCS
// should store.
func (f *Facade) Clean(path string, plaintext []byte) ([]byte, error) {
	if path == "" {
		return nil, domain.ErrEmptyPath
	}

	blob, err := f.cipher.Encrypt(f.masterKey, path, plaintext)
	if err != nil {
		return nil, err
	}
	return blob.Marshal(), nil
}

// Smudge decrypts stored bytes back to plaintext for path.
//
// If stored cannot be parsed as a current-version blob — too short, or a
// recognizable-but-unknown version byte — it is returned unchanged. This lets
// files committed before encryption was enabled (or under some other version)
// check out as themselves instead of failing the checkout.
func (f *Facade) Smudge(path string, stored []byte) ([]byte, error) {
	blob, err := domain.ParseEncryptedBlob(stored)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBlobFormat) || errors.Is(err, domain.ErrUnsupportedVersion) {
			return stored, nil
		}
		return nil, err
	}

	return f.cipher.Decrypt(f.masterKey, path, blob)
}
