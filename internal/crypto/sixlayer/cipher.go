// Package sixlayer orchestrates the six nested AEAD layers into a single
// Encrypt/Decrypt pair keyed by file path.
package sixlayer

import (
	"github.com/allisson/sixseal/internal/crypto/domain"
	"github.com/allisson/sixseal/internal/crypto/kdf"
	"github.com/allisson/sixseal/internal/crypto/provider"
)

// Cipher runs the fixed six-layer pipeline: AES-256-GCM, AEGIS-256,
// Schwaemm256-256, Deoxys-II-256, Ascon-128a, ChaCha20-Poly1305, in that order
// for encryption and reversed for decryption. The file path is bound as
// associated data on every layer, so ciphertext from one path never
// authenticates at another.
type Cipher struct {
	providers provider.Manager
}

// NewCipher returns a ready-to-use six-layer Cipher.
func NewCipher() Cipher {
	return Cipher{providers: provider.NewManager()}
}

// Encrypt derives per-path subkeys from masterKey and runs plaintext through
// all six layers in encryption order, returning the resulting blob.
func (c Cipher) Encrypt(masterKey []byte, path string, plaintext []byte) (domain.EncryptedBlob, error) {
	keys, err := kdf.DeriveKeys(masterKey, path)
	if err != nil {
		return domain.EncryptedBlob{}, err
	}
	defer keys.Zero()

	aad := []byte(path)
	body := plaintext
	var tags [domain.LayerCount][]byte

	for i := 0; i < domain.LayerCount; i++ {
		aead, err := c.providers.ForLayer(i)
		if err != nil {
			return domain.EncryptedBlob{}, err
		}

		ciphertext, tag, err := aead.Seal(keys.Keys[i], keys.Nonces[i], body, aad)
		if err != nil {
			return domain.EncryptedBlob{}, err
		}
		body = ciphertext
		tags[i] = tag
	}

	return domain.EncryptedBlob{Version: domain.WireVersion, Tags: tags, Ciphertext: body}, nil
}

// Decrypt derives the same per-path subkeys and runs blob through all six
// layers in reverse order, returning the recovered plaintext. Any layer's
// authentication failure aborts the chain immediately with
// domain.ErrAuthenticationFailed — a partially-decrypted body is never
// returned.
func (c Cipher) Decrypt(masterKey []byte, path string, blob domain.EncryptedBlob) ([]byte, error) {
	keys, err := kdf.DeriveKeys(masterKey, path)
	if err != nil {
		return nil, err
	}
	defer keys.Zero()

	aad := []byte(path)
	body := blob.Ciphertext

	for i := domain.LayerCount - 1; i >= 0; i-- {
		aead, err := c.providers.ForLayer(i)
		if err != nil {
			return nil, err
		}

		plaintext, err := aead.Open(keys.Keys[i], keys.Nonces[i], body, blob.Tags[i], aad)
		if err != nil {
			return nil, domain.ErrAuthenticationFailed
		}
		body = plaintext
	}

	return body, nil
}
