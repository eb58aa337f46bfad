package provider

import (
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// ChaCha20Poly1305Cipher implements layer 6: ChaCha20-Poly1305.
type ChaCha20Poly1305Cipher struct{}

func (ChaCha20Poly1305Cipher) KeySize() int   { return domain.KeySizes[5] }
func (ChaCha20Poly1305Cipher) NonceSize() int { return domain.NonceSizes[5] }
func (ChaCha20Poly1305Cipher) TagSize() int   { return domain.TagSizes[5] }

func (c ChaCha20Poly1305Cipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() {
		return nil, nil, domain.ErrInvalidParameters
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, nil, domain.ErrInvalidParameters
	}
	sealed := aead.Seal(nil, nonce, plaintext, aad)
	return splitTag(sealed, aead.Overhead())
}

func (c ChaCha20Poly1305Cipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() || len(tag) != c.TagSize() {
		return nil, domain.ErrInvalidParameters
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, domain.ErrInvalidParameters
	}
	plaintext, err := aead.Open(nil, nonce, joinTag(ciphertext, tag), aad)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
