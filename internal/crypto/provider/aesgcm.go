package provider

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// AESGCMCipher implements layer 1: AES-256-GCM.
type AESGCMCipher struct{}

func (AESGCMCipher) KeySize() int   { return domain.KeySizes[0] }
func (AESGCMCipher) NonceSize() int { return domain.NonceSizes[0] }
func (AESGCMCipher) TagSize() int   { return domain.TagSizes[0] }

func (c AESGCMCipher) Seal(key, nonce, plaintext, aad []byte) ([]byte, []byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() {
		return nil, nil, domain.ErrInvalidParameters
	}

	aead, err := c.aead(key)
	if err != nil {
		return nil, nil, err
	}
	sealed := aead.Seal(nil, nonce, plaintext, aad)
	return splitTag(sealed, aead.Overhead())
}

func (c AESGCMCipher) Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	if len(key) != c.KeySize() || len(nonce) != c.NonceSize() || len(tag) != c.TagSize() {
		return nil, domain.ErrInvalidParameters
	}

	aead, err := c.aead(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, joinTag(ciphertext, tag), aad)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}

func (AESGCMCipher) aead(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, domain.ErrInvalidParameters
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, domain.ErrInvalidParameters
	}
	return aead, nil
}

func splitTag(sealed []byte, tagSize int) ([]byte, []byte, error) {
	if len(sealed) < tagSize {
		return nil, nil, domain.ErrInvalidParameters
	}
	n := len(sealed) - tagSize
	ciphertext := make([]byte, n)
	copy(ciphertext, sealed[:n])
	tag := make([]byte, tagSize)
	copy(tag, sealed[n:])
	return ciphertext, tag, nil
}

func joinTag(ciphertext, tag []byte) []byte {
	out := make([]byte, 0, len(ciphertext)+len(tag))
	out = append(out, ciphertext...)
	return append(out, tag...)
}
