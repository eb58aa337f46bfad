// Package provider implements the six AEAD primitives the cipher pipeline nests,
// one per layer. Two layers (AES-256-GCM, ChaCha20-Poly1305) wrap the standard
// library and golang.org/x/crypto respectively; the other four (AEGIS-256,
// Schwaemm256-256, Deoxys-II-256, Ascon-128a) have no maintained third-party Go
// module and are implemented in-package, each following its published design:
// the AEGIS AES-round state machine, the Sparkle/Alzette ARX sponge, the
// Deoxys-BC tweakable block cipher with its TWEAKEY schedule, and the Ascon
// permutation. The four constructions share no code beyond the bare AES round
// function (aesround.go), which AEGIS and Deoxys-BC are both defined over.
package provider

import "github.com/allisson/sixseal/internal/crypto/domain"

// AEAD is the uniform shape every layer's cipher exposes to the orchestrator in
// internal/crypto/sixlayer. Unlike the standard library's cipher.AEAD, Seal
// returns the authentication tag separately from the ciphertext: the wire format
// carries all six tags together in a fixed-size header, ahead of the nested
// ciphertext body.
type AEAD interface {
	KeySize() int
	NonceSize() int
	TagSize() int

	// Seal encrypts plaintext and authenticates it together with aad, returning
	// the ciphertext and its detached authentication tag.
	Seal(key, nonce, plaintext, aad []byte) (ciphertext, tag []byte, err error)

	// Open verifies tag over ciphertext and aad, then decrypts. Returns
	// domain.ErrAuthenticationFailed if the tag does not verify.
	Open(key, nonce, ciphertext, tag, aad []byte) (plaintext []byte, err error)
}

// New returns the AEAD implementation for the given layer algorithm.
func New(alg domain.Algorithm) (AEAD, error) {
	switch alg {
	case domain.AESGCM:
		return AESGCMCipher{}, nil
	case domain.AEGIS256:
		return AEGIS256Cipher{}, nil
	case domain.Schwaemm256:
		return Schwaemm256Cipher{}, nil
	case domain.DeoxysII256:
		return DeoxysII256Cipher{}, nil
	case domain.Ascon128a:
		return Ascon128aCipher{}, nil
	case domain.ChaCha20Poly:
		return ChaCha20Poly1305Cipher{}, nil
	default:
		return nil, domain.ErrInvalidParameters
	}
}
