package kdf

import (
	"golang.org/x/crypto/sha3"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// deriveNonce computes nonce_i = SHA3-256(key_i || byte(i))[0:NonceSizes[i]].
//
// This makes the nonce a deterministic function of the layer's own subkey
// rather than random or counter-based: the same (path, masterKey) always
// reproduces the same nonce, which is what lets content-addressed storage
// deduplicate identical plaintexts at the same path across commits. The
// trade-off is that two files with identical
// plaintext at the same path are detectably identical from ciphertext alone;
// different paths still get unrelated nonces because the subkey they're mixed
// with already differs per path.
func deriveNonce(key []byte, layer int) []byte {
	h := sha3.New256()
	h.Write(key)
	h.Write([]byte{byte(layer)})
	sum := h.Sum(nil)
	return sum[:domain.NonceSizes[layer]]
}
