// Package kdf derives per-file subkeys and nonces from a MasterKey and a file
// path, so that encryption is fully deterministic given (path, MasterKey) and
// uses no random nonces — a requirement for VCS content-addressing, where the
// same plaintext at the same path must always produce the same stored blob.
package kdf

import (
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	"github.com/allisson/sixseal/internal/crypto/domain"
)

// saltSize is the length of the path-derived HKDF salt.
const saltSize = 32

// DeriveKeys runs HKDF-Extract-then-Expand over SHA3-512 to produce the six
// per-layer subkeys for path under masterKey.
//
// Extract: PRK = HKDF-Extract(salt=H512(path)[0:32], ikm=masterKey)
// Expand:  key_i = HKDF-Expand(PRK, domain.InfoLabels[i], domain.KeySizes[i])
//
// The salt binds every subkey to the exact file path, so copying ciphertext
// bytes to a different path in the tree (without re-encrypting) yields subkeys
// that won't authenticate it — paths are a required input, never optional.
func DeriveKeys(masterKey []byte, path string) (domain.DerivedKeys, error) {
	if path == "" {
		return domain.DerivedKeys{}, domain.ErrEmptyPath
	}
	if len(masterKey) == 0 {
		return domain.DerivedKeys{}, domain.ErrInvalidParameters
	}

	pathHash := sha3.Sum512([]byte(path))
	salt := pathHash[:saltSize]

	prk := hkdf.Extract(sha3.New512, masterKey, salt)

	var out domain.DerivedKeys
	for i := 0; i < domain.LayerCount; i++ {
		key := make([]byte, domain.KeySizes[i])
		reader := hkdf.Expand(sha3.New512, prk, domain.InfoLabels[i])
		if _, err := io.ReadFull(reader, key); err != nil {
			return domain.DerivedKeys{}, domain.ErrInvalidParameters
		}
		out.Keys[i] = key
		out.Nonces[i] = deriveNonce(key, i)
	}

	return out, nil
}
