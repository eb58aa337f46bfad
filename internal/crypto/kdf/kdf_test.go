package kdf_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/crypto/domain"
	"github.com/allisson/sixseal/internal/crypto/kdf"
)

func fixedMasterKey() []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func TestDeriveKeysDeterministic(t *testing.T) {
	mk := fixedMasterKey()

	a, err := kdf.DeriveKeys(mk, "src/main.go")
	require.NoError(t, err)
	b, err := kdf.DeriveKeys(mk, "src/main.go")
	require.NoError(t, err)

	require.Equal(t, a.Keys, b.Keys)
	require.Equal(t, a.Nonces, b.Nonces)
}

func TestDeriveKeysSizesMatchDomainTables(t *testing.T) {
	mk := fixedMasterKey()
	keys, err := kdf.DeriveKeys(mk, "a/b.txt")
	require.NoError(t, err)

	for i := 0; i < domain.LayerCount; i++ {
		require.Len(t, keys.Keys[i], domain.KeySizes[i])
		require.Len(t, keys.Nonces[i], domain.NonceSizes[i])
	}
}

func TestDeriveKeysDifferByPath(t *testing.T) {
	mk := fixedMasterKey()
	a, err := kdf.DeriveKeys(mk, "a.txt")
	require.NoError(t, err)
	b, err := kdf.DeriveKeys(mk, "b.txt")
	require.NoError(t, err)

	require.NotEqual(t, a.Keys, b.Keys)
}

func TestDeriveKeysLayersPairwiseDistinct(t *testing.T) {
	mk := fixedMasterKey()
	keys, err := kdf.DeriveKeys(mk, "a.txt")
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, k := range keys.Keys {
		seen[string(k)] = true
	}
	require.Len(t, seen, domain.LayerCount, "every layer's subkey must be distinct")
}

func TestDeriveKeysRejectsEmptyPath(t *testing.T) {
	_, err := kdf.DeriveKeys(fixedMasterKey(), "")
	require.ErrorIs(t, err, domain.ErrEmptyPath)
}

func TestDeriveKeysRejectsEmptyMasterKey(t *testing.T) {
	_, err := kdf.DeriveKeys(nil, "a.txt")
	require.ErrorIs(t, err, domain.ErrInvalidParameters)
}
