package keystore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/crypto/domain"
	"github.com/allisson/sixseal/internal/crypto/keystore"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "keypair")
	store := keystore.NewStore(path)

	require.False(t, store.Exists())

	kp, err := domain.GenerateMasterKeypair()
	require.NoError(t, err)
	wantKey, err := kp.MasterKey()
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, kp))
	require.True(t, store.Exists())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	gotKey, err := loaded.MasterKey()
	require.NoError(t, err)
	require.Equal(t, wantKey, gotKey)
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := keystore.NewStore(filepath.Join(t.TempDir(), "absent"))
	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrKeypairNotFound)
}

type fakeKeeper struct{ xorByte byte }

func (f fakeKeeper) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ f.xorByte
	}
	return out, nil
}

func (f fakeKeeper) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	return f.Encrypt(context.Background(), ciphertext)
}

func (f fakeKeeper) Close() error { return nil }

type fakeKMSService struct{ keeper fakeKeeper }

func (f fakeKMSService) OpenKeeper(context.Context, string) (keystore.KMSKeeper, error) {
	return f.keeper, nil
}

func TestStoreWithKMSWrapsAtRest(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "keypair")
	store := keystore.NewStore(path).WithKMS(fakeKMSService{keeper: fakeKeeper{xorByte: 0x42}}, "fake://key")

	kp, err := domain.GenerateMasterKeypair()
	require.NoError(t, err)
	wantKey, err := kp.MasterKey()
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, kp))

	plainStore := keystore.NewStore(path)
	_, err = plainStore.Load(ctx)
	require.Error(t, err, "file on disk must not parse as a plaintext keypair when KMS-wrapped")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	gotKey, err := loaded.MasterKey()
	require.NoError(t, err)
	require.Equal(t, wantKey, gotKey)
}
