package commands_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/cmd/app/commands"
	"github.com/allisson/sixseal/internal/crypto/keystore"
)

func TestRunInitKeypairCreatesStore(t *testing.T) {
	store := keystore.NewStore(filepath.Join(t.TempDir(), "keypair"))

	var out bytes.Buffer
	err := commands.RunInitKeypair(context.Background(), store, testLogger(), commands.IO{Writer: &out})
	require.NoError(t, err)
	require.True(t, store.Exists())
	require.Contains(t, out.String(), "fingerprint")
}

func TestRunInitKeypairRefusesToOverwrite(t *testing.T) {
	store := keystore.NewStore(filepath.Join(t.TempDir(), "keypair"))

	ctx := context.Background()
	require.NoError(t, commands.RunInitKeypair(ctx, store, testLogger(), commands.IO{Writer: &bytes.Buffer{}}))

	err := commands.RunInitKeypair(ctx, store, testLogger(), commands.IO{Writer: &bytes.Buffer{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already initialized")
}

func TestRunShowFingerprintMatchesInitOutput(t *testing.T) {
	store := keystore.NewStore(filepath.Join(t.TempDir(), "keypair"))
	ctx := context.Background()

	var initOut bytes.Buffer
	require.NoError(t, commands.RunInitKeypair(ctx, store, testLogger(), commands.IO{Writer: &initOut}))

	var fpOut bytes.Buffer
	require.NoError(t, commands.RunShowFingerprint(ctx, store, commands.IO{Writer: &fpOut}))

	fingerprint := strings.TrimSpace(fpOut.String())
	require.Len(t, fingerprint, 16)
	require.Contains(t, initOut.String(), fingerprint)
}

func TestRunShowFingerprintWithoutStore(t *testing.T) {
	store := keystore.NewStore(filepath.Join(t.TempDir(), "missing"))

	err := commands.RunShowFingerprint(context.Background(), store, commands.IO{Writer: &bytes.Buffer{}})
	require.Error(t, err)
}
