package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/app"
	"github.com/allisson/sixseal/internal/config"
	cryptoDomain "github.com/allisson/sixseal/internal/crypto/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel:         "error",
		KeyStorePath:     filepath.Join(t.TempDir(), "keypair"),
		MetricsNamespace: "sixseal_test",
		StageBatchSize:   1,
	}
}

func TestContainerLoggerIsMemoized(t *testing.T) {
	container := app.NewContainer(testConfig(t))
	require.Same(t, container.Logger(), container.Logger())
}

func TestContainerDBFailsWithoutDriver(t *testing.T) {
	container := app.NewContainer(testConfig(t))

	_, err := container.DB()
	require.Error(t, err)

	// The error must be sticky across accesses.
	_, err2 := container.DB()
	require.Error(t, err2)
}

func TestContainerMasterKeypairNotInitialized(t *testing.T) {
	container := app.NewContainer(testConfig(t))

	_, err := container.MasterKeypair(context.Background())
	require.ErrorIs(t, err, cryptoDomain.ErrKeypairNotFound)

	_, err = container.Facade(context.Background())
	require.ErrorIs(t, err, cryptoDomain.ErrNotInitialized)
}

func TestContainerFacadeAfterKeypairSaved(t *testing.T) {
	ctx := context.Background()
	container := app.NewContainer(testConfig(t))

	kp, err := cryptoDomain.GenerateMasterKeypair()
	require.NoError(t, err)
	require.NoError(t, container.KeyStore().Save(ctx, kp))

	facade, err := container.Facade(ctx)
	require.NoError(t, err)

	blob, err := facade.Clean("a.txt", []byte("hello"))
	require.NoError(t, err)

	plaintext, err := facade.Smudge("a.txt", blob)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), plaintext)
}

func TestContainerStageRunnerWithoutProgress(t *testing.T) {
	container := app.NewContainer(testConfig(t))
	require.NotNil(t, container.StageRunner(nil, 0))
}

func TestContainerShutdownIsIdempotentWithNothingInitialized(t *testing.T) {
	container := app.NewContainer(testConfig(t))
	require.NoError(t, container.Shutdown(context.Background()))
	require.NoError(t, container.Shutdown(context.Background()))
}
