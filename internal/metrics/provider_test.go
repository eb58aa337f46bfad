package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("sixseal")

	require.NoError(t, err)
	assert.NotNil(t, provider.meterProvider)
	assert.NotNil(t, provider.exporter)
	assert.NotNil(t, provider.registry)
}

func TestNewProviderEmptyNamespace(t *testing.T) {
	provider, err := NewProvider("")

	require.NoError(t, err)
	assert.NotNil(t, provider)
}

func TestProviderHandlerServesExposition(t *testing.T) {
	provider, err := NewProvider("sixseal")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProviderShutdown(t *testing.T) {
	provider, err := NewProvider("sixseal")
	require.NoError(t, err)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestProviderShutdownNilMeterProvider(t *testing.T) {
	provider := &Provider{}

	assert.NoError(t, provider.Shutdown(context.Background()))
}
