package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine checks that the Prometheus output contains a metric line
// matching the given name, partial label pattern, and value. A regex is used
// so the extra OTel scope labels the Prometheus exporter injects don't matter.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("sixseal")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "sixseal")
	require.NoError(t, err)
	assert.NotNil(t, bm)
}

func TestBusinessMetricsRecordAcrossDomains(t *testing.T) {
	provider, err := NewProvider("sixseal")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "sixseal")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "filter", "clean", "success")
	bm.RecordOperation(ctx, "filter", "smudge", "success")
	bm.RecordOperation(ctx, "stage", "git_add", "error")
	bm.RecordOperation(ctx, "audit", "record_entry", "success")

	bm.RecordDuration(ctx, "filter", "clean", 12*time.Millisecond, "success")
	bm.RecordDuration(ctx, "stage", "git_add", 340*time.Millisecond, "error")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	noOp := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, noOp)

	assert.NotPanics(t, func() {
		noOp.RecordOperation(context.Background(), "filter", "clean", "success")
		noOp.RecordDuration(context.Background(), "filter", "smudge", 100*time.Millisecond, "error")
	})
}

func TestBusinessMetricsExposedThroughPrometheus(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "filter", "clean", "success")
	bm.RecordOperation(ctx, "filter", "clean", "success")
	bm.RecordOperation(ctx, "filter", "clean", "error")
	bm.RecordOperation(ctx, "filter", "smudge", "success")
	bm.RecordOperation(ctx, "stage", "git_add", "success")

	bm.RecordDuration(ctx, "filter", "clean", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "filter", "clean", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "filter", "smudge", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "stage", "git_add", 150*time.Millisecond, "success")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="filter".*operation="clean".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="filter".*operation="clean".*status="error"`,
		`1`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="stage".*operation="git_add".*status="success"`,
		`1`,
	)

	assertMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="filter".*operation="clean".*status="success"`,
		`2`,
	)
	assertMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="stage".*operation="git_add".*status="success"`,
		``,
	)
}
