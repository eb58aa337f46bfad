package metrics_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/metrics"
)

type recordingBusinessMetrics struct {
	mu         sync.Mutex
	operations []string
	statuses   []string
	durations  []time.Duration
}

func (r *recordingBusinessMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, domain+"/"+operation)
	r.statuses = append(r.statuses, status)
}

func (r *recordingBusinessMetrics) RecordDuration(
	_ context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations = append(r.durations, duration)
}

func TestStageTelemetryRecordsStartAndStop(t *testing.T) {
	business := &recordingBusinessMetrics{}
	telemetry := metrics.NewStageTelemetry(business)

	telemetry.Start("sixseal.stage.start", map[string]string{"total": "3"})
	telemetry.Stop("sixseal.stage.stop", map[string]string{
		"status":      "ok",
		"duration_us": "1500",
	})

	require.Equal(t, []string{"stage/sixseal.stage.start", "stage/sixseal.stage.stop"}, business.operations)
	require.Equal(t, []string{"start", "ok"}, business.statuses)
	require.Equal(t, []time.Duration{1500 * time.Microsecond}, business.durations)
}

func TestStageTelemetryStopWithoutDuration(t *testing.T) {
	business := &recordingBusinessMetrics{}
	telemetry := metrics.NewStageTelemetry(business)

	telemetry.Stop("sixseal.stage.stop", map[string]string{"status": "error"})

	require.Equal(t, []string{"error"}, business.statuses)
	require.Empty(t, business.durations)
}
