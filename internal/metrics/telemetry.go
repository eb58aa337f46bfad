package metrics

import (
	"context"
	"strconv"
	"time"
)

// StageTelemetry adapts BusinessMetrics to the staging workflow's telemetry
// sink. It satisfies stage.Telemetry structurally, so the stage package stays
// free of any metrics dependency.
type StageTelemetry struct {
	business BusinessMetrics
}

// NewStageTelemetry returns a StageTelemetry recording through business.
func NewStageTelemetry(business BusinessMetrics) *StageTelemetry {
	return &StageTelemetry{business: business}
}

// Start records the dispatch of a staging run.
func (t *StageTelemetry) Start(event string, attrs map[string]string) {
	t.business.RecordOperation(context.Background(), "stage", event, "start")
}

// Stop records the completion of a staging run with its final status and, when
// the runner reports one, the run's duration.
func (t *StageTelemetry) Stop(event string, attrs map[string]string) {
	ctx := context.Background()

	status := attrs["status"]
	if status == "" {
		status = "ok"
	}
	t.business.RecordOperation(ctx, "stage", event, status)

	if us, err := strconv.ParseInt(attrs["duration_us"], 10, 64); err == nil {
		t.business.RecordDuration(ctx, "stage", event, time.Duration(us)*time.Microsecond, status)
	}
}
