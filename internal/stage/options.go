// Package stage implements the concurrent "add changed paths to the VCS index"
// workflow: deduplicate and batch paths, dispatch the host VCS add verb with
// bounded parallelism, retry index-lock contention with backoff, and report
// rich failure context for whatever didn't make it in.
package stage

import (
	"runtime"
	"time"
)

// Options configures a Runner. Zero values are replaced with sensible defaults
// by NewRunner, mirroring the defaults internal/config.Config loads.
type Options struct {
	// MaxConcurrency bounds how many add-command processes run at once.
	MaxConcurrency int

	// BatchSize is how many deduplicated paths go into a single add-command
	// invocation. 1 means one path per process.
	BatchSize int

	// IndexLockRetries is how many times a batch retries after the VCS reports
	// index-lock contention before giving up on it.
	IndexLockRetries int

	// RetryBackoff is the base delay before a retry; actual delay grows
	// exponentially with jitter, capped at 10x this value.
	RetryBackoff time.Duration

	// AddCommand is the executable invoked to stage paths, e.g. "git".
	AddCommand string

	// Timeout is the per-batch wall-clock limit. A batch that exceeds it is
	// killed and reported as a task-exit failure. Zero means no limit.
	Timeout time.Duration

	// TelemetryPrefix is prepended to the start/stop event names emitted
	// through the Telemetry sink.
	TelemetryPrefix string

	// DispatchRate optionally throttles how many add-command processes are
	// started per second, independent of MaxConcurrency. Zero disables
	// throttling.
	DispatchRate float64
}

// withDefaults returns a copy of o with zero fields replaced by defaults.
func (o Options) withDefaults() Options {
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = runtime.NumCPU()
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 1
	}
	if o.IndexLockRetries <= 0 {
		o.IndexLockRetries = 25
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 50 * time.Millisecond
	}
	if o.AddCommand == "" {
		o.AddCommand = "git"
	}
	if o.TelemetryPrefix == "" {
		o.TelemetryPrefix = "sixseal.stage"
	}
	return o
}
