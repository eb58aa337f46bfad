package stage

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	ierrors "github.com/allisson/sixseal/internal/errors"
)

// Runner stages deduplicated paths with bounded concurrency, retrying index
// -lock contention and stopping dispatch of new batches as soon as one batch
// fails for a reason other than lock contention. Already-dispatched batches
// are always allowed to finish.
type Runner struct {
	opts      Options
	executor  Executor
	progress  Progress
	telemetry Telemetry
}

// NewRunner builds a Runner. executor, progress and telemetry may be nil; each
// falls back to a no-op/default implementation.
func NewRunner(opts Options, executor Executor, progress Progress, telemetry Telemetry) *Runner {
	if executor == nil {
		executor = ExecExecutor{}
	}
	if progress == nil {
		progress = NoopProgress{}
	}
	if telemetry == nil {
		telemetry = NoopTelemetry{}
	}
	return &Runner{opts: opts.withDefaults(), executor: executor, progress: progress, telemetry: telemetry}
}

// Run dedupes and batches paths, then dispatches the configured add command
// over them with up to opts.MaxConcurrency running at once.
func (r *Runner) Run(ctx context.Context, paths []string) (Result, error) {
	unique := dedupe(paths)
	batches := batch(unique, r.opts.BatchSize)
	total := len(unique)

	startEvent := r.opts.TelemetryPrefix + ".start"
	stopEvent := r.opts.TelemetryPrefix + ".stop"
	started := time.Now()

	r.telemetry.Start(startEvent, map[string]string{
		"total":           fmt.Sprint(total),
		"max_concurrency": fmt.Sprint(r.opts.MaxConcurrency),
		"batch_size":      fmt.Sprint(r.opts.BatchSize),
	})
	r.progress.Start(total)
	defer r.progress.Finish()

	var limiter *rate.Limiter
	if r.opts.DispatchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.opts.DispatchRate), 1)
	}

	// stop gates dispatch of new batches only. Batches already running keep
	// the caller's context, so a non-retryable failure elsewhere never kills
	// their add-command subprocess mid-flight.
	stop := make(chan struct{})
	var stopOnce sync.Once
	halt := func() { stopOnce.Do(func() { close(stop) }) }

	g := new(errgroup.Group)
	g.SetLimit(r.opts.MaxConcurrency)

	var (
		mu        sync.Mutex
		processed int
		failed    []FailedPath
	)

dispatchLoop:
	for _, b := range batches {
		select {
		case <-stop:
			break dispatchLoop
		case <-ctx.Done():
			break dispatchLoop
		default:
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break dispatchLoop
			}
		}

		b := b
		g.Go(func() error {
			// The pool may have held this batch in the queue while another
			// batch failed; re-check before starting it.
			select {
			case <-stop:
				return nil
			default:
			}

			fp, nonRetryable := r.runBatch(ctx, b)

			mu.Lock()
			defer mu.Unlock()

			if fp == nil {
				processed += len(b)
			} else {
				failed = append(failed, *fp)
				if nonRetryable {
					halt()
				}
			}
			r.progress.Advance(len(b))
			return nil
		})
	}

	_ = g.Wait()

	remaining := total - processed
	result := Result{Total: total, Processed: processed, Remaining: remaining, Batches: len(batches), Failed: failed}

	status := "ok"
	if !result.Succeeded() {
		status = "error"
	}
	r.telemetry.Stop(stopEvent, map[string]string{
		"status":      status,
		"duration_us": fmt.Sprint(time.Since(started).Microseconds()),
		"processed":   fmt.Sprint(processed),
		"remaining":   fmt.Sprint(remaining),
		"failed":      fmt.Sprint(len(failed)),
	})

	return result, nil
}

// runBatch runs the add command over paths, retrying while the failure looks
// like index-lock contention. nonRetryable is true only when the failure is
// not lock contention — that is the signal Run uses to stop dispatching new
// batches.
func (r *Runner) runBatch(ctx context.Context, paths []string) (*FailedPath, bool) {
	args := append([]string{"add", "--"}, paths...)

	var stdout, stderr string
	var exitCode int
	var err error

	for attempt := 0; attempt <= r.opts.IndexLockRetries; attempt++ {
		stdout, stderr, exitCode, err = r.runOnce(ctx, args)
		if err == nil {
			return nil, false
		}

		if ierrors.Is(err, ierrors.ErrTaskExit) {
			return &FailedPath{Paths: paths, Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Err: err}, true
		}

		if !isIndexLockConflict(stdout, stderr) {
			return &FailedPath{Paths: paths, Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Err: err}, true
		}

		if attempt == r.opts.IndexLockRetries {
			break
		}
		if waitErr := r.backoff(ctx, attempt); waitErr != nil {
			return &FailedPath{Paths: paths, Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Err: waitErr}, false
		}
	}

	finalErr := fmt.Errorf("%w: %w after %d retries", ierrors.ErrCommandFailed, ierrors.ErrIndexLockConflict, r.opts.IndexLockRetries)
	return &FailedPath{Paths: paths, Stdout: stdout, Stderr: stderr, ExitCode: exitCode, Err: finalErr}, false
}

// runOnce dispatches a single add-command invocation, enforcing the per-batch
// timeout when one is configured. A batch killed by its timeout is a task-exit
// failure, never retried.
func (r *Runner) runOnce(ctx context.Context, args []string) (string, string, int, error) {
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	stdout, stderr, exitCode, err := r.executor.Run(ctx, r.opts.AddCommand, args)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("%w: batch exceeded %s timeout", ierrors.ErrTaskExit, r.opts.Timeout)
	}
	return stdout, stderr, exitCode, err
}

func isIndexLockConflict(stdout, stderr string) bool {
	combined := strings.ToLower(stdout + stderr)
	return strings.Contains(combined, "index.lock")
}

// backoff sleeps an exponentially growing, jittered delay before the next
// retry attempt, capped at 10x the configured base backoff.
func (r *Runner) backoff(ctx context.Context, attempt int) error {
	delay := r.opts.RetryBackoff * time.Duration(int64(1)<<uint(attempt))
	if max := r.opts.RetryBackoff * 10; delay > max {
		delay = max
	}
	jitter := time.Duration(rand.Int63n(int64(delay) + 1))

	select {
	case <-time.After(delay/2 + jitter/2):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
