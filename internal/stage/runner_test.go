package stage_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ierrors "github.com/allisson/sixseal/internal/errors"
	"github.com/allisson/sixseal/internal/stage"
)

type fakeExecutor struct {
	mu       sync.Mutex
	attempts map[string]int
	// lockUntil is how many attempts a batch sees index.lock before succeeding.
	lockUntil map[string]int
	// permanentFail marks batches that always fail with a non-lock error.
	permanentFail map[string]bool
	calls         int32
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		attempts:      make(map[string]int),
		lockUntil:     make(map[string]int),
		permanentFail: make(map[string]bool),
	}
}

func (f *fakeExecutor) key(args []string) string {
	return fmt.Sprint(args)
}

func (f *fakeExecutor) Run(ctx context.Context, command string, args []string) (string, string, int, error) {
	atomic.AddInt32(&f.calls, 1)

	f.mu.Lock()
	defer f.mu.Unlock()

	key := f.key(args)
	f.attempts[key]++

	if f.permanentFail[key] {
		return "", "fatal: bad path", 1, fmt.Errorf("exit status 1")
	}

	if f.attempts[key] <= f.lockUntil[key] {
		return "", "fatal: Unable to create '.git/index.lock': File exists.", 128, fmt.Errorf("exit status 128")
	}

	return "", "", 0, nil
}

type recordingProgress struct {
	mu      sync.Mutex
	started int
	advance int
	done    bool
}

func (p *recordingProgress) Start(total int) { p.mu.Lock(); p.started = total; p.mu.Unlock() }
func (p *recordingProgress) Advance(n int)   { p.mu.Lock(); p.advance += n; p.mu.Unlock() }
func (p *recordingProgress) Finish()         { p.mu.Lock(); p.done = true; p.mu.Unlock() }

func TestRunnerStagesAllPathsSuccessfully(t *testing.T) {
	exec := newFakeExecutor()
	progress := &recordingProgress{}
	runner := stage.NewRunner(stage.Options{BatchSize: 1, MaxConcurrency: 2}, exec, progress, nil)

	result, err := runner.Run(context.Background(), []string{"a.txt", "b.txt", "a.txt", "c.txt"})
	require.NoError(t, err)

	require.Equal(t, 3, result.Total, "duplicate paths must be deduplicated")
	require.Equal(t, 3, result.Processed)
	require.Equal(t, 3, result.Batches)
	require.Zero(t, result.Remaining)
	require.Empty(t, result.Failed)
	require.True(t, result.Succeeded())

	require.Equal(t, 3, progress.started)
	require.Equal(t, 3, progress.advance)
	require.True(t, progress.done)
}

func TestRunnerRetriesIndexLockConflict(t *testing.T) {
	exec := newFakeExecutor()
	exec.lockUntil[exec.key([]string{"add", "--", "a.txt"})] = 2

	runner := stage.NewRunner(stage.Options{BatchSize: 1, MaxConcurrency: 1, RetryBackoff: time.Millisecond}, exec, nil, nil)

	result, err := runner.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	require.GreaterOrEqual(t, exec.attempts[exec.key([]string{"add", "--", "a.txt"})], 3)
}

func TestRunnerGivesUpAfterExhaustingRetries(t *testing.T) {
	exec := newFakeExecutor()
	exec.lockUntil[exec.key([]string{"add", "--", "a.txt"})] = 1000

	runner := stage.NewRunner(
		stage.Options{BatchSize: 1, MaxConcurrency: 1, IndexLockRetries: 2, RetryBackoff: time.Millisecond},
		exec, nil, nil,
	)

	result, err := runner.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)
	require.Len(t, result.Failed, 1)
	require.Equal(t, 1, result.Remaining)
}

func TestRunnerNonRetryableFailureCancelsUndispatchedBatches(t *testing.T) {
	exec := newFakeExecutor()
	exec.permanentFail[exec.key([]string{"add", "--", "bad.txt"})] = true

	runner := stage.NewRunner(stage.Options{BatchSize: 1, MaxConcurrency: 1}, exec, nil, nil)

	result, err := runner.Run(context.Background(), []string{"bad.txt", "never-dispatched.txt"})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	require.Equal(t, "bad.txt", result.Failed[0].Paths[0])
	require.Equal(t, 2, result.Remaining, "the second path must never be dispatched once the first fails non-retryably")
	require.Zero(t, exec.attempts[exec.key([]string{"add", "--", "never-dispatched.txt"})])
}

func TestRunnerBatchesPaths(t *testing.T) {
	exec := newFakeExecutor()
	runner := stage.NewRunner(stage.Options{BatchSize: 2, MaxConcurrency: 2}, exec, nil, nil)

	result, err := runner.Run(context.Background(), []string{"a.txt", "b.txt", "c.txt"})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	require.Equal(t, int32(2), exec.calls, "3 paths at batch size 2 means 2 add invocations")
}

type recordingTelemetry struct {
	mu     sync.Mutex
	starts []map[string]string
	stops  []map[string]string
	events []string
}

func (r *recordingTelemetry) Start(event string, attrs map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.starts = append(r.starts, attrs)
}

func (r *recordingTelemetry) Stop(event string, attrs map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	r.stops = append(r.stops, attrs)
}

func TestRunnerEmitsOneStartAndOneStopEvent(t *testing.T) {
	exec := newFakeExecutor()
	telemetry := &recordingTelemetry{}
	runner := stage.NewRunner(
		stage.Options{BatchSize: 1, MaxConcurrency: 2, TelemetryPrefix: "test.stage"},
		exec, nil, telemetry,
	)

	_, err := runner.Run(context.Background(), []string{"a.txt", "b.txt"})
	require.NoError(t, err)

	require.Equal(t, []string{"test.stage.start", "test.stage.stop"}, telemetry.events)
	require.Equal(t, "2", telemetry.starts[0]["total"])
	require.Equal(t, "ok", telemetry.stops[0]["status"])
	require.NotEmpty(t, telemetry.stops[0]["duration_us"])
}

func TestRunnerEmitsStopEventOnFailure(t *testing.T) {
	exec := newFakeExecutor()
	exec.permanentFail[exec.key([]string{"add", "--", "bad.txt"})] = true
	telemetry := &recordingTelemetry{}
	runner := stage.NewRunner(stage.Options{BatchSize: 1, MaxConcurrency: 1}, exec, nil, telemetry)

	_, err := runner.Run(context.Background(), []string{"bad.txt"})
	require.NoError(t, err)

	require.Len(t, telemetry.stops, 1)
	require.Equal(t, "error", telemetry.stops[0]["status"])
}

func TestRunnerRetryBoundAndErrorKind(t *testing.T) {
	exec := newFakeExecutor()
	key := exec.key([]string{"add", "--", "a.txt"})
	exec.lockUntil[key] = 1000

	runner := stage.NewRunner(
		stage.Options{BatchSize: 1, MaxConcurrency: 1, IndexLockRetries: 3, RetryBackoff: time.Millisecond},
		exec, nil, nil,
	)

	result, err := runner.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	require.Equal(t, 4, exec.attempts[key], "retries=3 means exactly 4 attempts")
	require.ErrorIs(t, result.Failed[0].Err, ierrors.ErrCommandFailed)
	require.ErrorIs(t, result.Failed[0].Err, ierrors.ErrIndexLockConflict)
}

func TestRunnerDetectsIndexLockCaseInsensitively(t *testing.T) {
	require.True(t, stage.IsIndexLockConflictForTest("", "fatal: Unable to create INDEX.LOCK"))
	require.True(t, stage.IsIndexLockConflictForTest("error touching index.lock", ""))
	require.False(t, stage.IsIndexLockConflictForTest("", "fatal: pathspec did not match"))
}

type slowExecutor struct{}

func (slowExecutor) Run(ctx context.Context, command string, args []string) (string, string, int, error) {
	select {
	case <-ctx.Done():
		return "", "", -1, ctx.Err()
	case <-time.After(time.Second):
		return "", "", 0, nil
	}
}

func TestRunnerTimeoutReportsTaskExit(t *testing.T) {
	runner := stage.NewRunner(
		stage.Options{BatchSize: 1, MaxConcurrency: 1, Timeout: 10 * time.Millisecond},
		slowExecutor{}, nil, nil,
	)

	result, err := runner.Run(context.Background(), []string{"a.txt"})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	require.ErrorIs(t, result.Failed[0].Err, ierrors.ErrTaskExit)
}

// inFlightExecutor holds "slow.txt" in flight and only lets "bad.txt" fail
// once the slow batch has started running. If the runner cancelled the context
// of in-flight batches on a non-retryable failure, the slow batch would abort
// instead of completing.
type inFlightExecutor struct {
	slowStarted chan struct{}
	release     chan struct{}
}

func (e *inFlightExecutor) Run(ctx context.Context, command string, args []string) (string, string, int, error) {
	if fmt.Sprint(args) == fmt.Sprint([]string{"add", "--", "bad.txt"}) {
		<-e.slowStarted
		close(e.release)
		return "", "fatal: bad path", 1, fmt.Errorf("exit status 1")
	}

	close(e.slowStarted)
	<-e.release
	// Give the reducer time to observe bad.txt's failure before finishing, so
	// any wrongful cancellation would be visible on ctx here.
	time.Sleep(20 * time.Millisecond)
	if ctx.Err() != nil {
		return "", "", -1, ctx.Err()
	}
	return "", "", 0, nil
}

func TestRunnerInFlightBatchFinishesAfterNonRetryableFailure(t *testing.T) {
	exec := &inFlightExecutor{slowStarted: make(chan struct{}), release: make(chan struct{})}
	runner := stage.NewRunner(stage.Options{BatchSize: 1, MaxConcurrency: 2}, exec, nil, nil)

	result, err := runner.Run(context.Background(), []string{"slow.txt", "bad.txt"})
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	require.Equal(t, "bad.txt", result.Failed[0].Paths[0])
	require.Equal(t, 1, result.Processed, "the in-flight batch must run to completion, not be killed")
	require.Equal(t, 1, result.Remaining)
}
