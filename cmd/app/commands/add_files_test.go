package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/cmd/app/commands"
	ierrors "github.com/allisson/sixseal/internal/errors"
	"github.com/allisson/sixseal/internal/stage"
)

type recordingExecutor struct {
	mu     sync.Mutex
	calls  [][]string
	stderr string
	err    error
}

func (r *recordingExecutor) Run(ctx context.Context, command string, args []string) (string, string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
	if r.err != nil {
		return "", r.stderr, 1, r.err
	}
	return "", "", 0, nil
}

func TestRunAddFilesStagesUniquePathsOnce(t *testing.T) {
	exec := &recordingExecutor{}
	runner := stage.NewRunner(stage.Options{BatchSize: 1, MaxConcurrency: 2}, exec, nil, nil)

	var out bytes.Buffer
	err := commands.RunAddFiles(
		context.Background(),
		runner,
		testLogger(),
		commands.IO{Writer: &out},
		[]string{"a", "b", "a", "", "c"},
	)
	require.NoError(t, err)
	require.Len(t, exec.calls, 3, "duplicates and empties must be dropped")
	require.Contains(t, out.String(), "Staged 3 path(s)")
}

func TestRunAddFilesRejectsEmptyPathList(t *testing.T) {
	runner := stage.NewRunner(stage.Options{}, &recordingExecutor{}, nil, nil)

	err := commands.RunAddFiles(context.Background(), runner, testLogger(), commands.IO{Writer: &bytes.Buffer{}}, nil)
	require.ErrorIs(t, err, ierrors.ErrInvalidPaths)
}

func TestRunAddFilesSurfacesCommandFailure(t *testing.T) {
	exec := &recordingExecutor{stderr: "fatal: pathspec 'a' did not match any files", err: fmt.Errorf("exit status 128")}
	runner := stage.NewRunner(
		stage.Options{BatchSize: 1, MaxConcurrency: 1, RetryBackoff: time.Millisecond},
		exec, nil, nil,
	)

	err := commands.RunAddFiles(context.Background(), runner, testLogger(), commands.IO{Writer: &bytes.Buffer{}}, []string{"a"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "0 of 1 path(s) processed")
	require.Contains(t, err.Error(), "pathspec")
}
