package stage

import (
	"bytes"
	"context"
	"os/exec"
)

// Executor runs the configured add command against a batch of paths.
type Executor interface {
	Run(ctx context.Context, command string, args []string) (stdout, stderr string, exitCode int, err error)
}

// ExecExecutor runs commands via os/exec, the default for production use.
type ExecExecutor struct{}

func (ExecExecutor) Run(ctx context.Context, command string, args []string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		exitCode = -1
	}

	return stdout.String(), stderr.String(), exitCode, err
}
