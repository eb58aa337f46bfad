package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	ierrors "github.com/allisson/sixseal/internal/errors"
	"github.com/allisson/sixseal/internal/stage"
)

// RunAddFiles drives the concurrent staging workflow over paths, triggering
// the clean filter per matching file through the host VCS's add verb.
func RunAddFiles(
	ctx context.Context,
	runner *stage.Runner,
	logger *slog.Logger,
	streams IO,
	paths []string,
) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one path is required", ierrors.ErrInvalidPaths)
	}

	logger.Info("staging paths", slog.Int("count", len(paths)))

	result, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}

	if !result.Succeeded() {
		return stagingFailure(result)
	}

	_, _ = fmt.Fprintf(streams.Writer, "Staged %d path(s)\n", result.Processed)
	return nil
}

// stagingFailure renders a failed staging run into an error carrying the
// running tally and the first failing batch's diagnostics, so a caller can
// report partial progress.
func stagingFailure(result stage.Result) error {
	if len(result.Failed) == 0 {
		return fmt.Errorf("%w: staging interrupted with %d of %d path(s) processed",
			ierrors.ErrCommandFailed, result.Processed, result.Total)
	}

	first := result.Failed[0]

	var b strings.Builder
	fmt.Fprintf(&b, "staging failed: %d of %d path(s) processed, %d remaining", result.Processed, result.Total, result.Remaining)
	fmt.Fprintf(&b, "; failing batch %v", first.Paths)
	if first.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit status %d)", first.ExitCode)
	}
	if s := strings.TrimSpace(first.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}

	return fmt.Errorf("%w: %s", first.Err, b.String())
}
