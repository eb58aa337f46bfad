package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/sixseal/cmd/app/commands"
	"github.com/allisson/sixseal/internal/app"
	"github.com/allisson/sixseal/internal/audit"
	"github.com/allisson/sixseal/internal/config"
	"github.com/allisson/sixseal/internal/filter"
	"github.com/allisson/sixseal/internal/metrics"
)

func getFilterCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "clean",
			Usage:     "Encrypt stdin for the given path and write the wire blob to stdout (VCS clean filter)",
			ArgsUsage: "<path>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runFilter(ctx, cmd, commands.RunClean)
			},
		},
		{
			Name:      "smudge",
			Usage:     "Decrypt stdin for the given path and write plaintext to stdout (VCS smudge filter)",
			ArgsUsage: "<path>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runFilter(ctx, cmd, commands.RunSmudge)
			},
		},
	}
}

type filterRunner func(
	ctx context.Context,
	facade *filter.Facade,
	auditUseCase *audit.UseCase,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
	streams commands.IO,
	path string,
) error

// runFilter assembles the shared clean/smudge plumbing: last-argument path,
// loaded facade, operation metrics, and the optional audit sink.
func runFilter(ctx context.Context, cmd *cli.Command, run filterRunner) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("a file path argument is required")
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	defer func() { _ = container.Shutdown(ctx) }()

	facade, err := container.Facade(ctx)
	if err != nil {
		return err
	}

	// A broken metrics provider must never fail a checkout or a stage; fall
	// back to discarding recordings instead.
	business, err := container.BusinessMetrics()
	if err != nil {
		container.Logger().Warn("metrics disabled for this invocation", slog.Any("error", err))
		business = metrics.NewNoOpBusinessMetrics()
	}

	var auditUseCase *audit.UseCase
	if cfg.DBDriver != "" {
		auditUseCase, err = container.AuditUseCase(ctx)
		if err != nil {
			return err
		}
	}

	return run(ctx, facade, auditUseCase, business, container.Logger(), commands.DefaultIO(), path)
}
