package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/sixseal/cmd/app/commands"
	"github.com/allisson/sixseal/internal/app"
	"github.com/allisson/sixseal/internal/config"
	"github.com/allisson/sixseal/internal/stage"
)

func getStageCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "add",
			Usage:     "Stage paths through the host VCS with bounded concurrency, encrypting each via the clean filter",
			ArgsUsage: "<path ...>",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "max-concurrency",
					Aliases: []string{"c"},
					Value:   0,
					Usage:   "Concurrent add invocations (0 means the configured default)",
				},
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   0,
					Usage:   "Paths per add invocation (0 means the configured default)",
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Value: 0,
					Usage: "Per-batch wall-clock limit (0 means none)",
				},
				&cli.BoolFlag{
					Name:    "quiet",
					Aliases: []string{"q"},
					Value:   false,
					Usage:   "Disable the terminal progress bar",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if n := int(cmd.Int("max-concurrency")); n > 0 {
					cfg.StageMaxConcurrency = n
				}
				if n := int(cmd.Int("batch-size")); n > 0 {
					cfg.StageBatchSize = n
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				var progress stage.Progress
				if !cmd.Bool("quiet") {
					progress = stage.NewTerminalProgress(os.Stderr)
				}

				runner := container.StageRunner(progress, cmd.Duration("timeout"))

				return commands.RunAddFiles(
					ctx,
					runner,
					container.Logger(),
					commands.DefaultIO(),
					cmd.Args().Slice(),
				)
			},
		},
	}
}
