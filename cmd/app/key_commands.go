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

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init",
			Usage: "Generate and persist a new master keypair",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunInitKeypair(
					ctx,
					container.KeyStore(),
					container.Logger(),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "show-fingerprint",
			Usage: "Print the master keypair's public fingerprint",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunShowFingerprint(
					ctx,
					container.KeyStore(),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:      "rotate-master-key",
			Usage:     "Replace the master keypair and re-stage the given paths under the new key",
			ArgsUsage: "[path ...]",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunRotateMasterKey(
					ctx,
					container.KeyStore(),
					container.StageRunner(stage.NewTerminalProgress(os.Stderr), 0),
					container.Logger(),
					commands.DefaultIO(),
					cmd.Args().Slice(),
				)
			},
		},
	}
}
