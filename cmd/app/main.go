// Package main provides the entry point for the sixseal CLI: the clean/smudge
// filters the host VCS invokes, the concurrent staging driver, key management,
// and the metrics/health server.
package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:     "sixseal",
		Usage:    "Transparent six-layer encryption filter for a VCS",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		// One line on stderr, nothing on stdout: the host VCS keeps the
		// original file content when a filter exits non-zero.
		fmt.Fprintf(os.Stderr, "sixseal: %v\n", err)
		os.Exit(1)
	}
}
