package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/hydrovibe/hydrosearch/cmd/hydroctl/commands"
	"github.com/hydrovibe/hydrosearch/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dotenvFlag := &cli.StringFlag{
		Name:  "dotenv",
		Usage: "environment file loaded before the configuration",
		Value: ".env",
	}

	app := &cli.Command{
		Name:    "hydroctl",
		Usage:   "resolve hydrology queries into satellite catalog search parameters",
		Version: version.String(),
		Commands: []*cli.Command{
			{
				Name:      "params",
				Usage:     "resolve a free-text query and print its search parameters",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					dotenvFlag,
					&cli.StringFlag{
						Name:    "env",
						Usage:   "configuration environment (config/<env>.yaml)",
						Value:   "local",
						Sources: cli.EnvVars("ENV"),
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "chat model, default from configuration",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "debug, info, warn or error",
						Value: "warn",
					},
					&cli.BoolFlag{
						Name:  "stac",
						Usage: "also run the matching STAC item search",
					},
				},
				Action: commands.ParamsAction,
			},
			{
				Name:  "collections",
				Usage: "list the collection catalog",
				Flags: []cli.Flag{
					dotenvFlag,
					&cli.StringFlag{
						Name:    "catalog",
						Usage:   "catalog JSON file, bundled catalog when empty",
						Sources: cli.EnvVars("CATALOG_PATH"),
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print JSON instead of a table",
					},
				},
				Action: commands.CollectionsAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "hydroctl:", err)
		os.Exit(1)
	}
}
