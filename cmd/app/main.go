// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/pensionseva/eisgateway/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "eisgateway",
		Usage:   "Pension verification gateway for the EIS envelope protocol",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-keypair",
				Usage: "Generate an RSA key pair with a self-signed certificate",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Value:   "credentials",
						Usage:   "Output directory for the PEM files",
					},
					&cli.StringFlag{
						Name:    "common-name",
						Aliases: []string{"cn"},
						Value:   "eisgateway",
						Usage:   "Certificate subject common name",
					},
					&cli.IntFlag{
						Name:    "bits",
						Aliases: []string{"b"},
						Value:   2048,
						Usage:   "RSA key size in bits (minimum 2048)",
					},
					&cli.IntFlag{
						Name:    "days",
						Aliases: []string{"d"},
						Value:   365,
						Usage:   "Certificate validity in days",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateKeypair(
						cmd.String("out"),
						cmd.String("common-name"),
						int(cmd.Int("bits")),
						int(cmd.Int("days")),
						os.Stdout,
					)
				},
			},
			{
				Name:  "inspect-credentials",
				Usage: "Print validity windows of the configured RSA credentials",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunInspectCredentials(ctx, os.Stdout)
				},
			},
			{
				Name:  "generate-reference",
				Usage: "Generate reference numbers for integration testing",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "source-id",
						Aliases: []string{"s"},
						Value:   "PV",
						Usage:   "Two-character source identifier",
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"c"},
						Value:   1,
						Usage:   "Number of reference numbers to generate",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerateReference(
						cmd.String("source-id"),
						int(cmd.Int("count")),
						os.Stdout,
					)
				},
			},
			{
				Name:  "hash-api-key",
				Usage: "Print the Argon2id hash of an API key for API_KEY_HASH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "key",
						Aliases:  []string{"k"},
						Required: true,
						Usage:    "Plaintext API key to hash",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunHashAPIKey(cmd.String("key"), os.Stdout)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
