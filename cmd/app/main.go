// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hearthledger/hearthledger/cmd/app/commands"
	"github.com/hearthledger/hearthledger/internal/app"
	"github.com/hearthledger/hearthledger/internal/config"
)

const version = "1.0.0"

// withContainer builds the DI container, runs the given command against it,
// and shuts the container down afterwards.
func withContainer(
	ctx context.Context,
	run func(ctx context.Context, container *app.Container) error,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	return run(ctx, container)
}

func main() {
	cmd := &cli.Command{
		Name:    "hearthledger",
		Usage:   "Household ledger with per-entity field encryption and sharing",
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
				Name:  "enable-protection",
				Usage: "Create a key pair for a user, enabling field encryption",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "User ID (UUID)",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Password protecting the private key",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(ctx, func(ctx context.Context, container *app.Container) error {
						keyUseCase, err := container.KeyUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize key use case: %w", err)
						}
						return commands.RunEnableProtection(
							ctx,
							keyUseCase,
							container.Logger(),
							cmd.String("user-id"),
							cmd.String("password"),
							cmd.String("format"),
							commands.DefaultIO(),
						)
					})
				},
			},
			{
				Name:  "escrow-backup",
				Usage: "Produce a KMS-protected recovery blob of a user's key pair",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user-id",
						Aliases:  []string{"u"},
						Required: true,
						Usage:    "User ID (UUID)",
					},
					&cli.StringFlag{
						Name:    "key-uri",
						Aliases: []string{"k"},
						Usage:   "KMS key URI (defaults to ESCROW_KEY_URI)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(ctx, func(ctx context.Context, container *app.Container) error {
						keyUseCase, err := container.KeyUseCase()
						if err != nil {
							return fmt.Errorf("failed to initialize key use case: %w", err)
						}
						keyURI := cmd.String("key-uri")
						if keyURI == "" {
							keyURI = container.Config().EscrowKeyURI
						}
						return commands.RunEscrowBackup(
							ctx,
							keyUseCase,
							container.Logger(),
							cmd.String("user-id"),
							keyURI,
							cmd.String("format"),
							commands.DefaultIO(),
						)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
