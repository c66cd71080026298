// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package cli implements sakanctl, the operator command line used for schema
// migrations and back-office account provisioning.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/sakan/internal/platform/config"
	"github.com/taibuivan/sakan/internal/platform/migration"
	"github.com/taibuivan/sakan/internal/users/auth"
)

// AdminCreator provisions back-office accounts.
type AdminCreator interface {
	CreateAdmin(ctx context.Context, input auth.CreateAdminInput) (*auth.Admin, error)
}

// Runtime holds the collaborators the commands reach for. Tests swap them
// for fakes; [DefaultRuntime] wires the real ones.
type Runtime struct {
	Logger      *slog.Logger
	LoadConfig  func() (*config.DatabaseConfig, error)
	MigrateUp   func(dsn, path string, logger *slog.Logger) error
	MigrateDown func(dsn, path string, steps int, logger *slog.Logger) error

	// OpenAdmins connects to the database and returns a creator plus the
	// function that releases the connection.
	OpenAdmins func(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (AdminCreator, func(), error)
}

// DefaultRuntime returns the production wiring.
func DefaultRuntime(logger *slog.Logger) Runtime {
	return Runtime{
		Logger:      logger,
		LoadConfig:  config.LoadDatabase,
		MigrateUp:   migration.RunUp,
		MigrateDown: migration.RunDown,
		OpenAdmins:  openAdmins,
	}
}

// NewRootCommand builds the sakanctl command tree.
func NewRootCommand(runtime Runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "sakanctl",
		Short: "Operator tooling for the Sakan API",
		Long: `sakanctl manages the Sakan database schema and provisions back-office
administrators. It reads DATABASE_URL and MIGRATION_PATH from the
environment or from a local .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCommand(runtime), newAdminCommand(runtime))
	return root
}

// Execute runs the command tree with the given context.
func Execute(ctx context.Context, runtime Runtime, args []string) error {
	root := NewRootCommand(runtime)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
