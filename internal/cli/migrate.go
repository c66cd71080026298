// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMigrateCommand(runtime Runtime) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := runtime.LoadConfig()
			if err != nil {
				return err
			}
			return runtime.MigrateUp(cfg.DatabaseURL, cfg.MigrationPath, runtime.Logger)
		},
	}

	down := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back the last migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = parsed
			}

			cfg, err := runtime.LoadConfig()
			if err != nil {
				return err
			}
			return runtime.MigrateDown(cfg.DatabaseURL, cfg.MigrationPath, steps, runtime.Logger)
		},
	}

	migrate.AddCommand(up, down)
	return migrate
}
