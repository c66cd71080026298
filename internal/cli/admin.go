// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/sakan/internal/platform/config"
	pgstore "github.com/taibuivan/sakan/internal/platform/postgres"
	"github.com/taibuivan/sakan/internal/platform/validate"
	"github.com/taibuivan/sakan/internal/users/auth"
	"github.com/taibuivan/sakan/pkg/locale"
)

type adminFlags struct {
	nameAr   string
	nameEn   string
	email    string
	password string
	superID  int64
}

func newAdminCommand(runtime Runtime) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage back-office administrators",
	}

	flags := &adminFlags{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAdmin(cmd, runtime, flags)
		},
	}

	create.Flags().StringVar(&flags.nameAr, "name", "", "display name (Arabic)")
	create.Flags().StringVar(&flags.nameEn, "name-en", "", "display name (English)")
	create.Flags().StringVar(&flags.email, "email", "", "login email")
	create.Flags().StringVar(&flags.password, "password", "", "login password")
	create.Flags().Int64Var(&flags.superID, "super-id", 0, "id of the supervising admin")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	admin.AddCommand(create)
	return admin
}

func runCreateAdmin(cmd *cobra.Command, runtime Runtime, flags *adminFlags) error {
	input := auth.CreateAdminInput{
		Name:     locale.Text{Ar: flags.nameAr},
		Email:    flags.email,
		Password: flags.password,
	}
	if flags.nameEn != "" {
		input.Name.En = &flags.nameEn
	}
	if flags.superID > 0 {
		input.SuperID = &flags.superID
	}

	validator := &validate.Validator{}
	validator.Text("name", input.Name).
		Email("email", input.Email).
		MinLen("password", input.Password, 8)
	if err := validator.Err(); err != nil {
		return err
	}

	cfg, err := runtime.LoadConfig()
	if err != nil {
		return err
	}

	creator, release, err := runtime.OpenAdmins(cmd.Context(), cfg, runtime.Logger)
	if err != nil {
		return err
	}
	defer release()

	created, err := creator.CreateAdmin(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	runtime.Logger.InfoContext(cmd.Context(), "admin_created",
		slog.Int64("admin_id", created.ID),
		slog.String("email", created.Email),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %d (%s)\n", created.ID, created.Email)
	return nil
}

// openAdmins connects a pool and builds an auth service that only needs the
// admin repository.
func openAdmins(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (AdminCreator, func(), error) {
	if cfg == nil || cfg.DatabaseURL == "" {
		return nil, nil, errors.New("DATABASE_URL is not set")
	}

	pool, err := pgstore.NewPoolWithOptions(ctx, cfg.DatabaseURL, pgstore.PoolOptions{MaxConns: 2}, logger)
	if err != nil {
		return nil, nil, err
	}

	service := auth.NewService(nil, auth.NewAdminRepository(pool), nil, nil, nil, nil)
	return service, pool.Close, nil
}
