package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"repair-office/internal/dto"
	"repair-office/internal/repositories"
	"repair-office/internal/services"
	"repair-office/pkg/config"
	"repair-office/pkg/database/postgresql"
	applogger "repair-office/pkg/logger"
	"repair-office/pkg/service"
	"repair-office/pkg/validation"
	"repair-office/seeders"
)

func seedCmd() *cobra.Command {
	var member dto.RegisterMemberDTO

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first back office member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.New().Validate(member); err != nil {
				return fmt.Errorf("invalid member: %w", err)
			}

			cfg := config.New()
			logger := applogger.NewLogger(cfg.Log.Level, "")
			defer logger.Sync() //nolint:errcheck

			pool, err := postgresql.ConnectDB(cmd.Context(), cfg.Postgres.DSN, 2, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			memberService := services.NewMemberService(
				repositories.NewMemberRepository(postgresql.NewDB(pool, logger), logger),
				repositories.NewMemoryCacheRepository(nil),
				service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger),
				cfg.Auth,
				logger,
			)

			created, err := seeders.SeedMembers(cmd.Context(), memberService, []dto.RegisterMemberDTO{member}, logger)
			if err != nil {
				return err
			}
			if created == 0 {
				fmt.Println(color.New(color.FgYellow).Sprint("member already exists"), member.Email)
				return nil
			}
			fmt.Println(color.New(color.FgGreen).Sprint("member created"), member.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&member.Email, "email", "", "login email")
	cmd.Flags().StringVar(&member.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&member.FName, "fname", "Admin", "first name")
	cmd.Flags().StringVar(&member.LName, "lname", "Office", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
