package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medcare/internal/cache"
	"medcare/internal/domain"
	"medcare/internal/repository"
	"medcare/internal/service"
	"medcare/pkg/metrics"
)

// createAdminCmd bootstraps an admin account; the API never lets anyone
// register one.
func createAdminCmd() *cobra.Command {
	var dto domain.CreateAdminDTO

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			services := service.NewServices(service.Deps{
				Repos:   repository.NewRepositories(a.db),
				Logger:  a.logger,
				Config:  a.cfg,
				Cache:   cache.New(a.cfg.Cache.TTL, a.cfg.Cache.CleanupInterval),
				Metrics: metrics.New("medcare", prometheus.NewRegistry()),
			})

			id, err := services.User.CreateAdmin(cmd.Context(), dto)
			if err != nil {
				a.logger.Error("failed to create admin", zap.String("email", dto.Email), zap.Error(err))
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin created with id %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dto.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&dto.Email, "email", "", "Login e-mail")
	cmd.Flags().StringVar(&dto.Phone, "phone", "", "10 digit phone number")
	cmd.Flags().StringVar(&dto.Password, "password", "", "Initial password")
	for _, name := range []string{"name", "email", "password", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
