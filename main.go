package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// @title MedCare API
// @version 1.0
// @description Doctor availability, appointment booking and medical records.

// @contact.name MedCare API Support

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:           "medcare",
		Short:         "MedCare appointment and medical records API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
