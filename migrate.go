package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"medcare/pkg/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			dir := migrationsDir(cmd, a.cfg.Migrations.Dir)
			return database.RunMigrations(cmd.Context(), a.db, dir, a.logger)
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			dir := migrationsDir(cmd, a.cfg.Migrations.Dir)

			applied, err := database.AppliedMigrations(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			pending, err := database.PendingMigrations(cmd.Context(), a.db, dir, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, m := range applied {
				fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", m.Version, m.Name, "applied", m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			for _, m := range pending {
				fmt.Fprintf(out, "%-10s %-40s %-10s\n", m.Version, m.Name, "pending")
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (defaults to MIGRATIONS_DIR)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func migrationsDir(cmd *cobra.Command, fallback string) string {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir
	}
	return fallback
}
