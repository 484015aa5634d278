package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rental-analytics/internal/config"
	"rental-analytics/internal/migration"
)

func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize migration tracking table in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(db *gorm.DB, _ *config.Config) error {
				if err := migration.NewMigrator(db).EnsureVersionTable(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migration system initialized successfully")
				return nil
			})
		},
	}
}

func UpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out := cmd.OutOrStdout()

			return withDB(cmd, func(db *gorm.DB, _ *config.Config) error {
				migrator := migration.NewMigrator(db)

				pending, err := migrator.Pending()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(out, "No pending migrations.")
					return nil
				}

				if dryRun {
					fmt.Fprintln(out, "Pending migrations:")
					for _, m := range pending {
						fmt.Fprintf(out, "- %s (%s)\n", m.Name, m.Version)
					}
					return nil
				}

				applied, err := migrator.Up()
				for _, m := range applied {
					fmt.Fprintf(out, "Successfully applied migration: %s\n", m.Name)
				}
				return err
			})
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")

	return cmd
}

func DownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(db *gorm.DB, _ *config.Config) error {
				reverted, err := migration.NewMigrator(db).Down()
				if errors.Is(err, migration.ErrNoMigrations) {
					fmt.Fprintln(cmd.OutOrStdout(), "No migrations to revert.")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Successfully reverted migration: %s\n", reverted.Name)
				return nil
			})
		},
	}
}

func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(db *gorm.DB, _ *config.Config) error {
				statuses, err := migration.NewMigrator(db).Status()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
				for _, s := range statuses {
					status := "Pending"
					if s.Applied {
						status = "Applied"
					}
					fmt.Fprintf(out, "%-16s  %-30s  %-8s\n", s.Version, s.Name, status)
				}
				return nil
			})
		},
	}
}

func HistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show migration history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(db *gorm.DB, _ *config.Config) error {
				records, err := migration.NewMigrator(db).History()
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No migrations have been applied yet.")
					return nil
				}

				fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", "Version", "Name", "Applied At")
				for _, record := range records {
					fmt.Fprintf(out, "%-16s  %-30s  %-24s\n", record.Version, record.Name, record.AppliedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}
