package cmd

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/coursetrans/coursetrans/internal/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database schema migrations",
}

// migrateUpCmd represents the migrate up command
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("Database is already up to date")
				return nil
			}
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Println("Migrations applied")
		return nil
	},
}

// migrateDownCmd represents the migrate down command
var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator(cmd)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Steps(-1); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("Nothing to roll back")
				return nil
			}
			return fmt.Errorf("rollback failed: %w", err)
		}

		fmt.Println("Rolled back one migration")
		return nil
	},
}

func newMigrator(cmd *cobra.Command) (*migrate.Migrate, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	path, _ := cmd.Flags().GetString("path")
	return migrate.New("file://"+path, cfg.DatabaseURL)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateCmd.PersistentFlags().String("path", "migrations", "Path to the migrations directory")
}
