package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rental-analytics/internal/config"
	"rental-analytics/internal/database"
)

func getDB(cmd *cobra.Command, cfg *config.Config) (*gorm.DB, error) {
	debug, _ := cmd.Flags().GetBool("debug")

	db, err := database.Open(database.Config{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabaseURL,
		Debug:  debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// withDB loads configuration, opens the database and closes it once fn
// returns.
func withDB(cmd *cobra.Command, fn func(db *gorm.DB, cfg *config.Config) error) error {
	cfg := config.Load()

	db, err := getDB(cmd, cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(db, cfg)
}
