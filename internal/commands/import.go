package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rental-analytics/internal/config"
	"rental-analytics/internal/importer"
)

func ImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [csv]",
		Short: "Load the cleaned rental dataset into the database",
		Long:  `Reads the flat, cleaned rental CSV, splits it into vehicles, locations and rentals, and writes all three tables in a single transaction. Run "up" first so the tables exist.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			replace, _ := cmd.Flags().GetBool("replace")
			batchSize, _ := cmd.Flags().GetInt("batch-size")

			return withDB(cmd, func(db *gorm.DB, cfg *config.Config) error {
				if batchSize <= 0 {
					batchSize = cfg.ImportBatchSize
				}

				imp := importer.New(db, importer.Options{BatchSize: batchSize, Replace: replace})
				summary, err := imp.ImportFile(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to import %s: %w", args[0], err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rentals, %d vehicles, %d locations\n",
					summary.Rentals, summary.Vehicles, summary.Locations)
				return nil
			})
		},
	}

	cmd.Flags().Bool("replace", false, "Clear existing rental data before importing")
	cmd.Flags().Int("batch-size", 0, "Rows per insert statement (defaults to IMPORT_BATCH_SIZE)")

	return cmd
}
