package migration

import (
	"gorm.io/gorm"

	"rental-analytics/internal/models"
)

const (
	RentalSchemaVersion = "20240601000001"
	ReportViewsVersion  = "20240601000002"
)

func init() {
	RegisterMigration(&Migration{
		Version: RentalSchemaVersion,
		Name:    "create_rental_schema",
		Up:      createRentalSchema,
		Down:    dropRentalSchema,
	})
	RegisterMigration(&Migration{
		Version: ReportViewsVersion,
		Name:    "create_report_views",
		Up:      CreateReportViews,
		Down:    DropReportViews,
	})
}

// createRentalSchema creates referenced tables before referencing ones.
func createRentalSchema(tx *gorm.DB) error {
	return tx.AutoMigrate(models.ModelTypeRegistry...)
}

func dropRentalSchema(tx *gorm.DB) error {
	registry := models.ModelTypeRegistry
	for i := len(registry) - 1; i >= 0; i-- {
		if err := tx.Migrator().DropTable(registry[i]); err != nil {
			return err
		}
	}
	return nil
}
