package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rental-analytics/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "import.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelTypeRegistry...))
	return db
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

const sample = "vehicle_id,make,model,type,city,country,owner_id,daily_rate,rating,renter_trips_taken,review_count\n" +
	"1,Tesla,Model 3,car,Seattle,US,10,135,4.9,56,40\n" +
	"2,Jeep,Wrangler,suv,Seattle,US,11,90,4.7,20,15\n" +
	"2,Jeep,Wrangler,suv,Denver,US,11,95,4.8,12,9\n"

func TestImport(t *testing.T) {
	db := setupTestDB(t)

	summary, err := New(db, Options{BatchSize: 2}).Import(context.Background(), strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, &Summary{Vehicles: 2, Locations: 2, Rentals: 3}, summary)

	assert.Equal(t, int64(2), countRows(t, db, &models.Vehicle{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.Location{}))
	assert.Equal(t, int64(3), countRows(t, db, &models.Rental{}))

	var rental models.Rental
	require.NoError(t, db.Preload("Vehicle").Preload("Location").First(&rental, 3).Error)
	assert.Equal(t, "Jeep", rental.Vehicle.Make)
	assert.Equal(t, "Denver", rental.Location.City)
}

func TestImportRefusesNonEmptySchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := New(db, Options{}).Import(ctx, strings.NewReader(sample))
	require.NoError(t, err)

	_, err = New(db, Options{}).Import(ctx, strings.NewReader(sample))
	assert.ErrorIs(t, err, ErrSchemaNotEmpty)
	assert.Equal(t, int64(3), countRows(t, db, &models.Rental{}))
}

func TestImportReplace(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := New(db, Options{}).Import(ctx, strings.NewReader(sample))
	require.NoError(t, err)

	smaller := "vehicle_id,make,model,type,city,country,owner_id\n9,Kia,Soul,car,Austin,US,1\n"
	summary, err := New(db, Options{Replace: true}).Import(ctx, strings.NewReader(smaller))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Rentals)

	assert.Equal(t, int64(1), countRows(t, db, &models.Vehicle{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Location{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Rental{}))
}

func TestLoadRollsBackOnConstraintViolation(t *testing.T) {
	db := setupTestDB(t)

	ds := &Dataset{
		Vehicles:  []models.Vehicle{{ID: 1, Make: "Kia", Model: "Soul", Type: "car"}},
		Locations: []models.Location{{ID: 1, City: "Austin", Country: "US"}},
		Rentals: []models.Rental{
			{ID: 1, OwnerID: 1, VehicleID: 1, LocationID: 1},
			{ID: 2, OwnerID: 1, VehicleID: 404, LocationID: 1},
		},
	}

	err := New(db, Options{}).Load(context.Background(), ds)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to insert rentals")

	assert.Equal(t, int64(0), countRows(t, db, &models.Vehicle{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Rental{}))
}

func TestImportFile(t *testing.T) {
	db := setupTestDB(t)

	path := filepath.Join(t.TempDir(), "rentals.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	summary, err := New(db, Options{}).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Rentals)

	_, err = New(db, Options{}).ImportFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "failed to open")
}
