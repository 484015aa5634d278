package migration

import (
	"path/filepath"
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
	dsn := filepath.Join(t.TempDir(), "migrations.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db
}

func tableExists(t *testing.T, db *gorm.DB, name string) bool {
	t.Helper()
	var count int64
	err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count).Error
	require.NoError(t, err)
	return count == 1
}

func TestMigrator_Up(t *testing.T) {
	db := setupTestDB(t)
	migrator := NewEmptyMigrator(db)

	testMigration := &Migration{
		Version: "20240315000001",
		Name:    "test_migration",
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP TABLE test").Error
		},
	}
	migrator.Register(testMigration)

	applied, err := migrator.Up()
	require.NoError(t, err)
	require.Len(t, applied, 1)

	var record MigrationRecord
	err = db.Where("version = ?", testMigration.Version).First(&record).Error
	require.NoError(t, err)
	assert.Equal(t, testMigration.Name, record.Name)
	assert.True(t, tableExists(t, db, "test"))

	// a second run has nothing left to do
	applied, err = migrator.Up()
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMigrator_UpRollsBackFailedMigration(t *testing.T) {
	db := setupTestDB(t)
	migrator := NewEmptyMigrator(db)

	migrator.Register(&Migration{
		Version: "20240315000001",
		Name:    "broken",
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE broken (").Error
		},
		Down: func(db *gorm.DB) error { return nil },
	})

	_, err := migrator.Up()
	assert.ErrorContains(t, err, "failed to apply migration broken")

	pending, err := migrator.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestMigrator_Down(t *testing.T) {
	db := setupTestDB(t)
	migrator := NewEmptyMigrator(db)

	migrator.Register(&Migration{
		Version: "20240315000001",
		Name:    "test_migration",
		Up: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec("DROP TABLE test").Error
		},
	})

	_, err := migrator.Up()
	require.NoError(t, err)

	reverted, err := migrator.Down()
	require.NoError(t, err)
	assert.Equal(t, "test_migration", reverted.Name)

	var record MigrationRecord
	err = db.Where("version = ?", "20240315000001").First(&record).Error
	assert.Error(t, err)
	assert.False(t, tableExists(t, db, "test"))

	_, err = migrator.Down()
	assert.ErrorIs(t, err, ErrNoMigrations)
}

func TestMigrator_DownUnknownVersion(t *testing.T) {
	db := setupTestDB(t)
	migrator := NewEmptyMigrator(db)
	require.NoError(t, migrator.EnsureVersionTable())
	require.NoError(t, db.Create(&MigrationRecord{Version: "19990101000000", Name: "gone"}).Error)

	_, err := migrator.Down()
	assert.ErrorContains(t, err, "19990101000000")
}

func TestRegisteredMigrationsAreOrdered(t *testing.T) {
	migrations := GetRegisteredMigrations()
	require.GreaterOrEqual(t, len(migrations), 2)
	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Version, migrations[i].Version)
	}
	assert.Equal(t, RentalSchemaVersion, migrations[0].Version)
}

func TestRentalSchemaLifecycle(t *testing.T) {
	db := setupTestDB(t)
	migrator := NewMigrator(db)

	applied, err := migrator.Up()
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	for _, table := range []string{"vehicles", "locations", "rentals", "schema_migrations"} {
		assert.True(t, tableExists(t, db, table), table)
	}

	statuses, err := migrator.Status()
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	for _, s := range statuses {
		assert.True(t, s.Applied, s.Name)
		assert.NotNil(t, s.AppliedAt)
	}

	history, err := migrator.History()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ReportViewsVersion, history[0].Version)

	// views are a no-op on sqlite, then the schema goes
	reverted, err := migrator.Down()
	require.NoError(t, err)
	assert.Equal(t, "create_report_views", reverted.Name)
	assert.True(t, tableExists(t, db, "rentals"))

	reverted, err = migrator.Down()
	require.NoError(t, err)
	assert.Equal(t, "create_rental_schema", reverted.Name)
	for _, table := range []string{"vehicles", "locations", "rentals"} {
		assert.False(t, tableExists(t, db, table), table)
	}

	statuses, err = migrator.Status()
	require.NoError(t, err)
	for _, s := range statuses {
		assert.False(t, s.Applied, s.Name)
	}
}

func TestRentalSchemaEnforcesLocationUniqueness(t *testing.T) {
	db := setupTestDB(t)
	_, err := NewMigrator(db).Up()
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Location{ID: 1, City: "Austin", Country: "US"}).Error)
	err = db.Create(&models.Location{ID: 2, City: "Austin", Country: "US"}).Error
	assert.Error(t, err)
}
