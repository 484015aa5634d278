package migration

import (
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrNoMigrations = errors.New("no migrations to revert")

// Migrator handles the execution of migrations
type Migrator struct {
	db         *gorm.DB
	migrations []*Migration
}

// NewMigrator creates a Migrator loaded with the registered migrations
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetRegisteredMigrations(),
	}
}

// NewEmptyMigrator creates a Migrator without any migrations
func NewEmptyMigrator(db *gorm.DB) *Migrator {
	return &Migrator{db: db}
}

// Register adds a migration to the migrator, keeping version order
func (m *Migrator) Register(migration *Migration) {
	m.migrations = append(m.migrations, migration)
	sort.SliceStable(m.migrations, func(i, j int) bool {
		return m.migrations[i].Version < m.migrations[j].Version
	})
}

func (m *Migrator) Migrations() []*Migration {
	return m.migrations
}

// EnsureVersionTable creates the version tracking table if it doesn't exist
func (m *Migrator) EnsureVersionTable() error {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

// AppliedVersions returns a map of applied migration versions
func (m *Migrator) AppliedVersions() (map[string]MigrationRecord, error) {
	if err := m.EnsureVersionTable(); err != nil {
		return nil, err
	}

	var records []MigrationRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	versions := make(map[string]MigrationRecord, len(records))
	for _, record := range records {
		versions[record.Version] = record
	}
	return versions, nil
}

// Pending returns the migrations not applied yet, oldest first
func (m *Migrator) Pending() ([]*Migration, error) {
	applied, err := m.AppliedVersions()
	if err != nil {
		return nil, err
	}

	var pending []*Migration
	for _, mr := range m.migrations {
		if _, ok := applied[mr.Version]; !ok {
			pending = append(pending, mr)
		}
	}
	return pending, nil
}

// Up applies all pending migrations, each in its own transaction
func (m *Migrator) Up() ([]*Migration, error) {
	pending, err := m.Pending()
	if err != nil {
		return nil, err
	}

	var done []*Migration
	for _, mr := range pending {
		entry := log.WithFields(log.Fields{"version": mr.Version, "name": mr.Name})
		entry.Info("applying migration")

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mr.Up(tx); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", mr.Name, err)
			}

			record := MigrationRecord{
				Version:   mr.Version,
				Name:      mr.Name,
				AppliedAt: time.Now(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", mr.Name, err)
			}
			return nil
		})
		if err != nil {
			return done, err
		}

		done = append(done, mr)
	}
	return done, nil
}

// Down rolls back the most recently applied migration
func (m *Migrator) Down() (*Migration, error) {
	if err := m.EnsureVersionTable(); err != nil {
		return nil, err
	}

	var lastRecord MigrationRecord
	if err := m.db.Order("version DESC").First(&lastRecord).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoMigrations
		}
		return nil, fmt.Errorf("failed to get last migration: %w", err)
	}

	var target *Migration
	for _, mr := range m.migrations {
		if mr.Version == lastRecord.Version {
			target = mr
			break
		}
	}

	if target == nil {
		return nil, fmt.Errorf("migration for version %s not found", lastRecord.Version)
	}

	log.WithFields(log.Fields{"version": target.Version, "name": target.Name}).Info("reverting migration")

	err := m.db.Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("failed to revert migration %s: %w", target.Name, err)
		}
		if err := tx.Delete(&lastRecord).Error; err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// Status reports every known migration with its applied state
func (m *Migrator) Status() ([]MigrationStatus, error) {
	applied, err := m.AppliedVersions()
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, mr := range m.migrations {
		status := MigrationStatus{Version: mr.Version, Name: mr.Name}
		if record, ok := applied[mr.Version]; ok {
			appliedAt := record.AppliedAt
			status.Applied = true
			status.AppliedAt = &appliedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// History returns applied migrations, most recent first
func (m *Migrator) History() ([]MigrationRecord, error) {
	if err := m.EnsureVersionTable(); err != nil {
		return nil, err
	}

	var records []MigrationRecord
	if err := m.db.Order("version DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get migration history: %w", err)
	}
	return records, nil
}
