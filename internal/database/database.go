package database

import (
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrUnknownDriver = errors.New("unknown database driver")
	ErrMissingDSN    = errors.New("DATABASE_URL not set in environment or .env file")
)

// Supported drivers. "postgres" goes through pgx, "pq" through lib/pq.
const (
	DriverPostgres = "postgres"
	DriverPQ       = "pq"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

// Dialector resolves the gorm dialector for the configured driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	if cfg.DSN == "" {
		return nil, ErrMissingDSN
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres, "pgx", "":
		return postgres.Open(cfg.DSN), nil
	case DriverPQ:
		return postgres.New(postgres.Config{DriverName: "postgres", DSN: cfg.DSN}), nil
	case DriverSQLite, "sqlite3":
		return sqlite.Open(withForeignKeys(cfg.DSN)), nil
	case DriverMySQL:
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Open returns a database connection for cfg.
func Open(cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	log.WithField("dialect", db.Dialector.Name()).Debug("database connection opened")
	return db, nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sqlite leaves foreign keys off unless asked per connection.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}
