package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultDriver          = "postgres"
	DefaultMinCityVehicles = 30
	DefaultBatchSize       = 500
	DefaultExportDir       = "exports"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	LogLevel       string

	MinCityVehicles int
	ImportBatchSize int
	ExportDir       string
}

// Load reads the .env file if present and returns a populated Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}

	return &Config{
		DatabaseDriver: getEnv("DATABASE_DRIVER", DefaultDriver),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		MinCityVehicles: getEnvInt("MIN_CITY_VEHICLES", DefaultMinCityVehicles),
		ImportBatchSize: getEnvInt("IMPORT_BATCH_SIZE", DefaultBatchSize),
		ExportDir:       getEnv("EXPORT_DIR", DefaultExportDir),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
		log.WithField("key", key).Warnf("ignoring non-integer value %q", val)
	}
	return fallback
}
