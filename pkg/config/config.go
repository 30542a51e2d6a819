package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Data        DataConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Geolocation GeolocationConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

// DataConfig holds configuration for the provider dataset pipeline
type DataConfig struct {
	// Dir is the directory holding the processed source files
	Dir string

	// SourceFile is the columnar file every logical dataset is backed by
	SourceFile string

	// CacheTTLSeconds is how long a cached dataset stays valid absent
	// other invalidation triggers
	CacheTTLSeconds int

	// RefreshHour is the local hour of day at/after which the daily
	// full cache refresh becomes due
	RefreshHour int

	// StatusFile is where the background warm-up reports its outcome
	StatusFile string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// GeolocationConfig holds geocoding provider configuration
type GeolocationConfig struct {
	Provider  string
	BaseURL   string
	UserAgent string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	dataDir := getEnv("DATA_DIR", filepath.Join("data", "processed"))
	return &Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		},
		Data: DataConfig{
			Dir:             dataDir,
			SourceFile:      getEnv("DATA_SOURCE_FILE", "Combined_Contacts_and_Reviews.parquet"),
			CacheTTLSeconds: getEnvAsInt("DATA_CACHE_TTL_SECONDS", 3600),
			RefreshHour:     getEnvAsInt("DATA_REFRESH_HOUR", 4),
			StatusFile:      getEnv("DATA_STATUS_FILE", filepath.Join(dataDir, "data_auto_update_status.txt")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "medmatch"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Geolocation: GeolocationConfig{
			Provider:  getEnv("GEOLOCATION_PROVIDER", "mock"),
			BaseURL:   getEnv("GEOLOCATION_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOLOCATION_USER_AGENT", "medmatch/1.0"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "medmatch"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// SourcePath returns the resolved path of the backing source file
func (c *DataConfig) SourcePath() string {
	return filepath.Join(c.Dir, c.SourceFile)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
