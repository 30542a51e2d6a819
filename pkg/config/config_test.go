package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "Combined_Contacts_and_Reviews.parquet", cfg.Data.SourceFile)
	assert.Equal(t, 3600, cfg.Data.CacheTTLSeconds)
	assert.Equal(t, 4, cfg.Data.RefreshHour)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATA_DIR", "/tmp/datasets")
	t.Setenv("DATA_SOURCE_FILE", "contacts.csv")
	t.Setenv("DATA_CACHE_TTL_SECONDS", "60")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/tmp/datasets", cfg.Data.Dir)
	assert.Equal(t, "contacts.csv", cfg.Data.SourceFile)
	assert.Equal(t, 60, cfg.Data.CacheTTLSeconds)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestSourcePath(t *testing.T) {
	c := DataConfig{Dir: filepath.Join("data", "processed"), SourceFile: "contacts.parquet"}
	assert.Equal(t, filepath.Join("data", "processed", "contacts.parquet"), c.SourcePath())
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: 5432, User: "svc", Password: "pw",
		Database: "medmatch", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=svc password=pw dbname=medmatch sslmode=disable", c.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	c := RedisConfig{Host: "redis", Port: 6379}
	assert.Equal(t, "redis:6379", c.RedisAddr())
}
