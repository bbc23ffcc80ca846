package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "dukkan", cfg.Database.Database)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Push.Enabled)
	assert.Equal(t, 5, cfg.Push.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "test-key")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PUSH_ENABLED", "true")
	t.Setenv("PUSH_BASE_URL", "https://push.example.com")
	t.Setenv("PUSH_TIMEOUT", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Push.Enabled)
	assert.Equal(t, 3, cfg.Push.Timeout)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
			Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Database: "dukkan", MaxConnections: 10, MinConnections: 2},
			Logger:   LoggerConfig{Level: "info", Format: "json"},
			Auth:     AuthConfig{APIKey: "key"},
			Push:     PushConfig{Timeout: 5},
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Config)
		errMatch string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:     "invalid port",
			mutate:   func(c *Config) { c.Server.Port = 0 },
			errMatch: "invalid server port",
		},
		{
			name:     "min exceeds max connections",
			mutate:   func(c *Config) { c.Database.MinConnections = 20 },
			errMatch: "min connections cannot exceed max",
		},
		{
			name:     "invalid log level",
			mutate:   func(c *Config) { c.Logger.Level = "verbose" },
			errMatch: "invalid log level",
		},
		{
			name:     "push enabled without base URL",
			mutate:   func(c *Config) { c.Push.Enabled = true },
			errMatch: "push base URL is required",
		},
		{
			name:     "pricing S3 enabled without bucket",
			mutate:   func(c *Config) { c.Pricing.S3Enabled = true },
			errMatch: "pricing S3 bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMatch == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
		})
	}
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5433, User: "app", Password: "secret", Database: "dukkan",
	}
	assert.Equal(t, "postgres://app:secret@db:5433/dukkan?sslmode=disable", cfg.ConnectionString())
}
