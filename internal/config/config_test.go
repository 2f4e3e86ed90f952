package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 10, cfg.App.ShutdownTimeoutSeconds)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "user-record-service", cfg.Logger.ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "DB_DRIVER=sqlite\nDB_SQLITE_PATH=/tmp/users.db\nHTTP_PORT=9000\nRATE_LIMIT_ENABLED=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("RATE_LIMIT_BURST_CAPACITY", "5")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/users.db", cfg.DB.SQLitePath)
	assert.Equal(t, "9100", cfg.App.HTTPPort, "environment wins over file")
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.RateLimit.BurstCapacity)
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Logger.EnableSampling)
}

func validConfig() *Config {
	return &Config{
		DB: DatabaseConfig{
			Driver:       DriverPostgres,
			Host:         "localhost",
			Name:         "user_records",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
		},
		App: AppConfig{HTTPPort: "8080", ShutdownTimeoutSeconds: 5},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "sqlite", mutate: func(c *Config) { c.DB.Driver = DriverSQLite; c.DB.SQLitePath = "x.db" }},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "mysql" }, wantErr: `unsupported DB_DRIVER "mysql"`},
		{name: "sqlite without path", mutate: func(c *Config) { c.DB.Driver = DriverSQLite }, wantErr: "DB_SQLITE_PATH"},
		{name: "no pool", mutate: func(c *Config) { c.DB.MaxOpenConns = 0 }, wantErr: "DB_MAX_OPEN_CONNS"},
		{name: "no port", mutate: func(c *Config) { c.App.HTTPPort = "" }, wantErr: "HTTP_PORT"},
		{name: "no shutdown timeout", mutate: func(c *Config) { c.App.ShutdownTimeoutSeconds = 0 }, wantErr: "SHUTDOWN_TIMEOUT_SECONDS"},
		{
			name: "rate limit without redis",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{Enabled: true, RequestsPerSecond: 1, BurstCapacity: 1}
			},
			wantErr: "REDIS_HOST",
		},
		{
			name: "rate limit zero rate",
			mutate: func(c *Config) {
				c.Redis = RedisConfig{Host: "localhost", Port: "6379"}
				c.RateLimit = RateLimitConfig{Enabled: true, BurstCapacity: 1}
			},
			wantErr: "RATE_LIMIT_REQUESTS_PER_SECOND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", c.DSN())
}
