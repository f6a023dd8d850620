package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	path := writeFile(t, `
env: test
http:
  addr: ":9090"
  rate_limit_rps: 5
database:
  driver: sqlite
  dsn: ":memory:"
auth:
  identity_secret: idp
  session_secret: 0123456789abcdef
  access_ttl: 15m
kafka:
  brokers: ["localhost:9092"]
  topic: nexus.events
reconcile:
  schedule: "@every 1m"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5, cfg.HTTP.RateLimitRPS)
	assert.Equal(t, 40, cfg.HTTP.RateLimitBurst)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTTL)
	assert.True(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, "@every 1m", cfg.Reconcile.Schedule)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, `
env: test
database:
  driver: sqlite
  dsn: ":memory:"
auth:
  identity_secret: idp
  session_secret: 0123456789abcdef
`)
	t.Setenv("NEXUS_DB_DRIVER", "postgres")
	t.Setenv("NEXUS_DB_DSN", "host=db user=nexus dbname=nexus")
	t.Setenv("NEXUS_REDIS_ADDR", "redis:6379")
	t.Setenv("NEXUS_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db user=nexus dbname=nexus", cfg.Database.DSN)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
}

func TestStorageUseSSLFromEnv(t *testing.T) {
	path := writeFile(t, `
env: test
database:
  driver: sqlite
  dsn: ":memory:"
auth:
  identity_secret: idp
  session_secret: 0123456789abcdef
storage:
  use_ssl: true
`)
	for _, tc := range []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"TRUE", true},
		{"t", true},
		{"0", false},
		{"False", false},
		{"maybe", true},
	} {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("NEXUS_STORAGE_USE_SSL", tc.value)
			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.Storage.UseSSL)
		})
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"short session secret", func(c *Config) { c.Auth.SessionSecret = "short" }},
		{"refresh shorter than access", func(c *Config) { c.Auth.RefreshTTL = time.Minute }},
		{"kafka without topic", func(c *Config) { c.Kafka.Brokers = []string{"k:9092"} }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.DSN = ":memory:"
			cfg.Auth.IdentitySecret = "idp"
			cfg.Auth.SessionSecret = "0123456789abcdef"
			require.NoError(t, cfg.Validate())

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
