package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
dbname = "ground"
user = "booking"
password = "from-file"

[reservation]
min_roster_size = 8
timezone = "Europe/Moscow"
lock_timeout_ms = 1500

[team_service]
url = "http://teams:8080"

[jobs]
consistency_audit_enabled = true
`)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.DSN(), "dbname=ground")
	assert.Equal(t, 8, cfg.Reservation.MinRosterSize)
	assert.Equal(t, 1500*time.Millisecond, cfg.Reservation.LockTimeout())
	assert.Equal(t, LockDriverLocal, cfg.Lock.Driver)
	assert.Equal(t, "@every 10m", cfg.Jobs.ConsistencyAuditSchedule)

	loc, err := cfg.Reservation.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "memory"

[team_service]
url = "http://teams"
`)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("does-not-exist.toml")
	require.NoError(t, err)
	assert.Equal(t, DatabaseDriverMemory, cfg.Database.Driver)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Database.DBName = "ground"
		cfg.TeamService.URL = "http://teams"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults with required fields", mutate: func(c *Config) {}, ok: true},
		{name: "unknown db driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }},
		{name: "postgres without dbname", mutate: func(c *Config) { c.Database.DBName = "" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Reservation.Timezone = "Mars/Olympus" }},
		{name: "zero roster", mutate: func(c *Config) { c.Reservation.MinRosterSize = 0 }},
		{name: "unknown lock driver", mutate: func(c *Config) { c.Lock.Driver = "zookeeper" }},
		{name: "redis lease shorter than wait", mutate: func(c *Config) {
			c.Lock.Driver = LockDriverRedis
			c.Lock.TTLMs = 1000
		}},
		{name: "redis lock", mutate: func(c *Config) { c.Lock.Driver = LockDriverRedis }, ok: true},
		{name: "missing team service", mutate: func(c *Config) { c.TeamService.URL = "" }},
		{name: "bad port", mutate: func(c *Config) { c.Server.HTTPPort = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
