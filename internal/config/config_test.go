package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "127.0.0.1:8743", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Contains(t, cfg.Journal.Dir, "EventLogs")
	assert.Equal(t, uint32(0755), cfg.Journal.DirPermissions)
	assert.Equal(t, DefaultProfileName, cfg.Profile.Name)
	assert.Empty(t, cfg.Profile.File)
	assert.Equal(t, 500, cfg.Validation.NotesMaxLength)
	assert.False(t, cfg.Application.Verbose)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("EVENTLOG_ADDR", "0.0.0.0:9000")
	t.Setenv("EVENTLOG_SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("EVENTLOG_DIR", "/data/logs")
	t.Setenv("EVENTLOG_DIR_PERMISSIONS", "700")
	t.Setenv("EVENTLOG_PROFILE", "Jamail")
	t.Setenv("EVENTLOG_NOTES_MAX", "120")
	t.Setenv("EVENTLOG_VERBOSE", "true")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "/data/logs", cfg.Journal.Dir)
	assert.Equal(t, uint32(0700), cfg.Journal.DirPermissions)
	assert.Equal(t, "Jamail", cfg.Profile.Name)
	assert.Equal(t, 120, cfg.Validation.NotesMaxLength)
	assert.True(t, cfg.Application.Verbose)
}

func TestLoadFromEnvironmentIgnoresInvalidValues(t *testing.T) {
	t.Setenv("EVENTLOG_READ_TIMEOUT", "soon")
	t.Setenv("EVENTLOG_NOTES_MAX", "lots")
	t.Setenv("EVENTLOG_VERBOSE", "kinda")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFromEnvironment())

	// Unparseable values leave the defaults in place.
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 500, cfg.Validation.NotesMaxLength)
	assert.False(t, cfg.Application.Verbose)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty address",
			mutate:    func(c *Config) { c.Server.Addr = "" },
			wantField: "server.addr",
		},
		{
			name:      "non-positive read timeout",
			mutate:    func(c *Config) { c.Server.ReadTimeout = 0 },
			wantField: "server.read_timeout",
		},
		{
			name:      "non-positive shutdown timeout",
			mutate:    func(c *Config) { c.Server.ShutdownTimeout = -time.Second },
			wantField: "server.shutdown_timeout",
		},
		{
			name:      "empty journal dir",
			mutate:    func(c *Config) { c.Journal.Dir = "" },
			wantField: "journal.dir",
		},
		{
			name: "no profile selected",
			mutate: func(c *Config) {
				c.Profile.Name = ""
				c.Profile.File = ""
			},
			wantField: "profile.name",
		},
		{
			name:      "notes max below one",
			mutate:    func(c *Config) { c.Validation.NotesMaxLength = 0 },
			wantField: "validation.notes_max_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestValidateAcceptsProfileFileWithoutName(t *testing.T) {
	cfg := NewConfig()
	cfg.Profile.Name = ""
	cfg.Profile.File = "/etc/eventlogger/profile.yaml"

	assert.NoError(t, cfg.Validate())
}
