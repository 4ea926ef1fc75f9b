package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration options for the event logger application
type Config struct {
	Server      ServerConfig
	Journal     JournalConfig
	Profile     ProfileConfig
	Validation  ValidationConfig
	Application ApplicationConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `env:"EVENTLOG_ADDR"`
	ReadTimeout     time.Duration `env:"EVENTLOG_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"EVENTLOG_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"EVENTLOG_SHUTDOWN_TIMEOUT"`
}

// JournalConfig holds CSV log file configuration
type JournalConfig struct {
	Dir            string `env:"EVENTLOG_DIR"`
	DirPermissions uint32 `env:"EVENTLOG_DIR_PERMISSIONS"`
}

// ProfileConfig selects the deployment profile and optional profile file
type ProfileConfig struct {
	Name string `env:"EVENTLOG_PROFILE"`
	File string `env:"EVENTLOG_PROFILE_FILE"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	NotesMaxLength int `env:"EVENTLOG_NOTES_MAX"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Verbose bool `env:"EVENTLOG_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultLogDir := filepath.Join(homeDir, "EventLogs")

	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8743",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Journal: JournalConfig{
			Dir:            defaultLogDir,
			DirPermissions: 0755,
		},
		Profile: ProfileConfig{
			Name: DefaultProfileName,
		},
		Validation: ValidationConfig{
			NotesMaxLength: 500,
		},
		Application: ApplicationConfig{
			Verbose: false,
		},
	}
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Server configuration
	if addr := os.Getenv("EVENTLOG_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if timeout := os.Getenv("EVENTLOG_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.ReadTimeout = d
		}
	}
	if timeout := os.Getenv("EVENTLOG_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.WriteTimeout = d
		}
	}
	if timeout := os.Getenv("EVENTLOG_SHUTDOWN_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.ShutdownTimeout = d
		}
	}

	// Journal configuration
	if dir := os.Getenv("EVENTLOG_DIR"); dir != "" {
		c.Journal.Dir = dir
	}
	if perms := os.Getenv("EVENTLOG_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Journal.DirPermissions = uint32(p)
		}
	}

	// Profile configuration
	if name := os.Getenv("EVENTLOG_PROFILE"); name != "" {
		c.Profile.Name = name
	}
	if file := os.Getenv("EVENTLOG_PROFILE_FILE"); file != "" {
		c.Profile.File = file
	}

	// Validation configuration
	if maxLen := os.Getenv("EVENTLOG_NOTES_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.NotesMaxLength = n
		}
	}

	// Application configuration
	if verbose := os.Getenv("EVENTLOG_VERBOSE"); verbose != "" {
		if b, err := strconv.ParseBool(verbose); err == nil {
			c.Application.Verbose = b
		}
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ConfigError{Field: "server.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	if c.Journal.Dir == "" {
		return &ConfigError{Field: "journal.dir", Message: "journal directory cannot be empty"}
	}
	if c.Profile.Name == "" && c.Profile.File == "" {
		return &ConfigError{Field: "profile.name", Message: "a profile name or profile file is required"}
	}
	if c.Validation.NotesMaxLength < 1 {
		return &ConfigError{Field: "validation.notes_max_length", Message: "notes max length must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
