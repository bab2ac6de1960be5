package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values loaded from the TOML file.
const (
	EnvSourceKind = "ABX_SOURCE_KIND"
	EnvSourcePath = "ABX_SOURCE_PATH"
	EnvLogLevel   = "ABX_LOG_LEVEL"
)

// Source kinds
const (
	SourceKindABCDDB = "abcddb"
	SourceKindJSON   = "json"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Source SourceConfig `toml:"source"`
	Jobs   JobsConfig   `toml:"jobs"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// SourceConfig selects and locates the raw contact source.
type SourceConfig struct {
	Kind    string `toml:"kind"`
	Path    string `toml:"path"`
	OwnerID string `toml:"owner_id"`
}

// JobsConfig contains enumeration job settings.
type JobsConfig struct {
	ProgressBuffer int `toml:"progress_buffer"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values from the process environment.
//
// A .env file in the working directory is loaded first when present; variables already set in the environment win.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to load .env: %v", ErrInvalidConfig, err)
	}

	if v := os.Getenv(EnvSourceKind); v != "" {
		c.Source.Kind = v
	}
	if v := os.Getenv(EnvSourcePath); v != "" {
		c.Source.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return c.Validate()
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceKindABCDDB, SourceKindJSON:
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	if c.Jobs.ProgressBuffer < 0 {
		return fmt.Errorf("%w: progress_buffer must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// SourcePath returns the configured source path with a leading "~" expanded to the user's home directory.
func (c *Config) SourcePath() string {
	return ExpandHome(c.Source.Path)
}

// ExpandHome replaces a leading "~/" with the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
