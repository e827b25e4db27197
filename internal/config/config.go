package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/wjt/sms-query/internal/logger"
)

// DefaultCountryPrefix is the phone number country prefix assumed when a
// queried number is given in bare (national) form. The rtcom-eventlogger
// database stores remote numbers both with and without this prefix.
const DefaultCountryPrefix = "+47"

// DefaultDatabaseFile is the database filename relative to the working
// directory. On the Nokia N900 the live database lives at
// /home/user/.rtcom-eventlogger/el-v1.db.
const DefaultDatabaseFile = "sms.db"

// Config represents the complete configuration for sms-query
type Config struct {
	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Phone number handling configuration
	Phone PhoneConfig `toml:"phone"`

	// Output configuration
	Output OutputConfig `toml:"output"`

	// Logger configuration
	Logger logger.Config `toml:"logger"`

	// Sentry configuration
	Sentry SentryConfig `toml:"sentry"`

	// Directory paths (computed, not stored in TOML)
	ConfigDir string `toml:"-"`
}

// DatabaseConfig contains event store settings
type DatabaseConfig struct {
	// Path to the rtcom-eventlogger SQLite database file
	Path string `toml:"path"`

	// Busy timeout in milliseconds when the database is locked by
	// another reader
	BusyTimeoutMS int `toml:"busy_timeout_ms"`
}

// PhoneConfig contains phone number normalization settings
type PhoneConfig struct {
	// Country prefix used to derive the complementary form of a
	// queried number (prefixed <-> bare)
	CountryPrefix string `toml:"country_prefix"`
}

// OutputConfig contains report output settings
type OutputConfig struct {
	// Enable colored output
	ColorsEnabled bool `toml:"colors_enabled"`

	// Only emit colors when stdout is a terminal
	AutoDetectTTY bool `toml:"auto_detect_tty"`
}

// SentryConfig contains Sentry error monitoring settings
type SentryConfig struct {
	// Enable Sentry error monitoring
	Enabled bool `toml:"enabled"`

	// Sentry DSN for error reporting
	DSN string `toml:"dsn"`

	// Environment name (development, staging, production)
	Environment string `toml:"environment"`

	// Sample rate for error reporting (0.0 to 1.0)
	SampleRate float64 `toml:"sample_rate"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".config", "sms-query")

	return &Config{
		Database: DatabaseConfig{
			Path:          DefaultDatabaseFile,
			BusyTimeoutMS: 5000,
		},
		Phone: PhoneConfig{
			CountryPrefix: DefaultCountryPrefix,
		},
		Output: OutputConfig{
			ColorsEnabled: true,
			AutoDetectTTY: true,
		},
		Logger: *logger.DefaultConfig(),
		Sentry: SentryConfig{
			Enabled:     false,
			DSN:         "",
			Environment: "development",
			SampleRate:  1.0,
		},
		ConfigDir: configDir,
	}
}

// Load reads the configuration from the given path, falling back to the
// default location and then to built-in defaults when no file exists.
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path specified, try default location
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return config, nil // Return defaults if can't determine home dir
		}
		configPath = filepath.Join(homeDir, ".config", "sms-query", "config.toml")
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, return defaults
		config.ApplyDefaults()
		return config, nil
	}

	// Load and parse the TOML file
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Apply defaults to fill in any missing values
	config.ApplyDefaults()

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// EnsureDirectories creates the configuration directory if needed
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// Save saves the configuration to the specified file path
func (c *Config) Save(configPath string) error {
	if configPath == "" {
		if err := c.EnsureDirectories(); err != nil {
			return err
		}
		configPath = filepath.Join(c.ConfigDir, "config.toml")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(configPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	return nil
}

// ApplyDefaults fills in any zero values with defaults
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if c.Database.Path == "" {
		c.Database.Path = defaults.Database.Path
	}
	if c.Database.BusyTimeoutMS <= 0 {
		c.Database.BusyTimeoutMS = defaults.Database.BusyTimeoutMS
	}
	if c.Phone.CountryPrefix == "" {
		c.Phone.CountryPrefix = defaults.Phone.CountryPrefix
	}
	if c.Logger.Level == "" {
		c.Logger.Level = defaults.Logger.Level
	}
	if c.Logger.Output == "" {
		c.Logger.Output = defaults.Logger.Output
	}
	if c.Sentry.Environment == "" {
		c.Sentry.Environment = defaults.Sentry.Environment
	}
	if c.Sentry.SampleRate <= 0 {
		c.Sentry.SampleRate = defaults.Sentry.SampleRate
	}
	if c.ConfigDir == "" {
		c.ConfigDir = defaults.ConfigDir
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Phone.CountryPrefix == "" {
		return fmt.Errorf("phone country prefix cannot be empty")
	}
	prefix := c.Phone.CountryPrefix
	if prefix[0] == '+' {
		prefix = prefix[1:]
	}
	if prefix == "" {
		return fmt.Errorf("phone country prefix must contain digits")
	}
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return fmt.Errorf("phone country prefix %q contains non-digit characters", c.Phone.CountryPrefix)
		}
	}

	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		return fmt.Errorf("sentry sample rate must be between 0.0 and 1.0, got %f", c.Sentry.SampleRate)
	}

	return nil
}
