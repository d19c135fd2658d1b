// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (KAGGLE_USERNAME, KAGGLE_KEY / KAGGLE_API_KEY)
//  2. Config file (~/.kaggle-mcp/config.yaml)
//  3. Kaggle credentials file (~/.kaggle/kaggle.json, or $KAGGLE_CONFIG_DIR)
//  4. Default values
//
// Credentials are required: a missing username or API key is a startup
// failure, not a runtime tool error. The server must not begin serving
// without them.
//
// Security: the API key is masked in MarshalJSON() and never logged.
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingUsername indicates the Kaggle username is not set.
	ErrMissingUsername = errors.New("missing Kaggle username")

	// ErrMissingKey indicates the Kaggle API key is not set.
	ErrMissingKey = errors.New("missing Kaggle API key")

	// ErrInvalidCredentialsFile indicates kaggle.json exists but cannot be parsed.
	ErrInvalidCredentialsFile = errors.New("invalid Kaggle credentials file")

	// ErrInvalidLogLevel indicates the configured log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// CredentialsFileName is the standard Kaggle API credentials file name.
const CredentialsFileName = "kaggle.json"

// Config stores application configuration.
// SECURITY: the API key is explicitly masked in MarshalJSON().
type Config struct {
	// Kaggle API credentials
	Username string `mapstructure:"username" json:"username"`
	Key      string `mapstructure:"key" json:"key"`

	// DownloadDirs lists directories (besides the working directory) that
	// download tools may write into. Empty means working directory only.
	DownloadDirs []string `mapstructure:"download_dirs" json:"download_dirs"`

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// credentialsFile mirrors the kaggle.json format used by the official CLI.
type credentialsFile struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// Load reads configuration from all sources and validates credentials.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
	v.SetDefault("download_dirs", []string{})

	// Optional config file: ~/.kaggle-mcp/config.yaml
	if home, err := os.UserHomeDir(); err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(home, ".kaggle-mcp"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	// Environment overrides. KAGGLE_KEY matches the official CLI;
	// KAGGLE_API_KEY is accepted as an alias.
	if err := v.BindEnv("username", "KAGGLE_USERNAME"); err != nil {
		return nil, fmt.Errorf("binding KAGGLE_USERNAME: %w", err)
	}
	if err := v.BindEnv("key", "KAGGLE_KEY", "KAGGLE_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding KAGGLE_KEY: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Fall back to the standard kaggle.json credentials file.
	if cfg.Username == "" || cfg.Key == "" {
		if err := cfg.loadCredentialsFile(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadCredentialsFile fills missing credentials from kaggle.json.
// Absence of the file is not an error here; Validate reports what is
// still missing afterwards.
func (c *Config) loadCredentialsFile() error {
	path, err := CredentialsPath()
	if err != nil {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- fixed well-known location
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidCredentialsFile, path, err)
	}

	if c.Username == "" {
		c.Username = creds.Username
	}
	if c.Key == "" {
		c.Key = creds.Key
	}
	return nil
}

// CredentialsPath returns the expected location of kaggle.json.
// KAGGLE_CONFIG_DIR overrides the default ~/.kaggle directory, matching
// the official CLI.
func CredentialsPath() (string, error) {
	if dir := os.Getenv("KAGGLE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, CredentialsFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".kaggle", CredentialsFileName), nil
}

// Validate checks that the configuration is complete enough to serve.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: set KAGGLE_USERNAME or provide %s", ErrMissingUsername, CredentialsFileName)
	}
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("%w: set KAGGLE_KEY or provide %s", ErrMissingKey, CredentialsFileName)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
}

// MarshalJSON masks the API key so the config can be logged safely.
func (c *Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(*c)
	if masked.Key != "" {
		masked.Key = "********"
	}
	return json.Marshal(masked)
}
