// Package config loads the YAML application config, the TOML holiday
// calendar and the Google OAuth client file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks configuration that fails to load or validate.
// The CLI refuses to start when it sees one.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// Config represents the application configuration
type Config struct {
	DatabaseDriver     string   `yaml:"databaseDriver" validate:"required,oneof=postgres sqlite"`
	DatabaseURL        string   `yaml:"databaseURL" validate:"required"`
	HolidaysFile       string   `yaml:"holidaysFile" validate:"required"`
	Timezone           string   `yaml:"timezone,omitempty"`
	Excused            []string `yaml:"excused,omitempty" validate:"dive,email|uuid"`
	OnLeave            []string `yaml:"onLeave,omitempty" validate:"dive,email|uuid"`
	DeferralWeight     string   `yaml:"deferralWeight,omitempty" validate:"omitempty,oneof=inverse uniform"`
	DeferralWindowDays int      `yaml:"deferralWindowDays,omitempty" validate:"min=0"`
	RankingLimit       int      `yaml:"rankingLimit,omitempty" validate:"min=0"`
	GmailSender        string   `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	LogDir             string   `yaml:"logDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates cleanest_config.<env>.yaml, or
// cleanest_config.yaml when env is empty
func LoadWithEnv(env string) (*Config, error) {
	name := "cleanest_config.yaml"
	if env != "" {
		name = "cleanest_config." + env + ".yaml"
	}

	configPath, err := findFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find config file: %w", ErrInvalidConfig, err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// A relative holidaysFile is resolved against the config file's directory.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrInvalidConfig, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config file: %w", ErrInvalidConfig, err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.HolidaysFile) {
		cfg.HolidaysFile = filepath.Join(filepath.Dir(path), cfg.HolidaysFile)
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks the timezone name
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: config validation failed: %w", ErrInvalidConfig, err)
	}

	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Location returns the timezone "today" is computed in; UTC when unset
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DeferralWindow is the span of debits counted as recent deferrals; 0 means all time
func (c *Config) DeferralWindow() time.Duration {
	return time.Duration(c.DeferralWindowDays) * 24 * time.Hour
}

// findFile searches for name in the current directory and then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
