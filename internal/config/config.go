// Package config handles loading quadrant's config.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/quadrant/internal/paths"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the environment variable that overrides the config location.
const EnvConfigPath = "QUADRANT_CONFIG"

const (
	// BackendSQLite stores collections in a sqlite database.
	BackendSQLite = "sqlite"
	// BackendFile stores each collection as a JSON file.
	BackendFile = "file"
	// BackendMemory keeps collections in memory for the life of the process.
	BackendMemory = "memory"
)

const (
	defaultLeadTime = 15 * time.Minute
	defaultGrace    = 5 * time.Second
)

// ErrNegativeDuration is returned when a reminder duration is below zero.
var ErrNegativeDuration = errors.New("duration cannot be negative")

// Config represents the config.toml file.
type Config struct {
	Storage   Storage   `toml:"storage"`
	Reminders Reminders `toml:"reminders"`
	Log       Log       `toml:"log"`
}

// Storage selects and locates the persistence backend.
type Storage struct {
	// Backend is one of sqlite, file or memory.
	Backend string `toml:"backend" env:"QUADRANT_STORAGE_BACKEND" validate:"oneof=sqlite file memory"`

	// Path is the sqlite database file or the file backend directory.
	// Empty selects a location under the state directory.
	Path string `toml:"path" env:"QUADRANT_STORAGE_PATH"`
}

// Reminders configures due-date alerts.
type Reminders struct {
	Enabled bool `toml:"enabled" env:"QUADRANT_REMINDERS_ENABLED"`

	// LeadTime is how long before the due date the alert fires.
	LeadTime time.Duration `toml:"lead-time" env:"QUADRANT_REMINDERS_LEAD_TIME"`

	// Grace is the delay used when the lead time has already passed.
	Grace time.Duration `toml:"grace" env:"QUADRANT_REMINDERS_GRACE"`

	// RescheduleOnRestore schedules a fresh alert when a todo leaves the recycle bin.
	RescheduleOnRestore bool `toml:"reschedule-on-restore" env:"QUADRANT_REMINDERS_RESCHEDULE_ON_RESTORE"`

	// Spool is the alert spool file. Empty selects the state directory.
	Spool string `toml:"spool" env:"QUADRANT_REMINDERS_SPOOL"`
}

// Log configures the process logger.
type Log struct {
	Level  string `toml:"level" env:"QUADRANT_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `toml:"format" env:"QUADRANT_LOG_FORMAT" validate:"oneof=text json"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: Storage{Backend: BackendSQLite},
		Reminders: Reminders{
			Enabled:  true,
			LeadTime: defaultLeadTime,
			Grace:    defaultGrace,
		},
		Log: Log{Level: "warn", Format: "text"},
	}
}

// Load reads the config file at path. An empty path uses $QUADRANT_CONFIG
// and then the default location. A missing file yields the defaults.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	path, err := paths.ResolveWithDefault(path, paths.DefaultConfigPath)
	if err != nil {
		return nil, err
	}

	cfg, meta, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	cfg = applyDefaults(cfg, meta)

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read config environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func applyDefaults(cfg *Config, meta toml.MetaData) *Config {
	defaults := Default()
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaults.Storage.Backend
	}
	if !meta.IsDefined("reminders", "enabled") {
		cfg.Reminders.Enabled = defaults.Reminders.Enabled
	}
	if !meta.IsDefined("reminders", "lead-time") {
		cfg.Reminders.LeadTime = defaults.Reminders.LeadTime
	}
	if !meta.IsDefined("reminders", "grace") {
		cfg.Reminders.Grace = defaults.Reminders.Grace
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	return cfg
}

// Validate checks enumerated fields and durations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Reminders.LeadTime < 0 {
		return fmt.Errorf("%w: reminders.lead-time %s", ErrNegativeDuration, c.Reminders.LeadTime)
	}
	if c.Reminders.Grace < 0 {
		return fmt.Errorf("%w: reminders.grace %s", ErrNegativeDuration, c.Reminders.Grace)
	}
	return nil
}
