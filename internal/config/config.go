// Package config provides Viper-based configuration loading for the rules
// engine and its command-line tools.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variable overrides, e.g. GCSGA_LOGGING_LEVEL.
const EnvPrefix = "GCSGA"

// DatabaseConfig holds PostgreSQL connection settings for the roll log.
type DatabaseConfig struct {
	// Enabled turns on persisting roll results.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds settings for the shared modifier stack store.
type RedisConfig struct {
	// Enabled selects the Redis store over the in-process one.
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix namespaces every key the store writes.
	KeyPrefix string `mapstructure:"key_prefix"`
	// TTL expires idle stacks; 0 keeps them forever.
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// RulesConfig tunes roll resolution and content loading.
type RulesConfig struct {
	// Formula is the dice expression used when a roll names none.
	Formula string `mapstructure:"formula"`
	// DefaultDamageLocation is the hit location reported for damage rolls.
	DefaultDamageLocation string `mapstructure:"default_damage_location"`
	// StickyModifiers is the sticky flag new modifier stacks start with.
	StickyModifiers bool `mapstructure:"sticky_modifiers"`
	// WeightUnits is the unit used for weights written without one.
	WeightUnits string `mapstructure:"weight_units"`
	// ConditionsDir optionally holds extra condition definition files.
	ConditionsDir string `mapstructure:"conditions_dir"`
	// HitLocations optionally names a hit location table file.
	HitLocations string `mapstructure:"hit_locations"`
	// ScriptInstructionLimit bounds attribute formula evaluation; 0 selects
	// the evaluator default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// MetricsConfig holds OpenTelemetry meter settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// MeterName names the instrumentation scope.
	MeterName string `mapstructure:"meter_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Rules    RulesConfig    `mapstructure:"rules"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Redis.Enabled {
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Metrics.Enabled && c.Metrics.MeterName == "" {
		errs = append(errs, "metrics.meter_name must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRedis(r RedisConfig) error {
	var errs []string
	if r.Addr == "" {
		errs = append(errs, "redis.addr must not be empty")
	}
	if r.DB < 0 {
		errs = append(errs, fmt.Sprintf("redis.db must be >= 0, got %d", r.DB))
	}
	if r.TTL < 0 {
		errs = append(errs, "redis.ttl must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateRules(r RulesConfig) error {
	var errs []string
	if r.Formula == "" {
		errs = append(errs, "rules.formula must not be empty")
	}
	validUnits := map[string]bool{"lb": true, "#": true, "oz": true, "tn": true, "t": true, "kg": true, "g": true}
	if !validUnits[r.WeightUnits] {
		errs = append(errs, fmt.Sprintf("rules.weight_units must be one of [lb, #, oz, tn, t, kg, g], got %q", r.WeightUnits))
	}
	if r.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("rules.script_instruction_limit must be >= 0, got %d", r.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and
// environment variables only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// New returns a Viper instance with defaults and GCSGA_ environment
// overrides applied.
//
// Postcondition: Returns a non-nil Viper.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "gcsga")
	v.SetDefault("database.password", "gcsga")
	v.SetDefault("database.name", "gcsga")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "gcsga:")
	v.SetDefault("redis.ttl", "24h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("rules.formula", "3d6")
	v.SetDefault("rules.default_damage_location", "torso")
	v.SetDefault("rules.sticky_modifiers", false)
	v.SetDefault("rules.weight_units", "lb")
	v.SetDefault("rules.script_instruction_limit", 0)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.meter_name", "github.com/raianasancho/gcsga")
}
