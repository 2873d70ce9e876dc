// Package config provides Viper-based configuration loading for the game.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is where log lines go: "stderr", "stdout" or a file path.
	Output string `mapstructure:"output"`
}

// StorageConfig selects where trainers are saved.
type StorageConfig struct {
	// Backend is one of "file", "sqlite", "postgres", "redis".
	Backend string `mapstructure:"backend"`
	// Slot is the save slot name.
	Slot string `mapstructure:"slot"`
	// Dir is the directory holding save files for the file backend.
	Dir string `mapstructure:"dir"`
	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// AutoMigrate applies pending schema migrations on connect.
	AutoMigrate bool `mapstructure:"auto_migrate"`
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

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// KeyPrefix is prepended to every slot key.
	KeyPrefix string `mapstructure:"key_prefix"`
}

// GameConfig holds gameplay tuning.
type GameConfig struct {
	// RewardMoney is granted for a won battle.
	RewardMoney int `mapstructure:"reward_money"`
	// PotionHeal is the maximum HP a Potion restores in battle.
	PotionHeal int `mapstructure:"potion_heal"`
	// FleeChance is the probability a flee attempt succeeds.
	FleeChance float64 `mapstructure:"flee_chance"`
	// EncounterRate overrides every region's encounter rate when positive.
	EncounterRate float64 `mapstructure:"encounter_rate"`
	// ContentDir holds species.yaml and regions.yaml; empty uses built-in content.
	ContentDir string `mapstructure:"content_dir"`
	// Seed makes every random draw reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Backend == BackendPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Storage.Backend == BackendRedis {
		if err := validateRedis(c.Redis); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
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
	if l.Output == "" {
		return errors.New("logging.output must not be empty")
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Backend {
	case BackendFile:
		if s.Dir == "" {
			errs = append(errs, "storage.dir must not be empty for the file backend")
		}
	case BackendSQLite:
		if s.SQLitePath == "" {
			errs = append(errs, "storage.sqlite_path must not be empty for the sqlite backend")
		}
	case BackendPostgres, BackendRedis:
	default:
		errs = append(errs, fmt.Sprintf("storage.backend must be one of [file, sqlite, postgres, redis], got %q", s.Backend))
	}
	if strings.ContainsAny(s.Slot, `/\`) {
		errs = append(errs, fmt.Sprintf("storage.slot must not contain path separators, got %q", s.Slot))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.RewardMoney < 0 {
		errs = append(errs, fmt.Sprintf("game.reward_money must be >= 0, got %d", g.RewardMoney))
	}
	if g.PotionHeal < 1 {
		errs = append(errs, fmt.Sprintf("game.potion_heal must be >= 1, got %d", g.PotionHeal))
	}
	if g.FleeChance < 0 || g.FleeChance > 1 {
		errs = append(errs, fmt.Sprintf("game.flee_chance must be within [0, 1], got %v", g.FleeChance))
	}
	if g.EncounterRate < 0 || g.EncounterRate > 1 {
		errs = append(errs, fmt.Sprintf("game.encounter_rate must be within [0, 1], got %v", g.EncounterRate))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment overrides.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with CREATURES_ prefix
	v.SetEnvPrefix("CREATURES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
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

// Default returns the configuration produced by Load("") without any
// environment overrides.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.slot", "save_game")
	v.SetDefault("storage.dir", ".")
	v.SetDefault("storage.sqlite_path", "creatures.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "creatures")
	v.SetDefault("database.password", "creatures")
	v.SetDefault("database.name", "creatures")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "trainer:")

	v.SetDefault("game.reward_money", 20)
	v.SetDefault("game.potion_heal", 20)
	v.SetDefault("game.flee_chance", 0.7)
	v.SetDefault("game.encounter_rate", 0.0)
	v.SetDefault("game.content_dir", "")
	v.SetDefault("game.seed", 0)
}
