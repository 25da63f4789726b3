// Package config loads lexicon settings from defaults, an optional YAML
// file, a .env file and LEXICON_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/lexicon/internal/mode"
	"github.com/abhisek/lexicon/internal/store"
)

// Config holds all non-LLM settings.
type Config struct {
	AppID string `yaml:"app_id" env:"LEXICON_APP_ID"`

	// UID overrides the anonymous identity.
	UID string `yaml:"uid" env:"LEXICON_UID"`

	Store StoreConfig `yaml:"store"`
	Game  GameConfig  `yaml:"game"`
	Judge JudgeConfig `yaml:"judge"`
	Serve ServeConfig `yaml:"serve"`
}

type StoreConfig struct {
	Backend    string      `yaml:"backend" env:"LEXICON_STORE"`
	SQLitePath string      `yaml:"sqlite_path" env:"LEXICON_DB"`
	Redis      RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"LEXICON_REDIS_ADDR"`
	Password string `yaml:"password" env:"LEXICON_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"LEXICON_REDIS_DB"`
}

type GameConfig struct {
	// TimedBudget is the countdown per question in the timed mode.
	TimedBudget time.Duration `yaml:"timed_budget" env:"LEXICON_TIMED_BUDGET"`
}

type JudgeConfig struct {
	// Enabled turns the remote judge off when false; free-text answers are
	// then matched locally.
	Enabled bool          `yaml:"enabled" env:"LEXICON_JUDGE_ENABLED"`
	Timeout time.Duration `yaml:"timeout" env:"LEXICON_JUDGE_TIMEOUT"`
}

type ServeConfig struct {
	Addr string `yaml:"addr" env:"LEXICON_SERVE_ADDR"`

	// RatePerSecond and Burst configure the per-client token bucket.
	RatePerSecond float64 `yaml:"rate_per_second" env:"LEXICON_SERVE_RATE"`
	Burst         int     `yaml:"burst" env:"LEXICON_SERVE_BURST"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AppID: store.DefaultAppID,
		Store: StoreConfig{
			Backend: store.BackendSQLite,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Game:  GameConfig{TimedBudget: mode.TimedBudget},
		Judge: JudgeConfig{Enabled: true, Timeout: 8 * time.Second},
		Serve: ServeConfig{Addr: ":8080", RatePerSecond: 5, Burst: 10},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lexicon/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "lexicon", "config.yaml"), nil
}

// Load builds the configuration. An explicit path must exist; the default
// path is skipped when missing.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := loadFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	var errs []error
	if c.AppID == "" {
		errs = append(errs, errors.New("app_id must not be empty"))
	}
	switch c.Store.Backend {
	case store.BackendSQLite, store.BackendRedis, store.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}
	if c.Store.Backend == store.BackendRedis && c.Store.Redis.Addr == "" {
		errs = append(errs, errors.New("redis addr is required for the redis store"))
	}
	if c.Game.TimedBudget < time.Second {
		errs = append(errs, fmt.Errorf("timed_budget must be at least 1s, got %s", c.Game.TimedBudget))
	}
	if c.Judge.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("judge timeout must be positive, got %s", c.Judge.Timeout))
	}
	if c.Serve.RatePerSecond <= 0 || c.Serve.Burst < 1 {
		errs = append(errs, errors.New("serve rate and burst must be positive"))
	}
	return errors.Join(errs...)
}

// StoreOptions converts the store settings, resolving the default sqlite
// path when none is configured.
func (c Config) StoreOptions() (store.Options, error) {
	opts := store.Options{
		Backend:       c.Store.Backend,
		SQLitePath:    c.Store.SQLitePath,
		RedisAddr:     c.Store.Redis.Addr,
		RedisPassword: c.Store.Redis.Password,
		RedisDB:       c.Store.Redis.DB,
	}
	if opts.Backend == store.BackendSQLite && opts.SQLitePath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return opts, fmt.Errorf("resolve database path: %w", err)
		}
		opts.SQLitePath = p
	}
	return opts, nil
}
