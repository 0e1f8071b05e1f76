package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment overrides, e.g. EVSIM_SERVER__ADDR sets server.addr.
const EnvPrefix = "EVSIM_"

// Config is the service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Runner  RunnerConfig  `yaml:"runner"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	Env         string   `yaml:"env"`
	StaticDir   string   `yaml:"static_dir"`
	ScenarioDir string   `yaml:"scenario_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`
	// DSN is the sqlite database path.
	DSN string `yaml:"dsn"`
}

type RunnerConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
	// CacheTTL keeps engine outputs for repeated inputs; 0 disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			Env:         "production",
			ScenarioDir: "examples/scenarios",
			CORSOrigins: []string{"*"},
		},
		Store:   StoreConfig{Driver: "memory", DSN: "evsim.db"},
		Runner:  RunnerConfig{Workers: 4, Timeout: 2 * time.Minute, CacheTTL: 30 * time.Minute},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path (optional, YAML) over the defaults, applies EVSIM_
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("store.driver must be memory or sqlite, got %q", c.Store.Driver)
	}
	if c.Runner.Workers < 1 {
		return errors.New("runner.workers must be at least 1")
	}
	if c.Runner.Timeout <= 0 {
		return errors.New("runner.timeout must be positive")
	}
	if c.Runner.CacheTTL < 0 {
		return errors.New("runner.cache_ttl must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
