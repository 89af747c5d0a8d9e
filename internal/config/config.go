package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/waymark/internal/logging"
)

// Environment variables that override file values.
const (
	EnvAddr      = "WAYMARK_ADDR"
	EnvRedisAddr = "WAYMARK_REDIS_ADDR"
	EnvLogLevel  = "WAYMARK_LOG_LEVEL"
	EnvSteps     = "WAYMARK_STEPS"
)

// Snapshot store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreFile   = "file"
)

// Config is the server configuration.
type Config struct {
	Addr     string `yaml:"addr" json:"addr"`
	Steps    string `yaml:"steps" json:"steps"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	Metrics  bool   `yaml:"metrics" json:"metrics"`

	// Store selects the snapshot backend: memory, redis or file.
	Store   string      `yaml:"store" json:"store"`
	DataDir string      `yaml:"data_dir" json:"data_dir"`
	Redis   RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the redis snapshot store.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`

	// TTL is a Go duration string; empty means no expiry.
	TTL string `yaml:"ttl" json:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Metrics:  true,
		Store:    StoreMemory,
		DataDir:  filepath.Join(".waymark", "snapshots"),
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "waymark:snapshot:",
		},
	}
}

// Load reads path (YAML, or JSON for ".json") over the defaults and applies env overrides.
// An empty path or a missing file yields defaults plus env.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read config: %w", err)
		default:
			if strings.EqualFold(filepath.Ext(path), ".json") {
				err = json.Unmarshal(data, &cfg)
			} else {
				err = yaml.Unmarshal(data, &cfg)
			}
			if err != nil {
				return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Redis.Addr = v
		if c.Store == StoreMemory {
			c.Store = StoreRedis
		}
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvSteps); ok && v != "" {
		c.Steps = v
	}
}

// Validate checks field values.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Store {
	case StoreMemory:
	case StoreFile:
		if c.DataDir == "" {
			errs = append(errs, errors.New("data_dir is required for the file store"))
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required for the redis store"))
		}
		if c.Redis.DB < 0 {
			errs = append(errs, errors.New("redis.db must be >= 0"))
		}
		if _, err := c.Redis.TTLDuration(); err != nil {
			errs = append(errs, err)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %s", strconv.Quote(c.Store)))
	}
	return errors.Join(errs...)
}

// TTLDuration parses TTL.
func (r RedisConfig) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0, fmt.Errorf("redis.ttl: %w", err)
	}
	if d < 0 {
		return 0, errors.New("redis.ttl must not be negative")
	}
	return d, nil
}
