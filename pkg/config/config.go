// Package config loads jiapu's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/jiapu/config.toml (or the platform
// equivalent). A missing file yields Default(). Environment variables
// JIAPU_API_BASE_URL, JIAPU_REDIS_ADDR and JIAPU_MONGO_URI override the
// file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/jiapu/pkg/errors"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the whole file.
type Config struct {
	APIBaseURL string        `toml:"api_base_url"`
	Timeout    Duration      `toml:"timeout"`
	Cache      CacheConfig   `toml:"cache"`
	Session    SessionConfig `toml:"session"`
	Redis      RedisConfig   `toml:"redis"`
	Mongo      MongoConfig   `toml:"mongo"`
	Server     ServerConfig  `toml:"server"`
}

type CacheConfig struct {
	Backend string   `toml:"backend"` // file | redis | none
	TTL     Duration `toml:"ttl"`
	Dir     string   `toml:"dir,omitempty"`
}

type SessionConfig struct {
	Backend string `toml:"backend"` // file | redis | memory
	Profile string `toml:"profile,omitempty"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL: "https://jiapu.example.com/api",
		Timeout:    Duration{30 * time.Second},
		Cache:      CacheConfig{Backend: BackendFile, TTL: Duration{10 * time.Minute}},
		Session:    SessionConfig{Backend: BackendFile},
		Redis:      RedisConfig{Addr: "localhost:6379"},
		Mongo:      MongoConfig{URI: "mongodb://localhost:27017", Database: "jiapu"},
		Server:     ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the jiapu config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "jiapu"), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path (DefaultPath when empty) over Default(), applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	case err != nil:
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	default:
		if undec := md.Undecoded(); len(undec) > 0 {
			return cfg, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown key %s", path, undec[0])
		}
	}

	cfg.applyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("JIAPU_API_BASE_URL"); ok && v != "" {
		c.APIBaseURL = v
	}
	if v, ok := lookup("JIAPU_REDIS_ADDR"); ok && v != "" {
		c.Redis.Addr = v
	}
	if v, ok := lookup("JIAPU_MONGO_URI"); ok && v != "" {
		c.Mongo.URI = v
	}
}

// Validate checks URLs, backends and durations.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.APIBaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "api_base_url")
	}
	if c.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must be positive")
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend %q: want file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendMemory}, c.Session.Backend) {
		return errors.New(errors.ErrCodeInvalidInput, "session.backend %q: want file, redis or memory", c.Session.Backend)
	}
	if (c.Cache.Backend == BackendRedis || c.Session.Backend == BackendRedis) && c.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "redis.addr is required for the redis backend")
	}
	return nil
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes c to path, creating parent directories.
func (c Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
