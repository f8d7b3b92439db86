package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Auth    AuthConfig    `yaml:"auth"`
	Cache   CacheConfig   `yaml:"cache"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "memory"
	Path    string `yaml:"path"`
	Seed    bool   `yaml:"seed"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
	SQL         bool `yaml:"sql"`
}

// AuthConfig enables a single-user login when Username is set.
type AuthConfig struct {
	Username     string        `yaml:"username"`
	PasswordHash string        `yaml:"password_hash"`
	Secret       string        `yaml:"secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

type CacheConfig struct {
	ProjectsTTL time.Duration `yaml:"projects_ttl"`
}

// Enabled reports whether the login is required.
func (a AuthConfig) Enabled() bool {
	return a.Username != ""
}

// Default returns the configuration used when no file or env overrides are given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8008"},
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    "gtd.db",
			Seed:    true,
		},
		Auth:  AuthConfig{TokenTTL: 24 * time.Hour},
		Cache: CacheConfig{ProjectsTTL: 30 * time.Second},
	}
}

// Load reads the YAML file at path over the defaults, then applies GTD_* environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config %s: %w", path, err)
		}
		defer file.Close()

		decoder := yaml.NewDecoder(file)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Server.Addr = getEnv("GTD_ADDR", c.Server.Addr)
	c.Storage.Backend = getEnv("GTD_STORAGE", c.Storage.Backend)
	c.Storage.Path = getEnv("GTD_DB_PATH", c.Storage.Path)
	if c.Storage.Seed, err = getEnvBool("GTD_SEED", c.Storage.Seed); err != nil {
		return err
	}
	if c.Logging.Development, err = getEnvBool("GTD_DEV", c.Logging.Development); err != nil {
		return err
	}
	if c.Logging.SQL, err = getEnvBool("GTD_LOG_SQL", c.Logging.SQL); err != nil {
		return err
	}
	c.Auth.Username = getEnv("GTD_AUTH_USERNAME", c.Auth.Username)
	c.Auth.PasswordHash = getEnv("GTD_AUTH_PASSWORD_HASH", c.Auth.PasswordHash)
	c.Auth.Secret = getEnv("GTD_AUTH_SECRET", c.Auth.Secret)
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Auth.Enabled() {
		if c.Auth.PasswordHash == "" {
			return errors.New("auth.password_hash is required when auth.username is set")
		}
		if c.Auth.Secret == "" {
			return errors.New("auth.secret is required when auth.username is set")
		}
		if c.Auth.TokenTTL <= 0 {
			return errors.New("auth.token_ttl must be positive")
		}
	}
	return nil
}
